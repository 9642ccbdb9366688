package repositories

import (
	"context"
	"flag"
	"os"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"toolscout/internal/database"
	"toolscout/internal/models"
)

func mustStartMongoContainer() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	dbContainer, err := mongodb.Run(context.Background(), "mongo:latest")
	if err != nil {
		return nil, err
	}

	uri, err := dbContainer.ConnectionString(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	os.Setenv("MONGO_URI", uri)
	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	flag.Parse()

	var teardown func(context.Context, ...testcontainers.TerminateOption) error
	if !testing.Short() {
		var err error
		teardown, err = mustStartMongoContainer()
		if err != nil {
			log.Fatal().Err(err).Msg("Could not start mongodb container")
		}
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Error().Err(err).Msg("Could not teardown mongodb container")
		}
	}
	os.Exit(code)
}

func TestToolRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	db := database.New()
	defer db.Close()

	toolRepo := NewToolRepository(db)
	ctx := context.Background()

	t.Run("Create and FindBySlug", func(t *testing.T) {
		tool := &models.Tool{
			Slug:        "copybot",
			Name:        "CopyBot",
			Category:    "Writing",
			PricingType: models.PricingFreemium,
			Rating:      4.5,
		}

		created, err := toolRepo.Create(ctx, tool)
		assert.NoError(t, err)
		assert.False(t, created.ID.IsZero())

		found, err := toolRepo.FindBySlug(ctx, "copybot")
		assert.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "CopyBot", found.Name)
	})

	t.Run("FindBySlug on a missing slug", func(t *testing.T) {
		_, err := toolRepo.FindBySlug(ctx, "does-not-exist")
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})

	t.Run("FindAll returns the catalog", func(t *testing.T) {
		tools, err := toolRepo.FindAll(ctx)
		assert.NoError(t, err)
		assert.NotEmpty(t, tools)
	})

	t.Run("IncrementVotes returns the value from the mutation", func(t *testing.T) {
		tool, err := toolRepo.Create(ctx, &models.Tool{Slug: "votable", Name: "Votable"})
		assert.NoError(t, err)

		votes, err := toolRepo.IncrementVotes(ctx, tool.ID, 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), votes)

		votes, err = toolRepo.IncrementVotes(ctx, tool.ID, -1)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), votes)
	})

	t.Run("UpdateDescription", func(t *testing.T) {
		tool, err := toolRepo.Create(ctx, &models.Tool{Slug: "rewrite-me", Name: "RewriteMe"})
		assert.NoError(t, err)

		assert.NoError(t, toolRepo.UpdateDescription(ctx, tool.ID, "regenerated"))
		found, err := toolRepo.FindBySlug(ctx, "rewrite-me")
		assert.NoError(t, err)
		assert.Equal(t, "regenerated", found.Description)
	})

	t.Run("UpdateDescription on a missing tool", func(t *testing.T) {
		err := toolRepo.UpdateDescription(ctx, primitive.NewObjectID(), "x")
		assert.Error(t, err)
	})
}

func TestUserRepositoryEngagement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	db := database.New()
	defer db.Close()

	userRepo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		ID:       primitive.NewObjectID(),
		Username: "engager",
		Email:    "engager@example.com",
		Password: "password",
	}
	created, err := userRepo.Create(ctx, user)
	assert.NoError(t, err)
	defer userRepo.Delete(ctx, created.ID)

	t.Run("fresh user has empty sets", func(t *testing.T) {
		sets, err := userRepo.ReadEngagement(ctx, created.ID.Hex())
		assert.NoError(t, err)
		assert.Empty(t, sets.SavedToolIDs)
		assert.Empty(t, sets.UpvotedToolIDs)
	})

	t.Run("write replaces both sets", func(t *testing.T) {
		err := userRepo.WriteEngagement(ctx, created.ID.Hex(), models.EngagementSets{
			SavedToolIDs:   []string{"t1", "t2"},
			UpvotedToolIDs: []string{"t1"},
		})
		assert.NoError(t, err)

		sets, err := userRepo.ReadEngagement(ctx, created.ID.Hex())
		assert.NoError(t, err)
		assert.Equal(t, []string{"t1", "t2"}, sets.SavedToolIDs)
		assert.Equal(t, []string{"t1"}, sets.UpvotedToolIDs)

		err = userRepo.WriteEngagement(ctx, created.ID.Hex(), models.EngagementSets{
			SavedToolIDs: []string{"t2"},
		})
		assert.NoError(t, err)

		sets, err = userRepo.ReadEngagement(ctx, created.ID.Hex())
		assert.NoError(t, err)
		assert.Equal(t, []string{"t2"}, sets.SavedToolIDs)
		assert.Empty(t, sets.UpvotedToolIDs)
	})
}
