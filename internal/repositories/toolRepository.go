package repositories

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"toolscout/internal/database"
	"toolscout/internal/models"
	"toolscout/internal/utils"
)

// ToolRepository is the catalog provider. FindAll returns the working set the
// discovery engine filters, sorts and paginates client-side; the collection
// is small enough to be effectively complete in one read.
type ToolRepository interface {
	FindAll(ctx context.Context) ([]models.Tool, error)
	FindBySlug(ctx context.Context, slug string) (*models.Tool, error)
	Create(ctx context.Context, tool *models.Tool) (*models.Tool, error)
	UpdateDescription(ctx context.Context, toolID primitive.ObjectID, description string) error
	IncrementViews(ctx context.Context, toolID primitive.ObjectID) error
	IncrementVotes(ctx context.Context, toolID primitive.ObjectID, delta int64) (int64, error)
}

type toolRepository struct {
	db database.Service
}

func NewToolRepository(db database.Service) ToolRepository {
	return &toolRepository{db: db}
}

func (r *toolRepository) collection() *mongo.Collection {
	return r.db.Client().Database("toolscout").Collection("tools")
}

func (r *toolRepository) FindAll(ctx context.Context) ([]models.Tool, error) {
	queryType := "findAll"
	repository := "tool"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	cursor, err := r.collection().Find(ctx, bson.M{})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to retrieve tool catalog: %w", err)
	}
	defer cursor.Close(ctx)

	var tools []models.Tool
	if err := cursor.All(ctx, &tools); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("error decoding tool catalog: %w", err)
	}
	return tools, nil
}

func (r *toolRepository) FindBySlug(ctx context.Context, slug string) (*models.Tool, error) {
	queryType := "findBySlug"
	repository := "tool"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var tool models.Tool
	err := r.collection().FindOne(ctx, bson.M{"slug": slug}).Decode(&tool)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err // Can be mongo.ErrNoDocuments
	}
	return &tool, nil
}

func (r *toolRepository) Create(ctx context.Context, tool *models.Tool) (*models.Tool, error) {
	queryType := "create"
	repository := "tool"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	result, err := r.collection().InsertOne(ctx, tool)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("slug", tool.Slug).Msg("Failed to insert tool into catalog")
		return nil, fmt.Errorf("failed to create tool: %w", err)
	}
	tool.ID = result.InsertedID.(primitive.ObjectID)
	return tool, nil
}

func (r *toolRepository) UpdateDescription(ctx context.Context, toolID primitive.ObjectID, description string) error {
	queryType := "updateDescription"
	repository := "tool"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{"description": description}}
	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": toolID}, update)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("failed to update tool description: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("tool not found")
	}
	return nil
}

func (r *toolRepository) IncrementViews(ctx context.Context, toolID primitive.ObjectID) error {
	queryType := "incrementViews"
	repository := "tool"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	_, err := r.collection().UpdateOne(ctx, bson.M{"_id": toolID}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("failed to increment tool views: %w", err)
	}
	return nil
}

// IncrementVotes adjusts the catalog-owned vote counter and returns the new
// value, so the toggle response can source the counter from the same
// mutation.
func (r *toolRepository) IncrementVotes(ctx context.Context, toolID primitive.ObjectID, delta int64) (int64, error) {
	queryType := "incrementVotes"
	repository := "tool"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var updated models.Tool
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection().FindOneAndUpdate(ctx, bson.M{"_id": toolID},
		bson.M{"$inc": bson.M{"votes": delta}}, after).Decode(&updated)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("tool_id", toolID.Hex()).Msg("Error adjusting tool vote counter")
		return 0, fmt.Errorf("failed to adjust tool vote counter: %w", err)
	}
	return updated.Votes, nil
}
