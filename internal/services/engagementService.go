package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"toolscout/internal/engagement"
	"toolscout/internal/models"
	"toolscout/internal/repositories"
)

// EngagementService fronts one reconciler per user. The reconciler mirror
// makes toggles appear instantaneous while the users collection stays the
// system of record; a failed write rolls the mirror back before the error
// reaches the handler.
type EngagementService interface {
	ToggleSave(ctx context.Context, userID, toolID string) (*models.ToggleResult, error)
	ToggleUpvote(ctx context.Context, userID, toolID string) (*models.ToggleResult, error)
	GetState(ctx context.Context, userID string) (models.EngagementSets, error)
	SavedSet(ctx context.Context, userID string) (map[string]bool, error)
	Orphans(ctx context.Context, userID string) ([]string, error)
	PruneOrphans(ctx context.Context, userID string) ([]string, error)
}

type engagementServiceImpl struct {
	store    engagement.MetadataStore
	toolRepo repositories.ToolRepository

	mu          sync.Mutex
	reconcilers map[string]*engagement.Reconciler
}

func NewEngagementService(store engagement.MetadataStore, toolRepo repositories.ToolRepository) EngagementService {
	return &engagementServiceImpl{
		store:       store,
		toolRepo:    toolRepo,
		reconcilers: make(map[string]*engagement.Reconciler),
	}
}

// reconciler returns the user's reconciler, loading the confirmed state from
// the metadata store on first use.
func (s *engagementServiceImpl) reconciler(ctx context.Context, userID string) (*engagement.Reconciler, error) {
	s.mu.Lock()
	rec, ok := s.reconcilers[userID]
	if !ok {
		rec = engagement.NewReconciler(userID, s.store)
		s.reconcilers[userID] = rec
	}
	s.mu.Unlock()

	if !rec.Loaded() {
		if err := rec.Load(ctx); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func (s *engagementServiceImpl) ToggleSave(ctx context.Context, userID, toolID string) (*models.ToggleResult, error) {
	rec, err := s.reconciler(ctx, userID)
	if err != nil {
		return nil, err
	}

	saved, err := rec.ToggleSave(ctx, toolID)
	if err != nil {
		return nil, err
	}

	state := rec.State(toolID)
	log.Info().Str("userID", userID).Str("toolID", toolID).Bool("saved", saved).Msg("Save toggle confirmed")
	return &models.ToggleResult{ToolID: toolID, Saved: saved, Upvoted: state.Upvoted}, nil
}

func (s *engagementServiceImpl) ToggleUpvote(ctx context.Context, userID, toolID string) (*models.ToggleResult, error) {
	rec, err := s.reconciler(ctx, userID)
	if err != nil {
		return nil, err
	}

	upvoted, err := rec.ToggleUpvote(ctx, toolID)
	if err != nil {
		return nil, err
	}

	result := &models.ToggleResult{ToolID: toolID, Upvoted: upvoted, Saved: rec.State(toolID).Saved}

	// The vote counter is catalog-owned. It rides along in the same mutation
	// response so the caller may display it, but a counter failure never
	// unwinds the confirmed flag; the next catalog fetch carries the truth.
	if objID, err := primitive.ObjectIDFromHex(toolID); err == nil {
		delta := int64(1)
		if !upvoted {
			delta = -1
		}
		if votes, err := s.toolRepo.IncrementVotes(ctx, objID, delta); err == nil {
			result.Votes = &votes
		} else {
			log.Warn().Err(err).Str("toolID", toolID).Msg("Vote counter adjustment failed after confirmed toggle")
		}
	}

	log.Info().Str("userID", userID).Str("toolID", toolID).Bool("upvoted", upvoted).Msg("Upvote toggle confirmed")
	return result, nil
}

func (s *engagementServiceImpl) GetState(ctx context.Context, userID string) (models.EngagementSets, error) {
	rec, err := s.reconciler(ctx, userID)
	if err != nil {
		return models.EngagementSets{}, err
	}
	return rec.Sets(), nil
}

func (s *engagementServiceImpl) SavedSet(ctx context.Context, userID string) (map[string]bool, error) {
	rec, err := s.reconciler(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rec.SavedSet(), nil
}

func (s *engagementServiceImpl) catalogIDs(ctx context.Context) (map[string]bool, error) {
	catalog, err := s.toolRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(catalog))
	for _, tool := range catalog {
		ids[tool.ID.Hex()] = true
	}
	return ids, nil
}

func (s *engagementServiceImpl) Orphans(ctx context.Context, userID string) ([]string, error) {
	rec, err := s.reconciler(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids, err := s.catalogIDs(ctx)
	if err != nil {
		return nil, err
	}
	return rec.Orphans(ids), nil
}

func (s *engagementServiceImpl) PruneOrphans(ctx context.Context, userID string) ([]string, error) {
	rec, err := s.reconciler(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids, err := s.catalogIDs(ctx)
	if err != nil {
		return nil, err
	}
	return rec.PruneOrphans(ctx, ids)
}
