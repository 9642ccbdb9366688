package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"toolscout/internal/discovery"
	"toolscout/internal/metrics"
	"toolscout/internal/models"
	"toolscout/internal/repositories"
)

// DiscoveryPage is one incrementally-loaded view over the filtered catalog.
type DiscoveryPage struct {
	Tools     []models.AnnotatedTool `json:"tools"`
	Facets    []models.FacetEntry    `json:"facets"`
	Total     int                    `json:"total"`
	PageIndex int                    `json:"page_index"`
	PageSize  int                    `json:"page_size"`
	HasMore   bool                   `json:"has_more"`
}

type DiscoveryService interface {
	ListTools(ctx context.Context, r *http.Request, userID string) (*DiscoveryPage, error)
	GetFacets(ctx context.Context) ([]models.FacetEntry, error)
	GetToolBySlug(ctx context.Context, slug string) (*models.Tool, error)
	Suggest(ctx context.Context, term string) ([]models.Tool, error)
	CreateTool(ctx context.Context, body *models.AddToolRequestBody) (*models.Tool, error)
}

type discoveryServiceImpl struct {
	toolRepo   repositories.ToolRepository
	engagement EngagementService
}

func NewDiscoveryService(toolRepo repositories.ToolRepository, engagement EngagementService) DiscoveryService {
	return &discoveryServiceImpl{toolRepo: toolRepo, engagement: engagement}
}

// buildCriteria reads the filter criteria from query parameters. Malformed
// values fall back to "no filter"; this surface never rejects a request over
// criteria.
func buildCriteria(r *http.Request) models.FilterCriteria {
	q := r.URL.Query()
	c := models.DefaultCriteria()

	if v := q.Get("category"); v != "" {
		c.Category = v
	}
	if v := q.Get("q"); v != "" {
		c.SearchTerm = v
	}
	if v := q.Get("pricing"); v != "" {
		c.Pricing = v
	}
	if v := q.Get("min_rating"); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			c.MinRating = &rating
		} else {
			log.Debug().Str("min_rating", v).Msg("Ignoring malformed min_rating")
		}
	}
	if v := q.Get("special"); v != "" {
		c.SpecialFlag = v
	}
	if v := q.Get("sort"); v != "" {
		c.SortKey = v
	}
	return c
}

func buildPaging(r *http.Request) (pageIndex, pageSize int) {
	q := r.URL.Query()
	pageIndex = 1
	pageSize = discovery.DefaultPageSize
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v >= 1 {
		pageIndex = v
	}
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil && v >= 1 && v <= 100 {
		pageSize = v
	}
	return pageIndex, pageSize
}

func (s *discoveryServiceImpl) ListTools(ctx context.Context, r *http.Request, userID string) (*DiscoveryPage, error) {
	criteria := buildCriteria(r)
	pageIndex, pageSize := buildPaging(r)
	log.Debug().Str("userID", userID).Interface("criteria", criteria).Int("page", pageIndex).Msg("Listing tools")

	catalog, err := s.toolRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch tool catalog")
		return nil, err
	}

	// The saved-set join happens here, not in the pipeline: the pure filter
	// has no identity context. Anonymous users get a nil set, which turns
	// the "saved" special flag into a no-op.
	var saved discovery.SavedSet
	var state models.EngagementSets
	if userID != "" {
		savedSet, err := s.engagement.SavedSet(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("userID", userID).Msg("Engagement state unavailable, listing without annotation")
		} else {
			saved = savedSet
			state, _ = s.engagement.GetState(ctx, userID)
		}
	}

	filtered := discovery.Apply(catalog, criteria, saved)
	page := discovery.Window(filtered, pageIndex, pageSize)

	upvoted := make(map[string]bool, len(state.UpvotedToolIDs))
	for _, id := range state.UpvotedToolIDs {
		upvoted[id] = true
	}

	annotated := make([]models.AnnotatedTool, 0, len(page.Visible))
	for _, tool := range page.Visible {
		annotated = append(annotated, models.AnnotatedTool{
			Tool:    tool,
			Saved:   saved[tool.ID.Hex()],
			Upvoted: upvoted[tool.ID.Hex()],
		})
	}

	return &DiscoveryPage{
		Tools:     annotated,
		Facets:    discovery.BuildFacets(catalog),
		Total:     len(filtered),
		PageIndex: pageIndex,
		PageSize:  pageSize,
		HasMore:   page.HasMore,
	}, nil
}

func (s *discoveryServiceImpl) GetFacets(ctx context.Context) ([]models.FacetEntry, error) {
	catalog, err := s.toolRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch tool catalog for facets")
		return nil, err
	}
	return discovery.BuildFacets(catalog), nil
}

func (s *discoveryServiceImpl) GetToolBySlug(ctx context.Context, slug string) (*models.Tool, error) {
	tool, err := s.toolRepo.FindBySlug(ctx, slug)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn().Str("slug", slug).Msg("Tool not found")
			return nil, ErrToolNotFound
		}
		log.Error().Err(err).Str("slug", slug).Msg("Error finding tool by slug")
		return nil, err
	}

	// Detail views bump the catalog-owned view counter; a failure here is
	// not worth failing the read.
	if err := s.toolRepo.IncrementViews(ctx, tool.ID); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Failed to increment tool views")
	}
	return tool, nil
}

// CreateTool adds a new entry to the catalog. New entries carry the "new"
// special flag until a later catalog sweep clears it.
func (s *discoveryServiceImpl) CreateTool(ctx context.Context, body *models.AddToolRequestBody) (*models.Tool, error) {
	if body.Slug == "" || body.Name == "" {
		return nil, errors.New("slug and name are required")
	}

	if _, err := s.toolRepo.FindBySlug(ctx, body.Slug); err == nil {
		return nil, errors.New("a tool with this slug already exists")
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	tool := &models.Tool{
		Slug:        body.Slug,
		Name:        body.Name,
		Description: body.Description,
		Category:    body.Category,
		PricingType: body.PricingType,
		Website:     body.Website,
		Rating:      body.Rating,
		IsNew:       true,
		CreatedAt:   time.Now(),
	}

	created, err := s.toolRepo.Create(ctx, tool)
	if err != nil {
		return nil, err
	}
	metrics.ToolCreatedTotal.Inc()
	log.Info().Str("slug", created.Slug).Msg("Tool added to catalog")
	return created, nil
}

// Suggest returns the live picker matches for an unsettled term.
func (s *discoveryServiceImpl) Suggest(ctx context.Context, term string) ([]models.Tool, error) {
	catalog, err := s.toolRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	c := models.DefaultCriteria()
	c.SearchTerm = term
	c.SortKey = "" // keep catalog order for suggestions
	matches := discovery.Apply(catalog, c, nil)
	if len(matches) > 5 {
		matches = matches[:5]
	}
	return matches, nil
}
