package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"toolscout/internal/metrics"
	"toolscout/internal/models"
	"toolscout/internal/repositories"
)

// AgentService regenerates catalog tool descriptions through the LLM.
type AgentService struct {
	toolRepo repositories.ToolRepository
}

func NewAgentService(toolRepo repositories.ToolRepository) *AgentService {
	return &AgentService{toolRepo: toolRepo}
}

// SummarizeTool rewrites the tool's description and persists it, returning
// the updated tool.
func (s *AgentService) SummarizeTool(ctx context.Context, slug string) (*models.Tool, error) {
	log.Debug().Str("slug", slug).Msg("Attempting to summarize tool")
	tool, err := s.toolRepo.FindBySlug(ctx, slug)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrToolNotFound
		}
		log.Error().Err(err).Str("slug", slug).Msg("Failed to retrieve tool for summary")
		return nil, err
	}

	summary, err := LLMSummarizeTool(tool.Name, tool.Website, tool.Description)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("LLM summary generation failed")
		return nil, err
	}

	if err := s.toolRepo.UpdateDescription(ctx, tool.ID, summary); err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to persist generated description")
		return nil, err
	}

	tool.Description = summary
	metrics.SummaryGeneratedTotal.Inc()
	log.Info().Str("slug", slug).Msg("Tool description regenerated")
	return tool, nil
}
