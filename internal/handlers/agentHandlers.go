package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"toolscout/internal/services"
	"toolscout/internal/utils"
)

type AgentHandler struct {
	agentService *services.AgentService
}

func NewAgentHandler(agentService *services.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// SummarizeTool regenerates and persists the description of a single tool.
func (a *AgentHandler) SummarizeTool(w http.ResponseWriter, r *http.Request) {
	slug, err := utils.GetStringFromVars(w, r, "slug")
	if err != nil {
		return
	}

	tool, err := a.agentService.SummarizeTool(r.Context(), slug)
	if err != nil {
		if err == services.ErrToolNotFound {
			utils.SendJSONError(w, "Tool not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("slug", slug).Msg("Summarization failed")
		utils.SendJSONError(w, "Failed to generate summary: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, tool)
}
