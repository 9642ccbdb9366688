package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"toolscout/internal/engagement"
	"toolscout/internal/services"
	"toolscout/internal/utils"
)

type EngagementHandler struct {
	engagementService services.EngagementService
}

func NewEngagementHandler(engagementService services.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagementService: engagementService}
}

func (h *EngagementHandler) userAndTool(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return "", "", false
	}
	toolID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return "", "", false
	}
	return userID.Hex(), toolID.Hex(), true
}

// ToggleSave flips the save flag. A failed remote write has already been
// rolled back by the reconciler; the client keeps its pre-toggle state.
func (h *EngagementHandler) ToggleSave(w http.ResponseWriter, r *http.Request) {
	userID, toolID, ok := h.userAndTool(w, r)
	if !ok {
		return
	}

	result, err := h.engagementService.ToggleSave(r.Context(), userID, toolID)
	if err != nil {
		log.Error().Err(err).Str("toolID", toolID).Msg("Error toggling save via service")
		utils.SendJSONError(w, "Failed to toggle save, previous state restored", http.StatusBadGateway)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *EngagementHandler) ToggleUpvote(w http.ResponseWriter, r *http.Request) {
	userID, toolID, ok := h.userAndTool(w, r)
	if !ok {
		return
	}

	result, err := h.engagementService.ToggleUpvote(r.Context(), userID, toolID)
	if err != nil {
		log.Error().Err(err).Str("toolID", toolID).Msg("Error toggling upvote via service")
		utils.SendJSONError(w, "Failed to toggle upvote, previous state restored", http.StatusBadGateway)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *EngagementHandler) GetEngagement(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	sets, err := h.engagementService.GetState(r.Context(), userID.Hex())
	if err != nil {
		log.Error().Err(err).Msg("Error reading engagement state via service")
		utils.SendJSONError(w, "Failed to read engagement state", http.StatusBadGateway)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, sets)
}

// GetOrphans reports engagement ids that reference tools missing from the
// catalog. Diagnostics only; nothing is removed.
func (h *EngagementHandler) GetOrphans(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	orphans, err := h.engagementService.Orphans(r.Context(), userID.Hex())
	if err != nil {
		log.Error().Err(err).Msg("Error detecting orphaned engagement ids")
		utils.SendJSONError(w, "Failed to detect orphans", http.StatusBadGateway)
		return
	}
	if orphans == nil {
		orphans = []string{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string][]string{"orphans": orphans})
}

// PruneOrphans is the deliberate removal counterpart of GetOrphans.
func (h *EngagementHandler) PruneOrphans(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	pruned, err := h.engagementService.PruneOrphans(r.Context(), userID.Hex())
	if err != nil {
		if err == engagement.ErrNotLoaded {
			utils.SendJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		log.Error().Err(err).Msg("Error pruning orphaned engagement ids")
		utils.SendJSONError(w, "Failed to prune orphans", http.StatusBadGateway)
		return
	}
	if pruned == nil {
		pruned = []string{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string][]string{"pruned": pruned})
}
