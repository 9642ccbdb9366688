package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"toolscout/internal/services"
	"toolscout/internal/utils"
)

type SearchHandler struct {
	searchService services.SearchService
}

func NewSearchHandler(searchService services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) GetRecentSearches(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	terms := h.searchService.RecentSearches(r.Context(), userID.Hex())
	utils.RespondWithJSON(w, http.StatusOK, map[string][]string{"recent": terms})
}

type commitSearchRequest struct {
	Term string `json:"term"`
}

// CommitSearch records a committed search (explicit submit or a chosen
// suggestion) into the persisted recent list.
func (h *SearchHandler) CommitSearch(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var req commitSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for CommitSearch")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	terms := h.searchService.CommitSearch(r.Context(), userID.Hex(), req.Term)
	utils.RespondWithJSON(w, http.StatusOK, map[string][]string{"recent": terms})
}
