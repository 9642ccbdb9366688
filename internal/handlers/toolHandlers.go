package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"toolscout/internal/models"
	"toolscout/internal/services"
	"toolscout/internal/utils"
)

type ToolHandler struct {
	discoveryService services.DiscoveryService
	assetService     services.AssetService
}

func NewToolHandler(discoveryService services.DiscoveryService, assetService services.AssetService) *ToolHandler {
	return &ToolHandler{discoveryService: discoveryService, assetService: assetService}
}

// ListTools serves the filtered, sorted, incrementally-loaded catalog view.
// Works anonymously; a valid bearer token adds engagement annotation.
func (h *ToolHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("userID").(string)

	page, err := h.discoveryService.ListTools(r.Context(), r, userID)
	if err != nil {
		log.Error().Err(err).Msg("Error listing tools from service")
		utils.SendJSONError(w, "Failed to list tools", http.StatusBadGateway)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, page)
}

func (h *ToolHandler) GetFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.discoveryService.GetFacets(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error building facets from service")
		utils.SendJSONError(w, "Failed to build facets", http.StatusBadGateway)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, facets)
}

func (h *ToolHandler) CreateTool(w http.ResponseWriter, r *http.Request) {
	var body models.AddToolRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendJSONError(w, "Invalid tool data input: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.discoveryService.CreateTool(r.Context(), &body)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "required") {
			statusCode = http.StatusBadRequest
		} else if strings.Contains(err.Error(), "already exists") {
			statusCode = http.StatusConflict
		}
		utils.SendJSONError(w, err.Error(), statusCode)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *ToolHandler) GetToolBySlug(w http.ResponseWriter, r *http.Request) {
	slug, err := utils.GetStringFromVars(w, r, "slug")
	if err != nil {
		return
	}

	tool, err := h.discoveryService.GetToolBySlug(r.Context(), slug)
	if err != nil {
		if err == services.ErrToolNotFound {
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		} else {
			log.Error().Err(err).Str("slug", slug).Msg("Error getting tool by slug from service")
			utils.SendJSONError(w, "Failed to retrieve tool", http.StatusInternalServerError)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, tool)
}

// Suggest serves the live picker list for an unsettled term.
func (h *ToolHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		utils.RespondWithJSON(w, http.StatusOK, []struct{}{})
		return
	}

	matches, err := h.discoveryService.Suggest(r.Context(), term)
	if err != nil {
		log.Error().Err(err).Str("term", term).Msg("Error building suggestions")
		utils.SendJSONError(w, "Failed to build suggestions", http.StatusBadGateway)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, matches)
}

func (h *ToolHandler) GetToolLogo(w http.ResponseWriter, r *http.Request) {
	slug, err := utils.GetStringFromVars(w, r, "slug")
	if err != nil {
		return
	}

	logo, err := h.assetService.ResolveLogo(r.Context(), slug)
	if err != nil {
		if err == services.ErrToolNotFound {
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		} else {
			log.Error().Err(err).Str("slug", slug).Msg("Error resolving tool logo")
			utils.SendJSONError(w, "Failed to resolve logo", http.StatusInternalServerError)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"slug": slug, "logo": logo})
}
