package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fieldcraft/fieldcraft-backend/internal/http/middleware"
	"github.com/fieldcraft/fieldcraft-backend/internal/http/response"
	"github.com/fieldcraft/fieldcraft-backend/internal/modules/blueprint"
)

type BlueprintHandler struct {
	blueprints blueprint.Usecases
}

func NewBlueprintHandler(blueprints blueprint.Usecases) *BlueprintHandler {
	return &BlueprintHandler{blueprints: blueprints}
}

// Generate runs the pipeline. Query params: persist (default true), use_llm
// (default from config), async (default false). Body may carry
// custom_instructions. There is no per-request provider parameter; the LLM
// provider is fixed per deployment via LLM_PROVIDER.
func (h *BlueprintHandler) Generate(c *gin.Context) {
	claims := middleware.GetClaims(c)

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	persist := true
	if v := c.Query("persist"); v != "" {
		persist, _ = strconv.ParseBool(v)
	}

	var useLLM *bool
	if v := c.Query("use_llm"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		useLLM = &parsed
	}

	async := false
	if v := c.Query("async"); v != "" {
		async, _ = strconv.ParseBool(v)
	}

	var req struct {
		CustomInstructions string `json:"custom_instructions"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}

	in := blueprint.GenerateInput{
		CampaignID:         campaignID,
		WorkspaceID:        claims.WorkspaceID,
		UserID:             &claims.UserID,
		Persist:            persist,
		UseLLM:             useLLM,
		CustomInstructions: strings.TrimSpace(req.CustomInstructions),
	}

	if async {
		if err := h.blueprints.GenerateAsync(c.Request.Context(), in); err != nil {
			response.RespondMapped(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
		return
	}

	out, err := h.blueprints.Generate(c.Request.Context(), in)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondOK(c, out.Blueprint)
}

func (h *BlueprintHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	summaries, err := h.blueprints.ListBlueprints(c.Request.Context(), campaignID, claims.WorkspaceID)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondOK(c, gin.H{"blueprints": summaries})
}

func (h *BlueprintHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	blueprintID, err := uuid.Parse(c.Param("blueprint_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	artifact, err := h.blueprints.GetBlueprint(c.Request.Context(), campaignID, claims.WorkspaceID, blueprintID)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondOK(c, artifact)
}
