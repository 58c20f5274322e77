package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fieldcraft/fieldcraft-backend/internal/http/middleware"
	"github.com/fieldcraft/fieldcraft-backend/internal/http/response"
	"github.com/fieldcraft/fieldcraft-backend/internal/modules/strategicbrief"
)

type StrategicBriefHandler struct {
	briefs strategicbrief.Usecases
}

func NewStrategicBriefHandler(briefs strategicbrief.Usecases) *StrategicBriefHandler {
	return &StrategicBriefHandler{briefs: briefs}
}

func (h *StrategicBriefHandler) Generate(c *gin.Context) {
	claims := middleware.GetClaims(c)

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
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

	brief, err := h.briefs.Generate(c.Request.Context(), strategicbrief.GenerateInput{
		CampaignID:         campaignID,
		WorkspaceID:        claims.WorkspaceID,
		CustomInstructions: req.CustomInstructions,
	})
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondCreated(c, brief)
}

func (h *StrategicBriefHandler) GetLatest(c *gin.Context) {
	claims := middleware.GetClaims(c)

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	brief, err := h.briefs.GetLatest(c.Request.Context(), campaignID, claims.WorkspaceID)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	if brief == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	response.RespondOK(c, brief)
}
