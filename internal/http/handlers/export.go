package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fieldcraft/fieldcraft-backend/internal/http/middleware"
	"github.com/fieldcraft/fieldcraft-backend/internal/http/response"
	"github.com/fieldcraft/fieldcraft-backend/internal/modules/export"
)

type ExportHandler struct {
	exports export.Usecases
}

func NewExportHandler(exports export.Usecases) *ExportHandler {
	return &ExportHandler{exports: exports}
}

func (h *ExportHandler) Export(c *gin.Context) {
	claims := middleware.GetClaims(c)

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	var req struct {
		Platform string `json:"platform" binding:"required"`
		DryRun   *bool  `json:"dry_run"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dryRun := true
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}

	out, err := h.exports.Export(c.Request.Context(), export.ExportInput{
		CampaignID:  campaignID,
		WorkspaceID: claims.WorkspaceID,
		UserID:      &claims.UserID,
		Platform:    req.Platform,
		DryRun:      dryRun,
	})
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *ExportHandler) Platforms(c *gin.Context) {
	response.RespondOK(c, gin.H{"platforms": export.SupportedPlatforms()})
}
