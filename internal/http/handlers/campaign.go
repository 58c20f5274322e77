package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos"
	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/http/middleware"
	"github.com/fieldcraft/fieldcraft-backend/internal/http/response"
	"github.com/fieldcraft/fieldcraft-backend/internal/services"
)

type CampaignHandler struct {
	campaigns repos.CampaignRepo
	audit     services.AuditService
}

func NewCampaignHandler(campaigns repos.CampaignRepo, audit services.AuditService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, audit: audit}
}

type campaignRequest struct {
	Name  string      `json:"name" binding:"required"`
	Brief types.Brief `json:"brief"`
}

func (h *CampaignHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	rawBrief, err := json.Marshal(req.Brief)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	campaign, err := h.campaigns.Create(c.Request.Context(), nil, &types.Campaign{
		WorkspaceID: claims.WorkspaceID,
		Name:        req.Name,
		Status:      types.CampaignStatusDraft,
		Brief:       datatypes.JSON(rawBrief),
	})
	if err != nil {
		response.RespondMapped(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), claims.WorkspaceID, &claims.UserID, "campaign.created", "campaign_handler", map[string]any{
		"campaign_id": campaign.ID.String(),
	})
	response.RespondCreated(c, campaign)
}

func (h *CampaignHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	campaigns, err := h.campaigns.ListByWorkspaceID(c.Request.Context(), nil, claims.WorkspaceID, 0, 100)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondOK(c, gin.H{"campaigns": campaigns})
}

func (h *CampaignHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	campaign, err := h.campaigns.GetScoped(c.Request.Context(), nil, campaignID, claims.WorkspaceID)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondOK(c, campaign)
}

func (h *CampaignHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	var req struct {
		Name   *string      `json:"name"`
		Status *string      `json:"status"`
		Brief  *types.Brief `json:"brief"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	campaign, err := h.campaigns.GetScoped(c.Request.Context(), nil, campaignID, claims.WorkspaceID)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}

	if req.Name != nil {
		campaign.Name = *req.Name
	}
	if req.Status != nil {
		campaign.Status = *req.Status
	}
	if req.Brief != nil {
		rawBrief, err := json.Marshal(req.Brief)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		campaign.Brief = datatypes.JSON(rawBrief)
	}

	updated, err := h.campaigns.Update(c.Request.Context(), nil, campaign)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondOK(c, updated)
}

func (h *CampaignHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if _, err := h.campaigns.GetScoped(c.Request.Context(), nil, campaignID, claims.WorkspaceID); err != nil {
		response.RespondMapped(c, err)
		return
	}
	if err := h.campaigns.Delete(c.Request.Context(), nil, campaignID); err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
