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
)

type SignalHandler struct {
	campaigns   repos.CampaignRepo
	signals     repos.SignalRepo
	enrichments repos.EnrichmentRepo
}

func NewSignalHandler(campaigns repos.CampaignRepo, signals repos.SignalRepo, enrichments repos.EnrichmentRepo) *SignalHandler {
	return &SignalHandler{campaigns: campaigns, signals: signals, enrichments: enrichments}
}

type signalRequest struct {
	Source         string               `json:"source" binding:"required"`
	SearchMethod   string               `json:"search_method"`
	Query          string               `json:"query" binding:"required"`
	Evidence       []types.EvidenceItem `json:"evidence"`
	Provenance     map[string]any       `json:"provenance"`
	RelevanceScore float64              `json:"relevance_score"`
}

// Create ingests externally collected signals in bulk for one campaign.
func (h *SignalHandler) Create(c *gin.Context) {
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

	var req struct {
		Signals []signalRequest `json:"signals" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	records := make([]*types.Signal, 0, len(req.Signals))
	for _, s := range req.Signals {
		evidence := s.Evidence
		if evidence == nil {
			evidence = []types.EvidenceItem{}
		}
		rawEvidence, err := json.Marshal(evidence)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		var rawProvenance datatypes.JSON
		if len(s.Provenance) > 0 {
			raw, err := json.Marshal(s.Provenance)
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
				return
			}
			rawProvenance = datatypes.JSON(raw)
		}
		records = append(records, &types.Signal{
			CampaignID:     campaignID,
			Source:         s.Source,
			SearchMethod:   s.SearchMethod,
			Query:          s.Query,
			Evidence:       datatypes.JSON(rawEvidence),
			Provenance:     rawProvenance,
			RelevanceScore: s.RelevanceScore,
		})
	}

	created, err := h.signals.Create(c.Request.Context(), nil, records)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"signals": created})
}

func (h *SignalHandler) List(c *gin.Context) {
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

	signals, err := h.signals.ListByCampaignID(c.Request.Context(), nil, campaignID)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondOK(c, gin.H{"signals": signals})
}

type enrichmentRequest struct {
	SignalID       uuid.UUID      `json:"signal_id" binding:"required"`
	EnrichmentType string         `json:"enrichment_type" binding:"required"`
	Entities       []string       `json:"entities"`
	Sentiment      *float64       `json:"sentiment"`
	TrendScore     *float64       `json:"trend_score"`
	Features       map[string]any `json:"features"`
}

// CreateEnrichments appends derived metadata to existing signals.
func (h *SignalHandler) CreateEnrichments(c *gin.Context) {
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

	var req struct {
		Enrichments []enrichmentRequest `json:"enrichments" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	records := make([]*types.SignalEnrichment, 0, len(req.Enrichments))
	for _, e := range req.Enrichments {
		entities := e.Entities
		if entities == nil {
			entities = []string{}
		}
		rawEntities, err := json.Marshal(entities)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		var rawFeatures datatypes.JSON
		if len(e.Features) > 0 {
			raw, err := json.Marshal(e.Features)
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
				return
			}
			rawFeatures = datatypes.JSON(raw)
		}
		records = append(records, &types.SignalEnrichment{
			SignalID:       e.SignalID,
			EnrichmentType: e.EnrichmentType,
			Entities:       datatypes.JSON(rawEntities),
			Sentiment:      e.Sentiment,
			TrendScore:     e.TrendScore,
			Features:       rawFeatures,
		})
	}

	created, err := h.enrichments.Create(c.Request.Context(), nil, records)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"enrichments": created})
}
