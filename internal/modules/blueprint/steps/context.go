package steps

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos"
	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type AssembleContextDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Campaigns       repos.CampaignRepo
	Signals         repos.SignalRepo
	Enrichments     repos.EnrichmentRepo
	Analyses        repos.SignalAnalysisRepo
	StrategicBriefs repos.StrategicBriefRepo
}

type AssembleContextInput struct {
	CampaignID     uuid.UUID
	WorkspaceID    uuid.UUID
	RelevanceFloor float64
}

// AssembleContext snapshots everything both generators need in one pass.
// Read-only; the caller holds no transaction afterward, so the LLM call
// never blocks a database connection.
func AssembleContext(ctx context.Context, deps AssembleContextDeps, in AssembleContextInput) (*GenerationContext, error) {
	campaign, err := deps.Campaigns.GetScoped(ctx, nil, in.CampaignID, in.WorkspaceID)
	if err != nil {
		return nil, err
	}

	out := &GenerationContext{
		Campaign: campaign,
		Brief:    campaign.ParsedBrief(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		signals, err := deps.Signals.GetTopByCampaignID(gctx, nil, campaign.ID, in.RelevanceFloor, 75)
		if err != nil {
			return err
		}
		out.Signals = signals

		if len(signals) == 0 {
			out.Enrichments = []*types.SignalEnrichment{}
			return nil
		}
		ids := make([]uuid.UUID, len(signals))
		for i, s := range signals {
			ids[i] = s.ID
		}
		enrichments, err := deps.Enrichments.GetBySignalIDs(gctx, nil, ids)
		if err != nil {
			return err
		}
		out.Enrichments = enrichments
		return nil
	})

	g.Go(func() error {
		analyses, err := deps.Analyses.GetCompletedByCampaignID(gctx, nil, campaign.ID, 5)
		if err != nil {
			return err
		}
		out.Analyses = dedupeAnalysesByType(analyses)
		return nil
	})

	g.Go(func() error {
		brief, err := deps.StrategicBriefs.GetLatestByCampaignID(gctx, nil, campaign.ID)
		if err != nil {
			return err
		}
		out.StrategicBrief = brief
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// dedupeAnalysesByType keeps one analysis per type. Input arrives newest
// first, so the first occurrence wins.
func dedupeAnalysesByType(analyses []*types.SignalAnalysis) []*types.SignalAnalysis {
	seen := make(map[string]bool, len(analyses))
	out := make([]*types.SignalAnalysis, 0, len(analyses))
	for _, a := range analyses {
		if seen[a.AnalysisType] {
			continue
		}
		seen[a.AnalysisType] = true
		out = append(out, a)
	}
	return out
}
