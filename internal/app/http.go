package app

import (
	"github.com/gin-gonic/gin"

	"github.com/fieldcraft/fieldcraft-backend/internal/http"
	httpH "github.com/fieldcraft/fieldcraft-backend/internal/http/handlers"
	httpMW "github.com/fieldcraft/fieldcraft-backend/internal/http/middleware"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type Handlers struct {
	Health         *httpH.HealthHandler
	Auth           *httpH.AuthHandler
	Campaign       *httpH.CampaignHandler
	Signal         *httpH.SignalHandler
	Blueprint      *httpH.BlueprintHandler
	StrategicBrief *httpH.StrategicBriefHandler
	Export         *httpH.ExportHandler
}

type Middleware struct {
	Auth      *httpMW.AuthMiddleware
	RateLimit gin.HandlerFunc
	Logger    gin.HandlerFunc
}

func wireHandlers(log *logger.Logger, r Repos, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:         httpH.NewHealthHandler(),
		Auth:           httpH.NewAuthHandler(s.Auth),
		Campaign:       httpH.NewCampaignHandler(r.Campaign, s.Audit),
		Signal:         httpH.NewSignalHandler(r.Campaign, r.Signal, r.Enrichment),
		Blueprint:      httpH.NewBlueprintHandler(s.Blueprint),
		StrategicBrief: httpH.NewStrategicBriefHandler(s.StrategicBrief),
		Export:         httpH.NewExportHandler(s.Export),
	}
}

func wireMiddleware(log *logger.Logger, s Services, c Clients) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:      httpMW.NewAuthMiddleware(log, s.Auth),
		RateLimit: httpMW.RateLimit(c.RateLimiter, log),
		Logger:    httpMW.RequestLogger(log),
	}
}

func wireServer(h Handlers, mw Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		HealthHandler:         h.Health,
		AuthHandler:           h.Auth,
		CampaignHandler:       h.Campaign,
		SignalHandler:         h.Signal,
		BlueprintHandler:      h.Blueprint,
		StrategicBriefHandler: h.StrategicBrief,
		ExportHandler:         h.Export,

		AuthMiddleware:      mw.Auth,
		RequestLogger:       mw.Logger,
		RateLimitMiddleware: mw.RateLimit,
	})
}
