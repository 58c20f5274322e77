package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/fieldcraft/fieldcraft-backend/internal/http/handlers"
	httpMW "github.com/fieldcraft/fieldcraft-backend/internal/http/middleware"
)

type RouterConfig struct {
	HealthHandler         *httpH.HealthHandler
	AuthHandler           *httpH.AuthHandler
	CampaignHandler       *httpH.CampaignHandler
	SignalHandler         *httpH.SignalHandler
	BlueprintHandler      *httpH.BlueprintHandler
	StrategicBriefHandler *httpH.StrategicBriefHandler
	ExportHandler         *httpH.ExportHandler

	AuthMiddleware      *httpMW.AuthMiddleware
	RequestLogger       gin.HandlerFunc
	RateLimitMiddleware gin.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("fieldcraft"))
	if cfg.RequestLogger != nil {
		r.Use(cfg.RequestLogger)
	}
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/v1")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}
		if cfg.RateLimitMiddleware != nil {
			protected.Use(cfg.RateLimitMiddleware)
		}

		// API keys
		if cfg.AuthHandler != nil {
			protected.POST("/api-keys", cfg.AuthHandler.CreateAPIKey)
			protected.DELETE("/api-keys/:key_id", cfg.AuthHandler.RevokeAPIKey)
		}

		// Campaigns
		if cfg.CampaignHandler != nil {
			protected.POST("/campaigns", cfg.CampaignHandler.Create)
			protected.GET("/campaigns", cfg.CampaignHandler.List)
			protected.GET("/campaigns/:id", cfg.CampaignHandler.Get)
			protected.PATCH("/campaigns/:id", cfg.CampaignHandler.Update)
			protected.DELETE("/campaigns/:id", cfg.CampaignHandler.Delete)
		}

		// Signals
		if cfg.SignalHandler != nil {
			protected.POST("/campaigns/:id/signals", cfg.SignalHandler.Create)
			protected.GET("/campaigns/:id/signals", cfg.SignalHandler.List)
			protected.POST("/campaigns/:id/enrichments", cfg.SignalHandler.CreateEnrichments)
		}

		// Blueprints
		if cfg.BlueprintHandler != nil {
			protected.POST("/campaigns/:id/blueprint", cfg.BlueprintHandler.Generate)
			protected.GET("/campaigns/:id/blueprints", cfg.BlueprintHandler.List)
			protected.GET("/campaigns/:id/blueprints/:blueprint_id", cfg.BlueprintHandler.Get)
		}

		// Strategic brief
		if cfg.StrategicBriefHandler != nil {
			protected.POST("/campaigns/:id/strategic-brief", cfg.StrategicBriefHandler.Generate)
			protected.GET("/campaigns/:id/strategic-brief", cfg.StrategicBriefHandler.GetLatest)
		}

		// Export
		if cfg.ExportHandler != nil {
			protected.POST("/campaigns/:id/export", cfg.ExportHandler.Export)
			protected.GET("/export/platforms", cfg.ExportHandler.Platforms)
		}
	}

	return r
}
