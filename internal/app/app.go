package app

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/fieldcraft/fieldcraft-backend/internal/db"
	httpsrv "github.com/fieldcraft/fieldcraft-backend/internal/http"
	"github.com/fieldcraft/fieldcraft-backend/internal/observability"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/envutil"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
	"github.com/fieldcraft/fieldcraft-backend/internal/temporalx/temporalworker"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpsrv.Server
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig()

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "fieldcraft",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clientset, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, clientset)
	if err != nil {
		clientset.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, reposet, serviceset)
	middleware := wireMiddleware(log, serviceset, clientset)
	server := wireServer(handlerset, middleware)

	return &App{
		Log:      log,
		DB:       theDB,
		Server:   server,
		Cfg:      cfg,
		Clients:  clientset,
		Repos:    reposet,
		Services: serviceset,

		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background workers. Safe to call once; a second call is a
// no-op.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Clients.Temporal != nil && envutil.Bool("TEMPORAL_WORKER_ENABLED", true) {
		runner, err := temporalworker.NewRunner(a.Log, a.Clients.Temporal, a.Services.Blueprint)
		if err != nil {
			a.Log.Warn("Temporal worker init failed", "error", err)
			return
		}
		go func() {
			if err := runner.Start(ctx); err != nil {
				a.Log.Warn("Temporal worker stopped", "error", err)
			}
		}()
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
