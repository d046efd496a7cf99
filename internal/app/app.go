package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"TalentScout/internal/config"
	"TalentScout/internal/extract"
	"TalentScout/internal/infrastructure/docs"
	"TalentScout/internal/infrastructure/email"
	"TalentScout/internal/infrastructure/llm"
	"TalentScout/internal/infrastructure/providers"
	"TalentScout/internal/infrastructure/storage"
	"TalentScout/internal/logging"
	"TalentScout/internal/match"
	"TalentScout/internal/ports"
	"TalentScout/internal/reconcile"
	"TalentScout/internal/source"
	"TalentScout/internal/usecase"
)

// Application wires configuration into the recruitment pipeline and owns the
// shared lifecycle pieces (database handle, worker pool).
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	pool     *usecase.Pool
	pipeline *usecase.Pipeline
	store    *docs.Store
}

// New builds the full dependency graph. The database schema is ensured on
// startup so a fresh instance is usable without migration tooling.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := storage.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	repository := storage.NewPostgresRepository(db)

	var backend ports.InferenceBackend
	if cfg.Inference.APIKey != "" {
		backend = llm.NewOpenAIClient(cfg.Inference)
	}
	extractor := extract.New(backend, baseLogger.With("component", "extract"))
	scorer := match.New(backend, baseLogger.With("component", "match"))

	registry := source.NewRegistry()
	registry.Register(providers.NewLinkedInConnector(cfg.Providers, nil))
	registry.Register(providers.NewCVLibraryConnector(cfg.Providers, nil))
	registry.Register(providers.NewNaukriConnector(cfg.Providers, nil))

	reconciler := reconcile.New(repository, baseLogger.With("component", "reconcile"))
	evaluator := usecase.NewEvaluator(scorer, repository, repository,
		cfg.Pipeline.MatchThreshold, baseLogger.With("component", "match"))
	orchestrator := usecase.NewOrchestrator(repository, registry, reconciler, evaluator,
		cfg.Providers.SearchTimeout(), baseLogger.With("component", "search"))

	pool := usecase.NewPool(cfg.Pipeline.Workers, cfg.Pipeline.QueueSize,
		baseLogger.With("component", "workers"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Candidates:   repository,
		Jobs:         repository,
		Decoder:      docs.NewDecoder(baseLogger.With("component", "docs")),
		Extractor:    extractor,
		Orchestrator: orchestrator,
		Evaluator:    evaluator,
		Notifier:     email.NewSMTPNotifier(cfg.SMTP, baseLogger.With("component", "email")),
		Dispatcher:   pool,
		Logger:       baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		db:       db,
		pool:     pool,
		pipeline: pipeline,
		store:    docs.NewStore(cfg.Uploads.Dir),
	}, nil
}

// Pipeline exposes the coordinator to callers embedding the application.
func (a *Application) Pipeline() *usecase.Pipeline { return a.pipeline }

// Store exposes the resume document store.
func (a *Application) Store() *docs.Store { return a.store }

// Start launches background workers.
func (a *Application) Start(ctx context.Context) {
	a.pool.Start(ctx)
	a.logger.Info("application started", "workers", a.cfg.Pipeline.Workers)
}

// Stop drains background work and releases the database handle.
func (a *Application) Stop(ctx context.Context) error {
	err := a.pool.Stop(ctx)
	if closeErr := a.db.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
