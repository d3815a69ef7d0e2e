package main

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tenderhub/insight-api/internal/config"
	"tenderhub/insight-api/internal/handlers"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/repositories"
	"tenderhub/insight-api/internal/services"
)

// application holds the long-lived clients and services shared by the commands.
type application struct {
	cfg *config.Config
	log *zap.Logger

	db    *gorm.DB
	mongo *mongo.Client
	pool  services.ModelPool
	index services.SearchIndex

	summarizer services.Summarizer
	tenders    services.TenderService
	handlers   handlers.Handlers
	authn      *authSettings
}

type authSettings struct {
	service     services.AuthService
	enabled     bool
	defaultPlan models.Plan
	policy      *services.PlanPolicy
}

func newApplication(ctx context.Context, cfg *config.Config, log *zap.Logger) (*application, error) {
	a := &application{cfg: cfg, log: log}

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	a.db = db

	client, mdb, err := config.InitMongo(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.mongo = client

	if err := repositories.EnsureIndexes(ctx, mdb); err != nil {
		a.Close()
		return nil, err
	}

	retry := repositories.NewRetrier(cfg.Retry.MaxAttempts, cfg.Retry.InitialDelay, cfg.Retry.MaxDelay, log)
	tenderRepo := repositories.NewTenderRepository(db, retry)
	userRepo := repositories.NewUserRepository(db, retry)
	profileRepo := repositories.NewProfileRepository(db, retry)
	workspaceRepo := repositories.NewWorkspaceRepository(db, retry)
	summaryRepo := repositories.NewSummaryRepository(mdb, retry)
	readinessRepo := repositories.NewReadinessRepository(mdb, retry)
	noteRepo := repositories.NewNoteRepository(mdb, retry)
	log.Info("✅ Repositories initialized successfully")

	model, embedder, err := newSummaryModel(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.pool = services.NewModelPool(cfg.Summarizer.Workers, log)
	a.pool.Start()

	a.summarizer = services.NewSummarizer(model, a.pool, services.SummarizerOptions{
		MaxLength:     cfg.Summarizer.MaxLength,
		MinLength:     cfg.Summarizer.MinLength,
		MaxInputChars: cfg.Summarizer.MaxInputChars,
		Timeout:       cfg.Summarizer.Timeout,
	}, log)
	log.Info("✅ Summarizer initialized", zap.String("model", a.summarizer.ModelName()))

	if cfg.Search.Enabled {
		a.index = newSearchIndex(ctx, cfg, embedder, log)
	}

	var rules []services.Rule
	if cfg.Scoring.RulesFile != "" {
		rules, err = services.LoadRules(cfg.Scoring.RulesFile)
		if err != nil {
			a.Close()
			return nil, err
		}
		log.Info("✅ Checklist rules loaded", zap.Int("rules", len(rules)))
	}
	engine := services.NewScoringEngine(services.ScoringOptions{
		Threshold:           cfg.Scoring.Threshold,
		CertificationMarker: cfg.Scoring.CertificationMarker,
	}, rules...)

	archive := services.NewArchiveService(cfg.Storage.ArchiveURL)

	a.tenders = services.NewTenderService(
		tenderRepo,
		summaryRepo,
		services.NewPDFExtractor(cfg.Storage.MaxPages, log),
		a.summarizer,
		archive,
		a.index,
		services.TenderServiceOptions{DedupeUploads: cfg.Storage.DedupeUpload},
		log,
	)

	readiness := services.NewReadinessService(
		tenderRepo,
		services.NewReadinessGateway(summaryRepo, readinessRepo),
		readinessRepo,
		engine,
		log,
	)
	workspace := services.NewWorkspaceService(tenderRepo, workspaceRepo, summaryRepo, readinessRepo, noteRepo, log)
	analytics := services.NewAnalyticsService(tenderRepo, summaryRepo, readinessRepo)
	ocds := services.NewOCDSService(cfg.OCDS.BaseURL, cfg.OCDS.Timeout, log)
	auth := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	log.Info("✅ Services initialized successfully")

	a.authn = &authSettings{
		service:     auth,
		enabled:     cfg.Auth.Enabled,
		defaultPlan: models.Plan(cfg.Auth.DefaultPlan),
		policy:      services.NewPlanPolicy(cfg.Auth.PlanGating),
	}

	a.handlers = handlers.Handlers{
		Upload:    handlers.NewUploadHandler(a.tenders, cfg.Storage.MaxFileSize, log),
		Tender:    handlers.NewTenderHandler(a.tenders, services.NewExportService(a.tenders)),
		Readiness: handlers.NewReadinessHandler(readiness, profileRepo),
		Profile:   handlers.NewProfileHandler(profileRepo),
		Workspace: handlers.NewWorkspaceHandler(workspace),
		Health:    handlers.NewHealthHandler(a.summarizer, a.healthChecks(), log),
		OCDS:      handlers.NewOCDSHandler(ocds),
		Analytics: handlers.NewAnalyticsHandler(analytics),
	}
	if cfg.Auth.Enabled {
		a.handlers.Auth = handlers.NewAuthHandler(auth)
	}
	log.Info("✅ Handlers initialized")

	return a, nil
}

// newSummaryModel picks the summarization backend. A missing API key leaves
// the model tier off. The Gemini client doubles as the embedder for search.
func newSummaryModel(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.SummaryModel, services.Embedder, error) {
	var (
		model    services.SummaryModel
		embedder services.Embedder
	)

	if cfg.Summarizer.GeminiAPIKey != "" {
		geminiModel := ""
		if cfg.Summarizer.Provider == "gemini" {
			geminiModel = cfg.Summarizer.Model
		}
		gemini, err := services.NewGeminiService(ctx, cfg.Summarizer.GeminiAPIKey, geminiModel, log)
		if err != nil {
			return nil, nil, err
		}
		embedder = gemini
		if cfg.Summarizer.Provider == "gemini" {
			model = gemini
		}
	}

	if cfg.Summarizer.Provider == "openai" && cfg.Summarizer.OpenAIAPIKey != "" {
		openai, err := services.NewOpenAIService(cfg.Summarizer.OpenAIAPIKey, cfg.Summarizer.Model)
		if err != nil {
			return nil, nil, err
		}
		model = openai
	}

	if model == nil && cfg.Summarizer.Provider != "extractive" {
		log.Warn("no API key for summarizer provider, using extractive summaries",
			zap.String("provider", cfg.Summarizer.Provider))
	}

	return model, embedder, nil
}

// newSearchIndex returns nil when Qdrant cannot be reached. Ingest and search
// keep working without it.
func newSearchIndex(ctx context.Context, cfg *config.Config, embedder services.Embedder, log *zap.Logger) services.SearchIndex {
	if embedder == nil {
		log.Warn("SEARCH_ENABLED is set but GEMINI_API_KEY is empty; semantic search is off")
		return nil
	}

	index, err := services.NewQdrantService(cfg.Search.QdrantURL, cfg.Search.APIKey, cfg.Search.Collection, embedder, log)
	if err != nil {
		log.Warn("semantic search is off", zap.Error(err))
		return nil
	}
	return initSearchIndex(ctx, index, cfg.Search.Collection, log)
}

func initSearchIndex(ctx context.Context, index services.SearchIndex, collection string, log *zap.Logger) services.SearchIndex {
	if err := index.InitCollection(ctx); err != nil {
		_ = index.Close()
		log.Warn("semantic search is off",
			zap.String("collection", collection),
			zap.Error(fmt.Errorf("failed to initialize Qdrant collection: %w", err)),
		)
		return nil
	}

	log.Info("✅ Qdrant initialized successfully", zap.String("collection", collection))
	return index
}

func (a *application) healthChecks() map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := a.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"mongo": func(ctx context.Context) error {
			return a.mongo.Ping(ctx, readpref.Primary())
		},
	}
	if a.index != nil {
		checks["qdrant"] = a.index.Ping
	}
	return checks
}

// Close releases every client in reverse order of creation.
func (a *application) Close() {
	if a.pool != nil {
		a.pool.Stop()
	}
	if a.index != nil {
		if err := a.index.Close(); err != nil {
			a.log.Warn("failed to close Qdrant client", zap.Error(err))
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(context.Background()); err != nil {
			a.log.Warn("failed to disconnect from mongo", zap.Error(err))
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
