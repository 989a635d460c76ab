package main

import (
	"context"

	"jurisai-backend/config"
	"jurisai-backend/extract"
	"jurisai-backend/generation"
	"jurisai-backend/handlers"
	"jurisai-backend/repository"
	"jurisai-backend/service"
	"jurisai-backend/session"
	"jurisai-backend/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.NewLogger(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize database connections
	db, err := initPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize postgres", zap.Error(err))
	}
	defer db.Close()
	logger.Info("postgres connection established")

	// Initialize storage
	fileStorage, err := storage.NewStorage(ctx, cfg.StorageConfig())
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}
	logger.Info("storage initialized", zap.String("type", cfg.Storage.Type))

	// Initialize repositories
	matterRepo := repository.NewMatterRepository(db)
	authorityRepo := repository.NewAuthorityRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	argumentRepo := repository.NewArgumentRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	fileRepo := repository.NewFileRepository(db)
	runRepo := repository.NewGenerationRunRepository(db)

	// Initialize the generation provider
	providerCfg, err := cfg.ProviderConfig()
	if err != nil {
		logger.Fatal("invalid generation config", zap.Error(err))
	}
	provider, err := generation.NewProvider(ctx, providerCfg)
	if err != nil {
		logger.Fatal("failed to initialize generation provider", zap.Error(err))
	}
	if closer, ok := provider.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	logger.Info("generation provider initialized", zap.String("provider", provider.Name()))

	client := generation.NewClient(provider, generation.WithLogger(logger))
	generator := service.NewGenerator(client, runRepo, logger)

	// Initialize services
	ingestionService := service.NewIngestionService(
		service.IngestionWithFileRepository(fileRepo),
		service.IngestionWithMatterRepository(matterRepo),
		service.IngestionWithStorage(fileStorage),
		service.IngestionWithExtractor(extract.NewExtractor()),
		service.IngestionWithLogger(logger),
	)

	assembler := service.NewContextAssembler(
		service.AssemblerWithMatterRepository(matterRepo),
		service.AssemblerWithAuthorityRepository(authorityRepo),
		service.AssemblerWithIssueRepository(issueRepo),
		service.AssemblerWithArgumentRepository(argumentRepo),
		service.AssemblerWithTextSource(ingestionService),
		service.AssemblerWithDocumentCharCap(cfg.Prompt.DocumentCharCap),
		service.AssemblerWithLogger(logger),
	)

	matterService := service.NewMatterService(
		service.WithMatterRepository(matterRepo),
		service.WithAuthorityRepository(authorityRepo),
		service.WithIssueRepository(issueRepo),
		service.WithArgumentRepository(argumentRepo),
		service.WithDocumentRepository(documentRepo),
		service.WithLogger(logger),
	)

	authorityService := service.NewAuthorityService(
		service.AuthorityWithRepository(authorityRepo),
		service.AuthorityWithMatterRepository(matterRepo),
	)

	analyticsService := service.NewAnalyticsService(
		service.AnalyticsWithMatterRepository(matterRepo),
		service.AnalyticsWithAuthorityRepository(authorityRepo),
		service.AnalyticsWithDocumentRepository(documentRepo),
	)

	researchService := service.NewResearchService(
		service.ResearchWithAssembler(assembler),
		service.ResearchWithGenerator(generator),
		service.ResearchWithIssueRepository(issueRepo),
		service.ResearchWithAuthorityRepository(authorityRepo),
		service.ResearchWithLogger(logger),
	)

	judgmentService := service.NewJudgmentService(
		service.JudgmentWithAssembler(assembler),
		service.JudgmentWithGenerator(generator),
		service.JudgmentWithTextSource(ingestionService),
		service.JudgmentWithLogger(logger),
	)

	argumentService := service.NewArgumentService(
		service.ArgumentWithAssembler(assembler),
		service.ArgumentWithGenerator(generator),
		service.ArgumentWithRepository(argumentRepo),
		service.ArgumentWithLogger(logger),
	)

	documentService := service.NewDocumentService(
		service.DocumentWithAssembler(assembler),
		service.DocumentWithGenerator(generator),
		service.DocumentWithRepository(documentRepo),
		service.DocumentWithLogger(logger),
	)

	sessions := session.NewManager(cfg.Session.Max, cfg.Session.TTL, logger)

	// Initialize handlers
	r := handlers.NewRouter(handlers.Handlers{
		Matters:  handlers.NewMatterHandler(matterService, authorityService, analyticsService, logger),
		Research: handlers.NewResearchHandler(researchService, judgmentService, logger),
		Sessions: handlers.NewSessionHandler(sessions, argumentService, documentService, logger),
		Files:    handlers.NewFileHandler(ingestionService, logger),
	}, logger)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
