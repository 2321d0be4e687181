package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/interview-backend/internal/api"
	interviewapi "github.com/futig/interview-backend/internal/api/interview"
	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/integration/asr"
	"github.com/futig/interview-backend/internal/integration/callback"
	"github.com/futig/interview-backend/internal/integration/llm"
	"github.com/futig/interview-backend/internal/pkg/validator"
	"github.com/futig/interview-backend/internal/repository"
	"github.com/futig/interview-backend/internal/telegram"
	"github.com/futig/interview-backend/internal/usecase/interview"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Core holds the pieces shared by every front-end: configuration, logger,
// database pool and the interview use case
type Core struct {
	Config  *config.Config
	Logger  *zap.Logger
	Usecase *interview.InterviewUsecase

	db *pgxpool.Pool
}

// Close stops all live sessions and releases the database pool
func (c *Core) Close() {
	c.Usecase.Close()
	if c.db != nil {
		c.db.Close()
	}
}

// BuildCore loads configuration for the given environment and wires the
// interview use case
func BuildCore(ctx context.Context, cfg *config.Config) (*Core, error) {
	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building interview core",
		zap.String("environment", cfg.Environment),
		zap.Int("profiles", len(cfg.Profiles)),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	interviewRepo := repository.NewInterviewPostgres(db)
	progressRepo := repository.NewProgressPostgres(db)
	logger.Info("Repositories initialized")

	callbackConnector := callback.NewConnector(cfg.CallbackConnectorCfg, logger)

	// Initialize external service connectors (with mock support)
	var llmConnector interview.LLMConnector
	var asrConnector interview.ASRConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		llmConnector = llm.NewMockConnector(logger)
		asrConnector = asr.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
		asrConnector = asr.NewConnector(cfg.ASRConnectorCfg, logger)
	}

	tracker := interview.NewProgressTracker(interviewRepo, progressRepo, callbackConnector)

	interviewUC := interview.NewUsecase(
		cfg.InterviewCfg,
		cfg.Profiles,
		interviewRepo,
		progressRepo,
		tracker,
		llmConnector,
		asrConnector,
		logger,
	)
	logger.Info("Use cases initialized")

	return &Core{
		Config:  cfg,
		Logger:  logger,
		Usecase: interviewUC,
		db:      db,
	}, nil
}

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	core, err := BuildCore(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	logger := core.Logger

	audioValidator := validator.NewValidator(cfg.AudioUploadCfg)

	interviewHandler := interviewapi.NewHandler(core.Usecase, audioValidator, cfg.AudioUploadCfg.MaxUploadSize)
	logger.Info("API handlers initialized")

	router := api.SetupRouter(interviewHandler, core.Usecase, logger)
	logger.Info("HTTP router configured")

	// WriteTimeout stays unset: session streams are long-lived websockets and
	// regular routes carry their own chi timeout
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	return &App{
		server: server,
		core:   core,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *Core, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	core, err := BuildCore(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, core.Usecase, core.Logger)
	if err != nil {
		core.Close()
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	core.Logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, core, nil
}
