package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/interview-backend/internal/entity"
	pkgRetry "github.com/futig/interview-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	LLMConnectorCfg      LLMConnectorConfig      `envPrefix:"LLM_"`
	ASRConnectorCfg      ASRConnectorConfig      `envPrefix:"ASR_"`
	CallbackConnectorCfg CallbackConnectorConfig `envPrefix:"CALLBACK_"`

	// Interview sessions
	InterviewCfg InterviewConfig `envPrefix:"INTERVIEW_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Audio answer upload limits
	AudioUploadCfg AudioUploadConfig `envPrefix:"AUDIO_UPLOAD_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Interview profiles (loaded from YAML file)
	Profiles map[string]Profile

	// Environment (set from flag, not from env var)
	Environment string
}

// InterviewConfig holds defaults and lifetime settings of interview sessions
type InterviewConfig struct {
	TotalQuestions  int                  `env:"TOTAL_QUESTIONS" envDefault:"5"`
	DefaultType     entity.InterviewType `env:"DEFAULT_TYPE" envDefault:"behavioral"`
	SessionTTL      time.Duration        `env:"SESSION_TTL" envDefault:"2h"`
	CleanupInterval time.Duration        `env:"CLEANUP_INTERVAL" envDefault:"10m"`
	RequireCamera   bool                 `env:"REQUIRE_CAMERA" envDefault:"true"`
	ProfilesFile    string               `env:"PROFILES_FILE" envDefault:"internal/config/profiles.yaml"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	MaxConcurrentUsers int    `env:"MAX_CONCURRENT_USERS" envDefault:"100"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	QuestionEndpoint string               `env:"QUESTION_ENDPOINT" envDefault:"/generate-question"`
	AnalysisEndpoint string               `env:"ANALYSIS_ENDPOINT" envDefault:"/analyze-response"`
	ReportEndpoint   string               `env:"REPORT_ENDPOINT" envDefault:"/generate-report"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type ASRConnectorConfig struct {
	HTTPClientConfig
	TranscribeEndpoint string               `env:"TRANSCRIBE_ENDPOINT" envDefault:"/transcribe"`
	Retry              pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// CallbackConnectorConfig configures the optional progress webhook. An empty
// ProgressURL disables it.
type CallbackConnectorConfig struct {
	HTTPClientConfig
	ProgressURL string               `env:"PROGRESS_URL"`
	Retry       pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// AudioUploadConfig holds audio answer upload limits
type AudioUploadConfig struct {
	MaxAudioFileSize int64 `env:"MAX_AUDIO_FILE_SIZE" envDefault:"26214400"` // 25 MiB
	MaxUploadSize    int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"`     // 32 MiB
}

// LoadConfig reads the -env flag and loads the matching configuration
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load loads configuration for the given environment name
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	profiles, err := LoadProfiles(cfg.InterviewCfg.ProfilesFile)
	if err != nil {
		return nil, fmt.Errorf("load interview profiles: %w", err)
	}
	cfg.Profiles = profiles

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	// Validate interview configuration
	if cfg.InterviewCfg.TotalQuestions < 1 || cfg.InterviewCfg.TotalQuestions > 20 {
		errors = append(errors, fmt.Sprintf("INTERVIEW_TOTAL_QUESTIONS must be between 1 and 20, got %d", cfg.InterviewCfg.TotalQuestions))
	}

	if !cfg.InterviewCfg.DefaultType.Valid() {
		errors = append(errors, fmt.Sprintf("INTERVIEW_DEFAULT_TYPE must be one of behavioral, technical, mixed, got %q", cfg.InterviewCfg.DefaultType))
	}

	if cfg.InterviewCfg.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("INTERVIEW_SESSION_TTL must be at least 1m, got %s", cfg.InterviewCfg.SessionTTL))
	}

	// Remote services are only required without mocks
	if !cfg.EnableMocks {
		if cfg.LLMConnectorCfg.Url == "" {
			errors = append(errors, "LLM_SERVICE_URL is required when ENABLE_MOCKS is false")
		}
		if cfg.ASRConnectorCfg.Url == "" {
			errors = append(errors, "ASR_SERVICE_URL is required when ENABLE_MOCKS is false")
		}
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
