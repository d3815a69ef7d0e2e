package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Mongo      MongoConfig
	Summarizer SummarizerConfig
	Scoring    ScoringConfig
	Storage    StorageConfig
	Auth       AuthConfig
	Search     SearchConfig
	OCDS       OCDSConfig
	Retry      RetryConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	AllowOrigins string
	Gops         bool
}

type DatabaseConfig struct {
	URL string
}

type MongoConfig struct {
	URL      string
	Database string
}

type SummarizerConfig struct {
	Provider      string // gemini, openai or extractive
	Model         string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	MaxLength     int
	MinLength     int
	MaxInputChars int
	Workers       int
	Timeout       time.Duration
}

type ScoringConfig struct {
	Threshold           int
	CertificationMarker string
	RulesFile           string
}

type StorageConfig struct {
	MaxFileSize  int64
	MaxPages     int
	ArchiveURL   string
	DedupeUpload bool
}

type AuthConfig struct {
	Enabled     bool
	JWTSecret   string
	TokenTTL    time.Duration
	PlanGating  bool
	DefaultPlan string
}

type SearchConfig struct {
	Enabled    bool
	QdrantURL  string
	APIKey     string
	Collection string
}

type OCDSConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

// ErrMissingSetting is wrapped by Load when a required setting is absent.
var ErrMissingSetting = errors.New("missing required setting")

var defaults = map[string]any{
	"PORT":                      "8000",
	"ENV":                       "development",
	"CORS_ALLOW_ORIGINS":        "http://localhost:3000,https://RamaanoDau.github.io",
	"GOPS_ENABLED":              false,
	"MONGO_DATABASE":            "tenderhub",
	"SUMMARIZER_PROVIDER":       "gemini",
	"SUMMARIZER_MODEL":          "",
	"SUMMARY_MAX_LENGTH":        120,
	"SUMMARY_MIN_LENGTH":        30,
	"SUMMARY_MAX_INPUT_CHARS":   4000,
	"SUMMARIZER_WORKERS":        3,
	"SUMMARIZER_TIMEOUT":        "60s",
	"SCORING_THRESHOLD":         70,
	"SCORING_CERTIFICATION":     "CIDB",
	"SCORING_RULES_FILE":        "",
	"MAX_FILE_SIZE":             10485760,
	"PDF_MAX_PAGES":             10,
	"ARCHIVE_URL":               "",
	"DEDUPE_UPLOADS":            true,
	"AUTH_ENABLED":              false,
	"JWT_TTL":                   "24h",
	"PLAN_GATING_ENABLED":       false,
	"DEFAULT_PLAN":              "pro",
	"SEARCH_ENABLED":            false,
	"QDRANT_URL":                "http://localhost:6334",
	"QDRANT_COLLECTION":         "tender_summaries",
	"OCDS_BASE_URL":             "",
	"OCDS_TIMEOUT":              "15s",
	"STORE_RETRY_MAX_ATTEMPTS":  3,
	"STORE_RETRY_INITIAL_DELAY": "200ms",
	"STORE_RETRY_MAX_DELAY":     "2s",
	"LOG_JSON":                  false,
	"LOG_DEBUG":                 false,
}

// Load reads .env (when present), the optional config file and the process environment.
// Environment variables win over the config file.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	_ = godotenv.Load()

	if v == nil {
		v = viper.New()
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Env:          v.GetString("ENV"),
			AllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
			Gops:         v.GetBool("GOPS_ENABLED"),
		},
		Database: DatabaseConfig{
			URL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		},
		Mongo: MongoConfig{
			URL:      strings.TrimSpace(v.GetString("MONGO_URL")),
			Database: v.GetString("MONGO_DATABASE"),
		},
		Summarizer: SummarizerConfig{
			Provider:      strings.ToLower(strings.TrimSpace(v.GetString("SUMMARIZER_PROVIDER"))),
			Model:         v.GetString("SUMMARIZER_MODEL"),
			GeminiAPIKey:  v.GetString("GEMINI_API_KEY"),
			OpenAIAPIKey:  v.GetString("OPENAI_API_KEY"),
			MaxLength:     v.GetInt("SUMMARY_MAX_LENGTH"),
			MinLength:     v.GetInt("SUMMARY_MIN_LENGTH"),
			MaxInputChars: v.GetInt("SUMMARY_MAX_INPUT_CHARS"),
			Workers:       v.GetInt("SUMMARIZER_WORKERS"),
			Timeout:       v.GetDuration("SUMMARIZER_TIMEOUT"),
		},
		Scoring: ScoringConfig{
			Threshold:           v.GetInt("SCORING_THRESHOLD"),
			CertificationMarker: v.GetString("SCORING_CERTIFICATION"),
			RulesFile:           v.GetString("SCORING_RULES_FILE"),
		},
		Storage: StorageConfig{
			MaxFileSize:  v.GetInt64("MAX_FILE_SIZE"),
			MaxPages:     v.GetInt("PDF_MAX_PAGES"),
			ArchiveURL:   v.GetString("ARCHIVE_URL"),
			DedupeUpload: v.GetBool("DEDUPE_UPLOADS"),
		},
		Auth: AuthConfig{
			Enabled:     v.GetBool("AUTH_ENABLED"),
			JWTSecret:   v.GetString("JWT_SECRET"),
			TokenTTL:    v.GetDuration("JWT_TTL"),
			PlanGating:  v.GetBool("PLAN_GATING_ENABLED"),
			DefaultPlan: v.GetString("DEFAULT_PLAN"),
		},
		Search: SearchConfig{
			Enabled:    v.GetBool("SEARCH_ENABLED"),
			QdrantURL:  v.GetString("QDRANT_URL"),
			APIKey:     v.GetString("QDRANT_API_KEY"),
			Collection: v.GetString("QDRANT_COLLECTION"),
		},
		OCDS: OCDSConfig{
			BaseURL: v.GetString("OCDS_BASE_URL"),
			Timeout: v.GetDuration("OCDS_TIMEOUT"),
		},
		Retry: RetryConfig{
			MaxAttempts:  v.GetInt("STORE_RETRY_MAX_ATTEMPTS"),
			InitialDelay: v.GetDuration("STORE_RETRY_INITIAL_DELAY"),
			MaxDelay:     v.GetDuration("STORE_RETRY_MAX_DELAY"),
		},
		Log: LogConfig{
			JSON:  v.GetBool("LOG_JSON"),
			Debug: v.GetBool("LOG_DEBUG"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("%w: DATABASE_URL", ErrMissingSetting)
	}
	if c.Mongo.URL == "" {
		return fmt.Errorf("%w: MONGO_URL", ErrMissingSetting)
	}
	if c.Auth.Enabled && strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("%w: JWT_SECRET (required when AUTH_ENABLED=true)", ErrMissingSetting)
	}

	switch c.Summarizer.Provider {
	case "gemini", "openai", "extractive":
	default:
		return fmt.Errorf("unknown SUMMARIZER_PROVIDER %q", c.Summarizer.Provider)
	}

	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return c.Database.URL
}

// IsDevelopment reports whether verbose SQL logging should be on.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
