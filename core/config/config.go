package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel       OTelConfig
	RouterLLM  LLMConfig
	VetterLLM  LLMConfig
	AuditorLLM LLMConfig
	Pipeline   PipelineConfig
	Env        string
	Port       string
	StaticDir  string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type LLMConfig struct {
	APIKey    string
	BaseURL   string // Optional: for custom endpoints
	Model     string
	MaxTokens int
}

type PipelineConfig struct {
	// CandidatePool is how many search hits the vetter asks the model for
	// before geofencing; MaxCandidates caps what survives filtering.
	CandidatePool int
	MaxCandidates int
	StageTimeout  time.Duration
	ScoreRedBelow int
	ScoreGreenAt  int
	// Client-side provider rate limit (requests per second + burst).
	RateLimit float64
	RateBurst int
}

// Load loads configuration from environment variables. In development it
// reads .env first. A missing provider API key is a startup-time fatal
// condition, never a per-request error.
func Load() (Config, error) {
	if getEnv("TABLESAFE_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	sharedKey := getEnv("OPENAI_API_KEY", "")
	sharedBaseURL := getEnv("OPENAI_BASE_URL", "")

	cfg := Config{
		Env:       getEnv("TABLESAFE_ENV", "development"),
		Port:      getEnv("PORT", "8080"),
		StaticDir: getEnv("STATIC_DIR", "web"),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "concierge"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		RouterLLM: LLMConfig{
			APIKey:    getEnv("ROUTER_LLM_API_KEY", sharedKey),
			BaseURL:   getEnv("ROUTER_LLM_BASE_URL", sharedBaseURL),
			Model:     getEnv("ROUTER_LLM_MODEL", "gpt-4o-mini"),
			MaxTokens: getEnvInt("ROUTER_LLM_MAX_TOKENS", 256),
		},
		VetterLLM: LLMConfig{
			APIKey:    getEnv("VETTER_LLM_API_KEY", sharedKey),
			BaseURL:   getEnv("VETTER_LLM_BASE_URL", sharedBaseURL),
			Model:     getEnv("VETTER_LLM_MODEL", "gpt-4o-search-preview"),
			MaxTokens: getEnvInt("VETTER_LLM_MAX_TOKENS", 4096),
		},
		AuditorLLM: LLMConfig{
			APIKey:    getEnv("AUDITOR_LLM_API_KEY", sharedKey),
			BaseURL:   getEnv("AUDITOR_LLM_BASE_URL", sharedBaseURL),
			Model:     getEnv("AUDITOR_LLM_MODEL", "gpt-4o"),
			MaxTokens: getEnvInt("AUDITOR_LLM_MAX_TOKENS", 2048),
		},
		Pipeline: PipelineConfig{
			CandidatePool: getEnvInt("CANDIDATE_POOL", 10),
			MaxCandidates: getEnvInt("MAX_CANDIDATES", 6),
			StageTimeout:  time.Duration(getEnvInt("STAGE_TIMEOUT_SECONDS", 60)) * time.Second,
			ScoreRedBelow: getEnvInt("SCORE_RED_BELOW", 40),
			ScoreGreenAt:  getEnvInt("SCORE_GREEN_AT", 70),
			RateLimit:     getEnvFloat("PROVIDER_RATE_LIMIT", 5),
			RateBurst:     getEnvInt("PROVIDER_RATE_BURST", 10),
		},
	}

	for name, llm := range map[string]LLMConfig{
		"router":  cfg.RouterLLM,
		"vetter":  cfg.VetterLLM,
		"auditor": cfg.AuditorLLM,
	} {
		if llm.APIKey == "" {
			return Config{}, fmt.Errorf("OPENAI_API_KEY (or %s-stage override) is required", name)
		}
	}

	if cfg.Pipeline.ScoreRedBelow > cfg.Pipeline.ScoreGreenAt {
		return Config{}, fmt.Errorf("SCORE_RED_BELOW (%d) must not exceed SCORE_GREEN_AT (%d)",
			cfg.Pipeline.ScoreRedBelow, cfg.Pipeline.ScoreGreenAt)
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
