// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/lingua/internal/llm"
)

// Config holds all settings. Every field maps to a LINGUA_* variable.
type Config struct {
	DBPath   string `env:"LINGUA_DB"`
	Identity string `env:"LINGUA_IDENTITY" envDefault:"local" validate:"required"`

	LogLevel string `env:"LINGUA_LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	LogFile  string `env:"LINGUA_LOG_FILE"`

	RedisAddr      string        `env:"LINGUA_REDIS_ADDR" validate:"omitempty,hostname_port"`
	SpeechCacheTTL time.Duration `env:"LINGUA_SPEECH_CACHE_TTL" envDefault:"168h" validate:"gt=0"`
	MetricsAddr    string        `env:"LINGUA_METRICS_ADDR" validate:"omitempty,hostname_port"`
	PurchaseDelay  time.Duration `env:"LINGUA_PURCHASE_DELAY" envDefault:"2s" validate:"gte=0"`

	// Empty selects the first provider with a key, then the standard
	// vendor variables.
	LLMProvider string        `env:"LINGUA_LLM_PROVIDER" validate:"omitempty,oneof=gemini anthropic openai openrouter mock"`
	LLMTimeout  time.Duration `env:"LINGUA_LLM_TIMEOUT" envDefault:"20s" validate:"gte=0"`

	GeminiAPIKey      string `env:"LINGUA_GEMINI_API_KEY"`
	GeminiModel       string `env:"LINGUA_GEMINI_MODEL"`
	GeminiSpeechModel string `env:"LINGUA_GEMINI_SPEECH_MODEL"`

	AnthropicAPIKey string `env:"LINGUA_ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"LINGUA_ANTHROPIC_MODEL"`

	OpenAIAPIKey  string `env:"LINGUA_OPENAI_API_KEY"`
	OpenAIModel   string `env:"LINGUA_OPENAI_MODEL"`
	OpenAIBaseURL string `env:"LINGUA_OPENAI_BASE_URL" validate:"omitempty,url"`

	OpenRouterAPIKey string `env:"LINGUA_OPENROUTER_API_KEY"`
	OpenRouterModel  string `env:"LINGUA_OPENROUTER_MODEL"`
}

// Load reads .env when present, then parses and validates the process
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	} else {
		logrus.Debug("loaded environment variables from .env file")
	}
	return parse(env.Options{})
}

// FromMap parses settings from vars instead of the process environment.
func FromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LLM builds the provider configuration. ok is false when no provider is
// configured; the app then runs on local fallbacks only.
func (c *Config) LLM() (cfg llm.Config, ok bool, err error) {
	provider := c.LLMProvider
	if provider == "" {
		provider = c.firstKeyedProvider()
	}
	if provider == "" {
		cfg, ok = llm.DiscoverConfig()
		if !ok {
			return llm.Config{}, false, nil
		}
		cfg.Timeout = c.LLMTimeout
		return cfg, true, nil
	}

	cfg = llm.DefaultConfig()
	cfg.Provider = provider
	cfg.Timeout = c.LLMTimeout

	cfg.Gemini.APIKey = c.GeminiAPIKey
	setIf(&cfg.Gemini.Model, c.GeminiModel)
	setIf(&cfg.Gemini.SpeechModel, c.GeminiSpeechModel)

	cfg.Anthropic.APIKey = c.AnthropicAPIKey
	setIf(&cfg.Anthropic.Model, c.AnthropicModel)

	cfg.OpenAI.APIKey = c.OpenAIAPIKey
	setIf(&cfg.OpenAI.Model, c.OpenAIModel)
	cfg.OpenAI.BaseURL = c.OpenAIBaseURL

	cfg.OpenRouter.APIKey = c.OpenRouterAPIKey
	setIf(&cfg.OpenRouter.Model, c.OpenRouterModel)

	if err := cfg.Validate(); err != nil {
		return llm.Config{}, false, err
	}
	return cfg, true, nil
}

func (c *Config) firstKeyedProvider() string {
	switch {
	case c.GeminiAPIKey != "":
		return "gemini"
	case c.OpenAIAPIKey != "":
		return "openai"
	case c.AnthropicAPIKey != "":
		return "anthropic"
	case c.OpenRouterAPIKey != "":
		return "openrouter"
	default:
		return ""
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
