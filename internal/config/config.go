package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xxxsen/common/logger"
)

const (
	StoreTypePGVector = "pgvector"
	StoreTypeMemory   = "memory"
)

// Config is assembled from the environment at startup. Missing required
// values fail the process fast, before any listener is opened.
type Config struct {
	Port        int
	Provider    string
	APIKey      string
	BaseURL     string
	EmbedModel  string
	ChatModel   string
	StoreType   string
	StoreDSN    string
	RefreshCron string
	CORSOrigins []string
	LogConfig   logger.LogConfig
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        8000,
		Provider:    getenv("AI_PROVIDER", "openai"),
		BaseURL:     os.Getenv("OPENAI_BASE_URL"),
		EmbedModel:  getenv("EMBED_MODEL", "text-embedding-ada-002"),
		ChatModel:   getenv("CHAT_MODEL", "gpt-4"),
		StoreType:   getenv("VECTOR_STORE", StoreTypePGVector),
		StoreDSN:    os.Getenv("VECTOR_DB_DSN"),
		RefreshCron: os.Getenv("REFRESH_CRON"),
		LogConfig: logger.LogConfig{
			Level:   getenv("LOG_LEVEL", "info"),
			File:    os.Getenv("LOG_FILE"),
			Console: true,
		},
	}
	if port := os.Getenv("PORT"); port != "" {
		value, err := strconv.Atoi(port)
		if err != nil || value <= 0 {
			return nil, fmt.Errorf("PORT must be a positive integer, got %q", port)
		}
		cfg.Port = value
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, trimmed)
			}
		}
	}

	switch cfg.Provider {
	case "openai":
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
	case "gemini":
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
	default:
		return nil, fmt.Errorf("AI_PROVIDER must be openai or gemini, got %q", cfg.Provider)
	}

	switch cfg.StoreType {
	case StoreTypePGVector:
		if cfg.StoreDSN == "" {
			return nil, fmt.Errorf("VECTOR_DB_DSN is required for the pgvector store")
		}
	case StoreTypeMemory:
	default:
		return nil, fmt.Errorf("VECTOR_STORE must be pgvector or memory, got %q", cfg.StoreType)
	}
	return cfg, nil
}

// ProviderArgs shapes the provider-specific settings the ai registry
// factories decode.
func (c *Config) ProviderArgs() map[string]interface{} {
	return map[string]interface{}{
		"api_key":  c.APIKey,
		"base_url": c.BaseURL,
	}
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
