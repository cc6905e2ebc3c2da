package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Backend protocol types understood by the completion router.
const (
	BackendLlamaCpp = "llama-cpp"
	BackendOllama   = "ollama"
	BackendOpenAI   = "openai"
)

// Config holds the full runtime configuration for the service, loaded from
// environment variables.
type Config struct {
	Port        int
	BackendURL  string
	BackendType string
	Model       string
	EmbedModel  string
	APIKey      string

	DatabaseURL string
	RedisURL    string

	AdminToken  string
	DefaultSlug string

	AllowedOrigins []string
	ChatRateLimit  int
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        envInt("PORT", 8090),
		BackendURL:  envString("LLAMA_SERVER_URL", "http://localhost:8080"),
		BackendType: envString("LLAMA_API_TYPE", BackendLlamaCpp),
		Model:       envString("MODEL_NAME", "llama-2-7b-chat"),
		EmbedModel:  envString("EMBED_MODEL", "nomic-embed-text"),
		APIKey:      envString("OPENAI_API_KEY", "not-needed"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		AdminToken:  os.Getenv("ADMIN_TOKEN"),
		DefaultSlug: envString("RESUME_SLUG", "default"),

		ChatRateLimit: envInt("CHAT_RATE_LIMIT", 20),
	}

	// Ollama deployments name the model separately.
	if cfg.BackendType == BackendOllama {
		cfg.Model = envString("OLLAMA_MODEL", "llama2")
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable. An unsupported backend
// type is a fatal configuration error, not a per-request one.
func (c *Config) Validate() error {
	switch c.BackendType {
	case BackendLlamaCpp, BackendOllama, BackendOpenAI:
	default:
		return fmt.Errorf("unsupported LLAMA_API_TYPE: %q", c.BackendType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.BackendURL == "" {
		return fmt.Errorf("LLAMA_SERVER_URL must not be empty")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.AdminToken == "" {
		return fmt.Errorf("ADMIN_TOKEN is required")
	}
	if c.ChatRateLimit < 0 {
		return fmt.Errorf("CHAT_RATE_LIMIT must be >= 0")
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
