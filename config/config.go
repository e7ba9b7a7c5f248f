// ABOUTME: Runtime configuration loaded from the environment
// ABOUTME: Reads .env via godotenv and falls back to sensible defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Config holds all rolodex configuration.
type Config struct {
	Port   int
	DBPath string

	LLMProvider string // "openai", "ollama", "mock"
	LLMModel    string
	OpenAIKey   string
	OllamaURL   string
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Port:        3000,
		DBPath:      filepath.Join(xdg.DataHome, "rolodex", "rolodex.db"),
		LLMProvider: "openai",
		LLMModel:    "gpt-4o-mini",
	}
}

// Load reads configuration from the environment, preloading a .env file
// when one is present (missing .env is not an error).
func Load() Config {
	_ = godotenv.Load()

	cfg := Default()

	if v := os.Getenv("ROLODEX_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("ROLODEX_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ROLODEX_LLM_PROVIDER"); v != "" {
		cfg.LLMProvider = v
	}
	if v := os.Getenv("ROLODEX_LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OllamaURL = os.Getenv("OLLAMA_URL")

	return cfg
}

// ListenAddr returns the :port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
