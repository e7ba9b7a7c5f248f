// ABOUTME: LLM client interface and provider factory
// ABOUTME: Selects between OpenAI, Ollama, and mock providers from config
package llm

import (
	"context"
	"fmt"
)

// Client is the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (*Response, error)
}

// Response holds the result of an LLM completion.
type Response struct {
	Content    string
	Provider   string
	TokensUsed int
}

// Config selects and configures an LLM provider.
type Config struct {
	Provider  string // "openai", "ollama", "mock"
	Model     string
	OpenAIKey string
	OllamaURL string
}

// NewClient creates an LLM client based on the config provider setting.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY")
		}
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return NewOpenAI(cfg.OpenAIKey, model), nil
	case "ollama":
		url := cfg.OllamaURL
		if url == "" {
			url = "http://localhost:11434"
		}
		model := cfg.Model
		if model == "" {
			model = "llama3.2"
		}
		return NewOllama(url, model), nil
	case "mock":
		return &MockClient{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
