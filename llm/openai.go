// ABOUTME: OpenAI chat-completions provider
// ABOUTME: Wraps the official SDK behind the Client interface
package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAI calls the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates a new OpenAI API client.
func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Complete sends a system+user exchange and returns the first choice.
func (o *OpenAI) Complete(ctx context.Context, system, prompt string) (*Response, error) {
	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(1024),
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return nil, fmt.Errorf("openai api: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai api: empty choices")
	}

	return &Response{
		Content:    completion.Choices[0].Message.Content,
		Provider:   "openai",
		TokensUsed: int(completion.Usage.TotalTokens),
	}, nil
}
