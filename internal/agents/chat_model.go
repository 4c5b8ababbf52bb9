package agents

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/dyike/ScoutGo/internal/config"
)

// Caller is the text-provider boundary: role-tagged messages in, one message
// out, may fail. Satisfied by the eino-ext chat models; tests use stubs.
type Caller interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// NewChatModel builds the configured chat model.
func NewChatModel(ctx context.Context, cfg *config.Config) (Caller, error) {
	switch cfg.LLMProvider {
	case "deepseek":
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.LLMAPIKey,
			Model:     cfg.LLMModel,
			BaseURL:   cfg.LLMBaseURL,
			MaxTokens: 4096,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create deepseek model: %w", err)
		}
		return chatModel, nil
	case "openai":
		maxTokens := 4096
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.LLMBaseURL,
			APIKey:    cfg.LLMAPIKey,
			Model:     cfg.LLMModel,
			MaxTokens: &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create openai model: %w", err)
		}
		return chatModel, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLMProvider)
	}
}
