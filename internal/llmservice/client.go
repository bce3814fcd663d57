package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"recipe-rag/internal/config"
)

// GenerateContent sends messages to the configured OpenAI-compatible endpoint
// and returns the completion. Tools may be nil.
func GenerateContent(ctx context.Context, llmConfig *config.LLMConfig, tools []llms.Tool, messages []llms.MessageContent) (*llms.ContentResponse, error) {
	log.Debug().Str("model", llmConfig.Model).Str("base_url", llmConfig.BaseURL).Msg("Generating content")
	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, err
	}

	if len(tools) > 0 {
		return llm.GenerateContent(ctx, messages, llms.WithTools(tools))
	}

	return llm.GenerateContent(ctx, messages)
}

// Complete is the single-prompt convenience wrapper used by the meal
// generation path.
func Complete(ctx context.Context, llmConfig *config.LLMConfig, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	resp, err := GenerateContent(ctx, llmConfig, nil, messages)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Content, nil
}
