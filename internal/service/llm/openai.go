package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"mindful-chat/internal/config"
	"mindful-chat/internal/logger"
)

// Completion parameters are fixed: a deterministic-leaning temperature
// keeps the companion's tone stable across calls.
const completionTemperature = 0.2

// FallbackReply is used when the provider returns no usable choice, so
// the user never sees a blank assistant turn.
const FallbackReply = "I'm here with you. How are you feeling right now?"

// Ensure OpenAIClient implements CompletionClient
var _ CompletionClient = (*OpenAIClient)(nil)

// OpenAIClient wraps the OpenAI chat completion API with a fixed model
// and temperature
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a completion client from configuration
func NewOpenAIClient(cfg config.LLMConfig) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.Model,
	}
}

// Complete sends the assembled context to the provider and extracts the
// first choice's text
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: completionTemperature,
		Messages:    chatMessages,
	})
	if err != nil {
		return "", fmt.Errorf("error calling completion provider: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		logger.Log.Warn("Completion provider returned no usable choice, using fallback reply")
		return FallbackReply, nil
	}

	return resp.Choices[0].Message.Content, nil
}
