package answer

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
)

// DefaultChatModel is the completion model used unless configured otherwise.
const DefaultChatModel = "gpt-4o-mini"

// OpenAICompleter implements Completer on the OpenAI chat completions API.
// Temperature 0 keeps answers anchored to the supplied context.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates a completer. An empty model selects
// DefaultChatModel.
func NewOpenAICompleter(client *openai.Client, model string) *OpenAICompleter {
	if model == "" {
		model = DefaultChatModel
	}
	return &OpenAICompleter{client: client, model: model}
}

// Complete runs one chat completion for the prompt.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       c.model,
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
