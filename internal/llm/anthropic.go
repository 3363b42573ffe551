package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/vokinneberg/rag-chat-assistant/internal/types"
)

// AnthropicClient generates completions with the Anthropic Messages API.
// The Messages API has no presence or frequency penalty, so only the token
// limit and temperature are applied.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new Anthropic client. An empty baseURL uses the SDK default.
func NewAnthropicClient(apiKey, model, baseURL string, httpClient *http.Client) (*AnthropicClient, error) {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithMaxRetries(0),
	}
	if baseURL != "" {
		if err := validateBaseURL(baseURL); err != nil {
			return nil, err
		}
		opts = append(opts, anthropicoption.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, anthropicoption.WithHTTPClient(httpClient))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client: &client,
		model:  model,
	}, nil
}

// Complete sends the messages to the Messages API and concatenates the returned text blocks
func (c *AnthropicClient) Complete(ctx context.Context, messages []types.ChatMessage) (string, error) {
	system, conversation := splitSystem(messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   MaxTokens,
		Temperature: anthropic.Float(Temperature),
		Messages:    make([]anthropic.MessageParam, 0, len(conversation)),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	for _, m := range conversation {
		if m.Role == types.RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			continue
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", types.ErrNoCompletion
	}
	return text.String(), nil
}

// splitSystem pulls system messages out of the conversation for APIs that take them separately
func splitSystem(messages []types.ChatMessage) (string, []types.ChatMessage) {
	var system []string
	conversation := make([]types.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == types.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		conversation = append(conversation, m)
	}
	return strings.Join(system, "\n\n"), conversation
}
