package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/vokinneberg/rag-chat-assistant/internal/types"
)

// Complete sends the messages to the chat completions endpoint and returns the first choice
func (c *Client) Complete(ctx context.Context, messages []types.ChatMessage) (string, error) {
	res, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:            shared.ChatModel(c.model),
		Messages:         toOpenAIMessages(messages),
		MaxTokens:        openai.Int(MaxTokens),
		Temperature:      openai.Float(Temperature),
		PresencePenalty:  openai.Float(PresencePenalty),
		FrequencyPenalty: openai.Float(FrequencyPenalty),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}

	if len(res.Choices) == 0 {
		return "", types.ErrNoCompletion
	}

	content := res.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", types.ErrNoCompletion
	}
	return content, nil
}

func toOpenAIMessages(messages []types.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case types.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case types.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
