package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/vokinneberg/rag-chat-assistant/internal/types"
)

// GeminiClient generates completions with the Gemini API
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini client. An empty baseURL uses the SDK default.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string, httpClient *http.Client) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		if err := validateBaseURL(baseURL); err != nil {
			return nil, err
		}
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w: %w", types.ErrMisconfigured, err)
	}
	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

// Complete sends the messages to generateContent and returns the text of the first candidate that has any
func (c *GeminiClient) Complete(ctx context.Context, messages []types.ChatMessage) (string, error) {
	system, conversation := splitSystem(messages)

	contents := make([]*genai.Content, 0, len(conversation))
	for _, m := range conversation {
		role := genai.RoleUser
		if m.Role == types.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(m.Content)},
		})
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens:  MaxTokens,
		Temperature:      genai.Ptr[float32](Temperature),
		PresencePenalty:  genai.Ptr[float32](PresencePenalty),
		FrequencyPenalty: genai.Ptr[float32](FrequencyPenalty),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}

	var text strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				text.WriteString(part.Text)
			}
			if text.Len() > 0 {
				break
			}
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", types.ErrNoCompletion
	}
	return text.String(), nil
}
