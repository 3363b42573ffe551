package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/vokinneberg/rag-chat-assistant/internal/types"
)

// Sampling parameters sent with every completion request
const (
	MaxTokens        = 800
	Temperature      = 0.7
	PresencePenalty  = 0.1
	FrequencyPenalty = 0.1
)

// Completer generates a reply for an ordered list of chat messages
type Completer interface {
	Complete(ctx context.Context, messages []types.ChatMessage) (string, error)
}

// Client wraps OpenAI client and provides chat completions
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI client. An empty baseURL uses the SDK default.
func NewClient(apiKey, model, baseURL string, httpClient *http.Client) (*Client, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		if err := validateBaseURL(baseURL); err != nil {
			return nil, err
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	client := openai.NewClient(opts...)
	return &Client{
		client: &client,
		model:  model,
	}, nil
}

func validateBaseURL(baseURL string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w: %w", baseURL, types.ErrMisconfigured, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: %w", baseURL, types.ErrMisconfigured)
	}
	return nil
}
