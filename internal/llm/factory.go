package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vokinneberg/rag-chat-assistant/internal/types"
)

// Supported generation providers
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Settings selects and configures a generation provider
type Settings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// New creates the Completer for the configured provider. An empty provider means OpenAI.
func New(ctx context.Context, s Settings, httpClient *http.Client) (Completer, error) {
	var (
		completer Completer
		err       error
	)
	switch s.Provider {
	case "", ProviderOpenAI:
		completer, err = NewClient(s.APIKey, s.Model, s.BaseURL, httpClient)
	case ProviderAnthropic:
		completer, err = NewAnthropicClient(s.APIKey, s.Model, s.BaseURL, httpClient)
	case ProviderGemini:
		completer, err = NewGeminiClient(ctx, s.APIKey, s.Model, s.BaseURL, httpClient)
	default:
		return nil, fmt.Errorf("unknown generation provider %q: %w", s.Provider, types.ErrMisconfigured)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", s.Provider, err)
	}
	return completer, nil
}
