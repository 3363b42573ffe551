package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vokinneberg/rag-chat-assistant/internal/types"
)

//go:generate mockgen -source=pipeline.go -destination=mock_pipeline.go -package=rag

// Searcher defines the interface for web search operations
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error)
}

// Generator defines the interface for chat completion operations
type Generator interface {
	Complete(ctx context.Context, messages []types.ChatMessage) (string, error)
}

const (
	// DefaultMaxResults is the number of documents requested from the search provider
	DefaultMaxResults = 3

	// DefaultHistoryWindow is the number of trailing history messages sent to the model
	DefaultHistoryWindow = 6

	// DefaultNoResultsPlaceholder replaces the context block when the search returned nothing
	DefaultNoResultsPlaceholder = "No relevant web search results found for this query."

	// NoCompletionReply is returned when the provider answered without a completion
	NoCompletionReply = "I apologize, but I could not generate a response at this time."

	// GenerationErrorReply is returned when the generation call failed
	GenerationErrorReply = "I apologize, but there was an error processing your request. Please try again."
)

// Pipeline orchestrates search-augmented response generation
type Pipeline struct {
	searcher      Searcher
	generator     Generator
	maxResults    int
	historyWindow int
	placeholder   string
	logger        *slog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithMaxResults sets how many documents are requested per search
func WithMaxResults(n int) Option {
	return func(p *Pipeline) {
		p.maxResults = n
	}
}

// WithHistoryWindow sets how many trailing history messages are sent to the model
func WithHistoryWindow(n int) Option {
	return func(p *Pipeline) {
		p.historyWindow = n
	}
}

// WithNoResultsPlaceholder sets the context text used when the search found nothing
func WithNoResultsPlaceholder(text string) Option {
	return func(p *Pipeline) {
		p.placeholder = text
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a new RAG pipeline
func NewPipeline(searcher Searcher, generator Generator, opts ...Option) (*Pipeline, error) {
	if searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}

	p := &Pipeline{
		searcher:      searcher,
		generator:     generator,
		maxResults:    DefaultMaxResults,
		historyWindow: DefaultHistoryWindow,
		placeholder:   DefaultNoResultsPlaceholder,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.maxResults < 1 {
		return nil, fmt.Errorf("max results must be positive, got %d", p.maxResults)
	}
	if p.historyWindow < 0 {
		return nil, fmt.Errorf("history window must not be negative, got %d", p.historyWindow)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p, nil
}

// ProcessQuery searches the web for the user message, then asks the model for a reply
// grounded on the results and the recent history. Provider failures never surface as
// errors: they turn into an empty source list or a canned apology. Only
// types.ErrMisconfigured is returned.
func (p *Pipeline) ProcessQuery(ctx context.Context, userMessage string, history []types.ChatMessage) (types.QueryResult, error) {
	found, err := p.retrieve(ctx, userMessage)
	if err != nil {
		return types.QueryResult{}, err
	}
	if found.degraded() {
		p.logger.Warn("Web search failed, answering without context", "error", found.cause, "query", userMessage)
	}

	messages := buildMessages(
		buildSystemPrompt(found.results, p.placeholder),
		trailingWindow(history, p.historyWindow),
		userMessage,
	)

	reply, err := p.generate(ctx, messages)
	if err != nil {
		return types.QueryResult{}, err
	}
	if reply.degraded() {
		p.logger.Error("Error generating response", "error", reply.cause, "query", userMessage)
	}

	p.logger.Debug("Processed query",
		"sources", len(found.results),
		"history", len(messages)-2,
		"search_degraded", found.degraded(),
		"generation_degraded", reply.degraded(),
	)

	return types.QueryResult{
		Response: reply.text,
		Sources:  found.results,
	}, nil
}

// retrieve runs the search. The error return is reserved for misconfiguration;
// every other failure yields a degraded retrieval with no results.
func (p *Pipeline) retrieve(ctx context.Context, query string) (retrieval, error) {
	results, err := p.searcher.Search(ctx, query, p.maxResults)
	if err != nil {
		if errors.Is(err, types.ErrMisconfigured) {
			return retrieval{}, fmt.Errorf("failed to search: %w", err)
		}
		return emptyRetrieval(err), nil
	}
	return foundRetrieval(results), nil
}

// generate runs the completion. The error return is reserved for misconfiguration;
// every other failure yields a degraded generation carrying an apology.
func (p *Pipeline) generate(ctx context.Context, messages []types.ChatMessage) (generation, error) {
	text, err := p.generator.Complete(ctx, messages)
	switch {
	case err == nil && text != "":
		return completedGeneration(text), nil
	case err == nil, errors.Is(err, types.ErrNoCompletion):
		return apologyGeneration(NoCompletionReply, types.ErrNoCompletion), nil
	case errors.Is(err, types.ErrMisconfigured):
		return generation{}, fmt.Errorf("failed to generate response: %w", err)
	default:
		return apologyGeneration(GenerationErrorReply, err), nil
	}
}
