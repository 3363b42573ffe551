package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vokinneberg/rag-chat-assistant/internal/config"
	"github.com/vokinneberg/rag-chat-assistant/internal/llm"
	"github.com/vokinneberg/rag-chat-assistant/internal/logging"
	"github.com/vokinneberg/rag-chat-assistant/internal/rag"
	"github.com/vokinneberg/rag-chat-assistant/internal/search"
	"github.com/vokinneberg/rag-chat-assistant/internal/session"

	httphandler "github.com/vokinneberg/rag-chat-assistant/internal/http"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		slog.Error("Failed to create logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	// Outbound requests share one client; its timeout is the only deadline on provider calls
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout()}

	// Initialize search client
	searchClient, err := search.NewClient(cfg.TavilyAPIKey, cfg.TavilyEndpoint, httpClient)
	if err != nil {
		slog.Error("Failed to create search client", "error", err)
		os.Exit(1)
	}
	slog.Info("Initialized search client", "endpoint", cfg.TavilyEndpoint)

	// Initialize generation client
	generator, err := llm.New(context.Background(), generationSettings(cfg), httpClient)
	if err != nil {
		slog.Error("Failed to create generation client", "error", err)
		os.Exit(1)
	}
	slog.Info("Initialized generation client", "provider", cfg.Provider)

	// Initialize RAG pipeline
	pipeline, err := rag.NewPipeline(searchClient, generator,
		rag.WithMaxResults(cfg.SearchLimit),
		rag.WithHistoryWindow(cfg.HistoryWindow),
		rag.WithNoResultsPlaceholder(cfg.NoResultsText),
		rag.WithLogger(logger),
	)
	if err != nil {
		slog.Error("Failed to create RAG pipeline", "error", err)
		os.Exit(1)
	}
	slog.Info("Initialized RAG pipeline", "max_results", cfg.SearchLimit, "history_window", cfg.HistoryWindow)

	// Initialize HTTP handlers
	handler := httphandler.NewHandlers(pipeline, session.NewStore(session.WithMaxConversations(cfg.MaxConversations)))

	// Create router
	r := httphandler.NewRouter(handler)

	// Create HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server running", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func generationSettings(cfg *config.Config) llm.Settings {
	switch cfg.Provider {
	case llm.ProviderAnthropic:
		return llm.Settings{Provider: cfg.Provider, APIKey: cfg.AnthropicAPIKey, Model: cfg.AnthropicModel}
	case llm.ProviderGemini:
		return llm.Settings{Provider: cfg.Provider, APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}
	default:
		return llm.Settings{Provider: cfg.Provider, APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL}
	}
}
