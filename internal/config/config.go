package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string `toml:"server_port" validate:"required,numeric"`
	LogLevel   string `toml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat  string `toml:"log_format" validate:"oneof=text json"`

	// Search configuration
	TavilyAPIKey   string `toml:"tavily_api_key"`
	TavilyEndpoint string `toml:"tavily_endpoint" validate:"required,url"`
	SearchLimit    int    `toml:"search_limit" validate:"min=1,max=20"`

	// Generation configuration
	Provider        string `toml:"provider" validate:"oneof=openai anthropic gemini"`
	OpenAIAPIKey    string `toml:"openai_api_key"`
	OpenAIModel     string `toml:"openai_model" validate:"required"`
	OpenAIBaseURL   string `toml:"openai_base_url" validate:"omitempty,url"`
	AnthropicAPIKey string `toml:"anthropic_api_key"`
	AnthropicModel  string `toml:"anthropic_model" validate:"required"`
	GeminiAPIKey    string `toml:"gemini_api_key"`
	GeminiModel     string `toml:"gemini_model" validate:"required"`

	// RAG configuration
	HistoryWindow      int    `toml:"history_window" validate:"min=0"`
	NoResultsText      string `toml:"no_results_text" validate:"required"`
	HTTPTimeoutSeconds int    `toml:"http_timeout_seconds" validate:"min=1"`

	// Session configuration
	MaxConversations int `toml:"max_conversations" validate:"min=0"`
}

// HTTPTimeout returns the outbound request timeout
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		ServerPort:         "8080",
		LogLevel:           "info",
		LogFormat:          "text",
		TavilyEndpoint:     "https://api.tavily.com/search",
		SearchLimit:        3,
		Provider:           "openai",
		OpenAIModel:        "gpt-4o-mini",
		AnthropicModel:     "claude-3-5-haiku-latest",
		GeminiModel:        "gemini-2.0-flash",
		HistoryWindow:      6,
		NoResultsText:      "No relevant web search results found for this query.",
		HTTPTimeoutSeconds: 60,
		MaxConversations:   1000,
	}
}

// LoadConfig loads configuration from the command line of the running process
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds the configuration in layers: defaults, then the TOML file named by
// -config or CONFIG_FILE, then environment variables, then flags.
func Load(args []string) (*Config, error) {
	path, err := configPath(args)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.String("config", path, "Path to a TOML configuration file")
	fs.StringVar(&cfg.ServerPort, "server-port", cfg.ServerPort, "Server port")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	fs.StringVar(&cfg.TavilyAPIKey, "tavily-key", cfg.TavilyAPIKey, "Tavily API key")
	fs.StringVar(&cfg.TavilyEndpoint, "tavily-endpoint", cfg.TavilyEndpoint, "Tavily search endpoint")
	fs.IntVar(&cfg.SearchLimit, "search-limit", cfg.SearchLimit, "Number of search results to request")
	fs.StringVar(&cfg.Provider, "provider", cfg.Provider, "Generation provider (openai, anthropic, gemini)")
	fs.StringVar(&cfg.OpenAIAPIKey, "openai-key", cfg.OpenAIAPIKey, "OpenAI API key")
	fs.StringVar(&cfg.OpenAIModel, "openai-model", cfg.OpenAIModel, "OpenAI model for chat completions")
	fs.StringVar(&cfg.OpenAIBaseURL, "openai-base-url", cfg.OpenAIBaseURL, "OpenAI-compatible API base URL")
	fs.StringVar(&cfg.AnthropicAPIKey, "anthropic-key", cfg.AnthropicAPIKey, "Anthropic API key")
	fs.StringVar(&cfg.AnthropicModel, "anthropic-model", cfg.AnthropicModel, "Anthropic model")
	fs.StringVar(&cfg.GeminiAPIKey, "gemini-key", cfg.GeminiAPIKey, "Gemini API key")
	fs.StringVar(&cfg.GeminiModel, "gemini-model", cfg.GeminiModel, "Gemini model")
	fs.IntVar(&cfg.HistoryWindow, "history-window", cfg.HistoryWindow, "Number of trailing history messages sent to the model")
	fs.StringVar(&cfg.NoResultsText, "no-results-text", cfg.NoResultsText, "Context text used when the search found nothing")
	fs.IntVar(&cfg.HTTPTimeoutSeconds, "http-timeout", cfg.HTTPTimeoutSeconds, "Outbound HTTP timeout in seconds")
	fs.IntVar(&cfg.MaxConversations, "max-conversations", cfg.MaxConversations, "Maximum stored conversations, 0 for no limit")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints and that the selected provider has a key
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.TavilyAPIKey == "" {
		return errors.New("TAVILY_API_KEY is required (set via environment variable or -tavily-key flag)")
	}

	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required (set via environment variable or -openai-key flag)")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required (set via environment variable or -anthropic-key flag)")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required (set via environment variable or -gemini-key flag)")
		}
	}

	return nil
}

// configPath finds the -config flag ahead of the full parse, since the file
// must be applied before flags override it
func configPath(args []string) (string, error) {
	path := getEnv("CONFIG_FILE", "")
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return "", errors.New("flag needs an argument: -config")
			}
			i++
			value = args[i]
		}
		path = value
	}
	return path, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.TavilyAPIKey = getEnv("TAVILY_API_KEY", cfg.TavilyAPIKey)
	cfg.TavilyEndpoint = getEnv("TAVILY_ENDPOINT", cfg.TavilyEndpoint)
	cfg.SearchLimit = getEnvAsInt("SEARCH_LIMIT", cfg.SearchLimit)
	cfg.Provider = getEnv("LLM_PROVIDER", cfg.Provider)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	cfg.AnthropicModel = getEnv("ANTHROPIC_MODEL", cfg.AnthropicModel)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.HistoryWindow = getEnvAsInt("HISTORY_WINDOW", cfg.HistoryWindow)
	cfg.NoResultsText = getEnv("NO_RESULTS_TEXT", cfg.NoResultsText)
	cfg.HTTPTimeoutSeconds = getEnvAsInt("HTTP_TIMEOUT_SECONDS", cfg.HTTPTimeoutSeconds)
	cfg.MaxConversations = getEnvAsInt("MAX_CONVERSATIONS", cfg.MaxConversations)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
