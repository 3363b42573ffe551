package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "SERVER_PORT", "LOG_LEVEL", "LOG_FORMAT",
	"TAVILY_API_KEY", "TAVILY_ENDPOINT", "SEARCH_LIMIT", "LLM_PROVIDER",
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL", "GEMINI_API_KEY", "GEMINI_MODEL",
	"HISTORY_WINDOW", "NO_RESULTS_TEXT", "HTTP_TIMEOUT_SECONDS", "MAX_CONVERSATIONS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"-tavily-key", "tvly", "-openai-key", "sk"})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "https://api.tavily.com/search", cfg.TavilyEndpoint)
	assert.Equal(t, 3, cfg.SearchLimit)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 6, cfg.HistoryWindow)
	assert.Equal(t, "No relevant web search results found for this query.", cfg.NoResultsText)
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 1000, cfg.MaxConversations)
}

func TestLoad_Layering(t *testing.T) {
	clearEnv(t)

	path := writeConfigFile(t, `
server_port = "9000"
log_level = "debug"
tavily_api_key = "from-file"
search_limit = 5
provider = "anthropic"
anthropic_api_key = "ant-file"
history_window = 4
`)

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := Load([]string{"-config", path})
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.ServerPort)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "from-file", cfg.TavilyAPIKey)
		assert.Equal(t, 5, cfg.SearchLimit)
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Equal(t, 4, cfg.HistoryWindow)
		assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9100")
		t.Setenv("SEARCH_LIMIT", "7")

		cfg, err := Load([]string{"--config=" + path})
		require.NoError(t, err)

		assert.Equal(t, "9100", cfg.ServerPort)
		assert.Equal(t, 7, cfg.SearchLimit)
		assert.Equal(t, "from-file", cfg.TavilyAPIKey)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9100")

		cfg, err := Load([]string{"-server-port", "9200", "-config", path, "-history-window", "0"})
		require.NoError(t, err)

		assert.Equal(t, "9200", cfg.ServerPort)
		assert.Equal(t, 0, cfg.HistoryWindow)
	})

	t.Run("file named by CONFIG_FILE", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", path)

		cfg, err := Load(nil)
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.ServerPort)
	})
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing search key",
			args:    []string{"-openai-key", "sk"},
			wantErr: "TAVILY_API_KEY is required",
		},
		{
			name:    "missing key of selected provider",
			args:    []string{"-tavily-key", "tvly", "-openai-key", "sk", "-provider", "gemini"},
			wantErr: "GEMINI_API_KEY is required",
		},
		{
			name:    "missing anthropic key",
			args:    []string{"-tavily-key", "tvly"},
			env:     map[string]string{"LLM_PROVIDER": "anthropic"},
			wantErr: "ANTHROPIC_API_KEY is required",
		},
		{
			name:    "unknown provider",
			args:    []string{"-tavily-key", "tvly", "-provider", "cohere"},
			wantErr: "invalid configuration",
		},
		{
			name:    "unknown log level",
			args:    []string{"-tavily-key", "tvly", "-openai-key", "sk", "-log-level", "trace"},
			wantErr: "invalid configuration",
		},
		{
			name:    "zero search limit",
			args:    []string{"-tavily-key", "tvly", "-openai-key", "sk", "-search-limit", "0"},
			wantErr: "invalid configuration",
		},
		{
			name:    "negative history window",
			args:    []string{"-tavily-key", "tvly", "-openai-key", "sk", "-history-window", "-1"},
			wantErr: "invalid configuration",
		},
		{
			name:    "relative search endpoint",
			args:    []string{"-tavily-key", "tvly", "-openai-key", "sk", "-tavily-endpoint", "/search"},
			wantErr: "invalid configuration",
		},
		{
			name:    "negative conversation cap",
			args:    []string{"-tavily-key", "tvly", "-openai-key", "sk", "-max-conversations", "-1"},
			wantErr: "invalid configuration",
		},
		{
			name:    "unknown flag",
			args:    []string{"-no-such-flag", "x"},
			wantErr: "failed to parse flags",
		},
		{
			name:    "missing config file",
			args:    []string{"-config", "/does/not/exist.toml"},
			wantErr: "failed to read config file",
		},
		{
			name:    "config flag without value",
			args:    []string{"-config"},
			wantErr: "flag needs an argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(tt.args)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `server_port = [`)

	_, err := Load([]string{"-config", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}
