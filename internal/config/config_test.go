package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"blog_section/internal/config"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"LISTEN_ADDR", "BLOG_API_URL", "DATABASE_URL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, "config.json", `{
		"blog_api_url": "https://api.example.com",
		"preview_words": 12,
		"render_timeout_ms": 500
	}`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.BlogAPIURL)
	require.Equal(t, 12, cfg.PreviewWords)
	require.Equal(t, 500, cfg.RenderTimeoutMS)
	// untouched keys keep their defaults
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, 2, cfg.RefreshSeconds)
}

func TestLoadConfig_YAML(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, "config.yaml", "blog_api_url: http://blog.internal:3000\nfetch_timeout: 3\nlog_level: debug\n")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "http://blog.internal:3000", cfg.BlogAPIURL)
	require.Equal(t, 3, cfg.FetchTimeout)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_EmptyYAML(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, "config.yml", "")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), *cfg)
}

func TestLoadConfig_TOML(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, "config.toml", "listen_addr = \":9090\"\npreview_words = 12\n")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.Equal(t, 12, cfg.PreviewWords)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLOG_API_URL", "http://override:1234")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/blog")
	path := writeTempConfig(t, "config.json", `{"blog_api_url": "https://file.example.com"}`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "http://override:1234", cfg.BlogAPIURL)
	require.Equal(t, "postgres://u:p@db:5432/blog", cfg.DatabaseURL)
}

func TestLoadConfig_NoPath(t *testing.T) {
	clearEnv(t)
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, config.Default(), *cfg)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := config.LoadConfig("/nonexistent/config.json")
	require.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{ invalid json }`)
	_, err := config.LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_UnsupportedFormat(t *testing.T) {
	path := writeTempConfig(t, "config.ini", "a=b")
	_, err := config.LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported config format")
}

func TestValidate_Success(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		msg    string
	}{
		{"bad url", func(c *config.Config) { c.BlogAPIURL = "not-a-url" }, "invalid blog API URL"},
		{"relative url", func(c *config.Config) { c.BlogAPIURL = "/api" }, "invalid blog API URL"},
		{"empty listen", func(c *config.Config) { c.ListenAddr = "" }, "listen address"},
		{"fetch timeout", func(c *config.Config) { c.FetchTimeout = 0 }, "fetch timeout"},
		{"render timeout", func(c *config.Config) { c.RenderTimeoutMS = 0 }, "render timeout"},
		{"refresh", func(c *config.Config) { c.RefreshSeconds = 0 }, "refresh interval"},
		{"preview words", func(c *config.Config) { c.PreviewWords = 0 }, "preview words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, config.ErrInvalidConfig)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that exists, even when empty
	require.NoError(t, os.Unsetenv("BLOG_API_URL"))
	path := writeTempConfig(t, ".env", "BLOG_API_URL=http://from-dotenv:3000\n")

	require.True(t, config.LoadDotEnv(path))
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "http://from-dotenv:3000", cfg.BlogAPIURL)

	require.False(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
