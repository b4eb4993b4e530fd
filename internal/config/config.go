package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the service settings. Timeouts are in seconds except
// RenderTimeoutMS.
type Config struct {
	ListenAddr      string `json:"listen_addr" yaml:"listen_addr" toml:"listen_addr"`
	BlogAPIURL      string `json:"blog_api_url" yaml:"blog_api_url" toml:"blog_api_url"`
	DatabaseURL     string `json:"database_url" yaml:"database_url" toml:"database_url"`
	LogLevel        string `json:"log_level" yaml:"log_level" toml:"log_level"`
	FetchTimeout    int    `json:"fetch_timeout" yaml:"fetch_timeout" toml:"fetch_timeout"`
	RenderTimeoutMS int    `json:"render_timeout_ms" yaml:"render_timeout_ms" toml:"render_timeout_ms"`
	RefreshSeconds  int    `json:"refresh_seconds" yaml:"refresh_seconds" toml:"refresh_seconds"`
	PreviewWords    int    `json:"preview_words" yaml:"preview_words" toml:"preview_words"`
}

// Default returns the settings used for anything a config file leaves out.
func Default() Config {
	return Config{
		ListenAddr:      ":8080",
		BlogAPIURL:      "http://localhost:3000",
		LogLevel:        "info",
		FetchTimeout:    10,
		RenderTimeoutMS: 2000,
		RefreshSeconds:  2,
		PreviewWords:    18,
	}
}

func (cfg *Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(cfg.FetchTimeout) * time.Second
}

func (cfg *Config) RenderTimeout() time.Duration {
	return time.Duration(cfg.RenderTimeoutMS) * time.Millisecond
}

// Validate checks the API URL and that every numeric setting is positive.
func (cfg *Config) Validate() error {
	u, err := url.ParseRequestURI(cfg.BlogAPIURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: invalid blog API URL: %q", ErrInvalidConfig, cfg.BlogAPIURL)
	}
	if cfg.ListenAddr == "" {
		return fmt.Errorf("%w: listen address is empty", ErrInvalidConfig)
	}
	if cfg.FetchTimeout < 1 {
		return fmt.Errorf("%w: fetch timeout must be ≥ 1 second", ErrInvalidConfig)
	}
	if cfg.RenderTimeoutMS < 1 {
		return fmt.Errorf("%w: render timeout must be positive", ErrInvalidConfig)
	}
	if cfg.RefreshSeconds < 1 {
		return fmt.Errorf("%w: refresh interval must be ≥ 1 second", ErrInvalidConfig)
	}
	if cfg.PreviewWords < 1 {
		return fmt.Errorf("%w: preview words must be ≥ 1", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads path over the defaults, choosing the decoder by file
// extension (.json, .yaml/.yml, .toml), then applies environment overrides.
// An empty path yields defaults plus environment.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		if err := decode(file, filepath.Ext(path), &cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return &cfg, nil
}

func decode(r io.Reader, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".json":
		return json.NewDecoder(r).Decode(cfg)
	case ".yaml", ".yml":
		err := yaml.NewDecoder(r).Decode(cfg)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	case ".toml":
		return toml.NewDecoder(r).Decode(cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

func (cfg *Config) applyEnv() {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.BlogAPIURL = getEnv("BLOG_API_URL", cfg.BlogAPIURL)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
}

// LoadDotEnv loads variables from the given .env files (".env" when none)
// without overriding ones already set. It reports whether a file was read.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}
