package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the proxy. It is read once at start.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Claude     ClaudeConfig     `yaml:"claude"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int      `yaml:"port"`
	Release     bool     `yaml:"release"`
	CORSOrigins []string `yaml:"cors_origins"`
	MaxUploadMB int64    `yaml:"max_upload_mb"`
}

// TranscribeConfig holds speech-to-text configuration
type TranscribeConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// ClaudeConfig holds chat service configuration
type ClaudeConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// UpstreamConfig applies to every outbound HTTP client.
// A zero Timeout keeps the transport default.
type UpstreamConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        3001,
			CORSOrigins: []string{"*"},
			MaxUploadMB: 25,
		},
		Transcribe: TranscribeConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "whisper-1",
		},
		Claude: ClaudeConfig{
			BaseURL:   "https://api.anthropic.com",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 4096,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables, in that order of precedence.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides file and default values with the environment. Every
// malformed number or duration is reported, not just the first.
func (c *Config) applyEnv() error {
	var errs error

	port, err := getEnvInt("PORT", c.Server.Port)
	errs = multierr.Append(errs, err)
	c.Server.Port = port

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		c.Server.Release = mode == "release"
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	maxUpload, err := getEnvInt("MAX_UPLOAD_MB", int(c.Server.MaxUploadMB))
	errs = multierr.Append(errs, err)
	c.Server.MaxUploadMB = int64(maxUpload)

	c.Transcribe.APIKey = getEnv("OPENAI_API_KEY", c.Transcribe.APIKey)
	c.Transcribe.BaseURL = getEnv("TRANSCRIBE_BASE_URL", c.Transcribe.BaseURL)
	c.Transcribe.Model = getEnv("TRANSCRIBE_MODEL", c.Transcribe.Model)

	c.Claude.APIKey = getEnv("ANTHROPIC_API_KEY", c.Claude.APIKey)
	c.Claude.BaseURL = getEnv("ANTHROPIC_BASE_URL", c.Claude.BaseURL)
	c.Claude.Model = getEnv("ANTHROPIC_MODEL", c.Claude.Model)

	maxTokens, err := getEnvInt("ANTHROPIC_MAX_TOKENS", c.Claude.MaxTokens)
	errs = multierr.Append(errs, err)
	c.Claude.MaxTokens = maxTokens

	timeout, err := getEnvDuration("UPSTREAM_TIMEOUT", c.Upstream.Timeout)
	errs = multierr.Append(errs, err)
	c.Upstream.Timeout = timeout

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)

	return errs
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d MB", c.Server.MaxUploadMB)
	}
	if c.Claude.MaxTokens <= 0 {
		return fmt.Errorf("invalid anthropic max tokens: %d", c.Claude.MaxTokens)
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("invalid upstream timeout: %s", c.Upstream.Timeout)
	}
	return nil
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return ":" + strconv.Itoa(s.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intVal, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q: must be an integer", key, value)
	}
	return intVal, nil
}

// getEnvDuration accepts Go durations ("30s", "1m30s"). A bare number is
// rejected since its unit would be a guess.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q: must be a duration such as 30s", key, value)
	}
	return duration, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
