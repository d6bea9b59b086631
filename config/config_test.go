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
	"PORT", "GIN_MODE", "CORS_ORIGINS", "MAX_UPLOAD_MB",
	"OPENAI_API_KEY", "TRANSCRIBE_BASE_URL", "TRANSCRIBE_MODEL",
	"ANTHROPIC_API_KEY", "ANTHROPIC_BASE_URL", "ANTHROPIC_MODEL", "ANTHROPIC_MAX_TOKENS",
	"UPSTREAM_TIMEOUT", "LOG_LEVEL", "CONFIG_FILE",
}

// isolate clears every variable Load reads and moves into an empty directory
// so no stray .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, ":3001", cfg.Server.Addr())
	assert.False(t, cfg.Server.Release)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "whisper-1", cfg.Transcribe.Model)
	assert.Equal(t, "https://api.anthropic.com", cfg.Claude.BaseURL)
	assert.Equal(t, 4096, cfg.Claude.MaxTokens)
	assert.Zero(t, cfg.Upstream.Timeout)
	assert.Empty(t, cfg.Transcribe.APIKey)
	assert.Empty(t, cfg.Claude.APIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8088")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, http://localhost:5173")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("ANTHROPIC_MAX_TOKENS", "2048")
	t.Setenv("UPSTREAM_TIMEOUT", "45s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.True(t, cfg.Server.Release)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "sk-openai", cfg.Transcribe.APIKey)
	assert.Equal(t, "sk-ant", cfg.Claude.APIKey)
	assert.Equal(t, 2048, cfg.Claude.MaxTokens)
	assert.Equal(t, 45*time.Second, cfg.Upstream.Timeout)
}

func TestLoad_MalformedEnvValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want []string
	}{
		{"port", map[string]string{"PORT": "abc"}, []string{"PORT"}},
		{"bare number timeout", map[string]string{"UPSTREAM_TIMEOUT": "5"}, []string{"UPSTREAM_TIMEOUT"}},
		{"max tokens", map[string]string{"ANTHROPIC_MAX_TOKENS": "lots"}, []string{"ANTHROPIC_MAX_TOKENS"}},
		{"upload size", map[string]string{"MAX_UPLOAD_MB": "25MB"}, []string{"MAX_UPLOAD_MB"}},
		{
			"every bad key reported",
			map[string]string{"PORT": "not-a-port", "UPSTREAM_TIMEOUT": "soon"},
			[]string{"PORT", "UPSTREAM_TIMEOUT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			for _, key := range tt.want {
				assert.Contains(t, err.Error(), key)
			}
		})
	}
}

func TestLoad_EnvValuesTrimmed(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", " 8090 ")
	t.Setenv("UPSTREAM_TIMEOUT", " 2m ")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Upstream.Timeout)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	os.Unsetenv("ANTHROPIC_API_KEY")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ANTHROPIC_API_KEY=sk-from-dotenv\n"), 0o600))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "sk-from-dotenv", cfg.Claude.APIKey)
}

func TestLoad_YAMLFileWithEnvPrecedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "penbridge.yaml")
	yaml := `
server:
  port: 9000
  cors_origins: ["https://cms.example.com"]
claude:
  model: claude-3-5-haiku-latest
  max_tokens: 512
upstream:
  timeout: 20s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, []string{"https://cms.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.Claude.Model)
	assert.Equal(t, 512, cfg.Claude.MaxTokens)
	assert.Equal(t, 20*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	isolate(t)
	t.Setenv("CONFIG_FILE", "/does/not/exist.yaml")

	_, err := Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = defaults()
	cfg.Claude.MaxTokens = 0
	assert.Error(t, cfg.Validate())

	assert.NoError(t, defaults().Validate())
}
