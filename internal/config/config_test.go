// ABOUTME: Tests for configuration loading
// ABOUTME: Covers YAML parsing, env expansion, durations, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "0.0.0.0:9090"
completion:
  base_url: "https://example.test/v1"
  api_key: "sk-test"
  model: "test/model-1"
  max_tokens: 256
  temperature: 0.5
  timeout: "15s"
escalation:
  keywords: ["manager", "lawyer"]
  message_threshold: 6
auth:
  jwt_secret: "topsecret"
personas:
  billing: "Custom billing persona"
logging:
  level: debug
  format: json
metrics:
  enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.HTTPAddr)
	assert.Equal(t, "https://example.test/v1", cfg.Completion.BaseURL)
	assert.Equal(t, "sk-test", cfg.Completion.APIKey)
	assert.Equal(t, "test/model-1", cfg.Completion.Model)
	assert.Equal(t, 256, cfg.Completion.MaxTokens)
	assert.InDelta(t, 0.5, cfg.Completion.Temperature, 0.0001)
	assert.Equal(t, 15*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, []string{"manager", "lawyer"}, cfg.Escalation.Keywords)
	assert.Equal(t, 6, cfg.Escalation.MessageThreshold)
	assert.Equal(t, "topsecret", cfg.Auth.JWTSecret)
	assert.Equal(t, "Custom billing persona", cfg.Personas["billing"])
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path, "default path applied")
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_CONSOLE_KEY", "sk-from-env")

	path := writeConfig(t, `
completion:
  api_key: "${TEST_CONSOLE_KEY}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.Completion.APIKey)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddr, "default address applied")
}

func TestLoad_MissingAPIKey(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion.api_key is required")
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
completion:
  api_key: "sk-test"
  timeout: "not-a-duration"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion.timeout")
}

func TestLoad_BadTemperature(t *testing.T) {
	path := writeConfig(t, `
completion:
  api_key: "sk-test"
  temperature: 3.5
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")
}

func TestLoad_BadLogLevel(t *testing.T) {
	path := writeConfig(t, `
completion:
  api_key: "sk-test"
logging:
  level: verbose
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefault(t *testing.T) {
	t.Setenv("COMPLETION_API_KEY", "sk-default")

	cfg := Default()
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "sk-default", cfg.Completion.APIKey)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	require.NoError(t, cfg.Validate())
}

func TestDefault_MissingAPIKeyFailsValidation(t *testing.T) {
	t.Setenv("COMPLETION_API_KEY", "")

	cfg := Default()
	require.Error(t, cfg.Validate())
}
