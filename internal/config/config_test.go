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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfig(t, "server:\n  env: test\n"))
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JOBS_STORE", "redis")
	t.Setenv("VSEGPT_API_KEY", "sk-default")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.Equal(t, "/v1", cfg.Server.BasePath)
	assert.Equal(t, "redis", cfg.Jobs.Store)
	assert.Equal(t, 2*time.Minute, cfg.Jobs.BatchItemDuration)
	assert.Equal(t, 60*time.Second, cfg.Gateway.DispatchTimeout)
	assert.False(t, cfg.Gateway.PropagateCancel)
	assert.InDelta(t, 4.50, cfg.Jobs.GPUEpochRateUSD, 1e-9)

	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, "vsegpt", cfg.Providers[0].ID)
	assert.Equal(t, "sk-default", cfg.Providers[0].APIKey)
	assert.Equal(t, "vsegpt", cfg.Gateway.DefaultProvider)
}

func TestLoadConfig_ProvidersRoutesAndSecrets(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-test-12345")
	t.Setenv("LOG_SINK_TOKEN", "anon-token")

	t.Setenv("CONFIG_FILE", writeConfig(t, `
providers:
  - id: "remote"
    name: "Remote"
    type: "openai"
    base_url: "https://example.test/v1"
    api_key: "ENV:TEST_API_KEY"
    enabled: true
  - id: "local"
    type: "ollama"
    base_url: "http://localhost:11434"
    enabled: true
routes:
  embedding: local
aliases:
  my-model: "meta-llama/llama-3.1-8b-instruct"
gateway:
  default_provider: remote
  dispatch_timeout: 15s
request_log:
  enabled: true
  endpoint: "https://logs.example.test/log-api-request"
  token: "ENV:LOG_SINK_TOKEN"
`))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Len(t, cfg.Providers, 2)
	assert.Equal(t, "sk-test-12345", cfg.Providers[0].APIKey)
	assert.Equal(t, "ollama", cfg.Providers[1].Type)
	assert.Equal(t, "local", cfg.Routes["embedding"])
	assert.Equal(t, "meta-llama/llama-3.1-8b-instruct", cfg.Aliases["my-model"])
	assert.Equal(t, "remote", cfg.Gateway.DefaultProvider)
	assert.Equal(t, 15*time.Second, cfg.Gateway.DispatchTimeout)
	assert.True(t, cfg.RequestLog.Enabled)
	assert.Equal(t, "anon-token", cfg.RequestLog.Token)
	assert.Equal(t, 10000, cfg.RequestLog.Buffer)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfig(t, "server: [unterminated"))

	_, err := LoadConfig()
	assert.Error(t, err)
}
