package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
provider: ollama
endpoint:
  base_url: https://chat.example.com
typing:
  min_delay: 5ms
  max_delay: 10ms
ollama:
  model: llama3
proxy:
  upstream: https://upstream.example.com
`

// TestLoad_Defaults verifies that a vault without config.yaml yields the defaults.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, ProviderHTTP, cfg.Provider)
	assert.Equal(t, "http://localhost:8080/api/v1/test/chat", cfg.Endpoint.URL())
	assert.Equal(t, 15*time.Millisecond, cfg.Typing.MinDelay)
	assert.Equal(t, 30*time.Millisecond, cfg.Typing.MaxDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.Typing.InitialDelay)
	assert.Equal(t, 2*time.Second, cfg.CopyFeedback)
	assert.Equal(t, "/api", cfg.Proxy.Prefix)
	assert.Equal(t, DefaultUpstream, cfg.Proxy.Upstream)
}

// TestLoad_VaultFile verifies that config.yaml in the vault overrides defaults.
func TestLoad_VaultFile(t *testing.T) {
	vault := t.TempDir()
	require.NoError(t, os.WriteFile(ConfigPath(vault), []byte(sampleConfig), 0600))

	cfg, err := Load(vault, "")
	require.NoError(t, err)

	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "https://chat.example.com/api/v1/test/chat", cfg.Endpoint.URL())
	assert.Equal(t, 5*time.Millisecond, cfg.Typing.MinDelay)
	assert.Equal(t, "llama3", cfg.Ollama.Model)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.URL)
	assert.Equal(t, "https://upstream.example.com", cfg.Proxy.Upstream)
	assert.Equal(t, vault, cfg.VaultPath)
}

// TestLoad_EnvOverridesFile verifies SVIST_* variables win over the file.
func TestLoad_EnvOverridesFile(t *testing.T) {
	vault := t.TempDir()
	require.NoError(t, os.WriteFile(ConfigPath(vault), []byte(sampleConfig), 0600))
	t.Setenv("SVIST_PROVIDER", "http")
	t.Setenv("SVIST_TYPING_MAX_DELAY", "50ms")
	t.Setenv("SVIST_OPENAI_API_KEY", "sk-test")

	cfg, err := Load(vault, "")
	require.NoError(t, err)

	assert.Equal(t, ProviderHTTP, cfg.Provider)
	assert.Equal(t, 50*time.Millisecond, cfg.Typing.MaxDelay)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_RejectsInvertedTypingRange(t *testing.T) {
	vault := t.TempDir()
	body := "typing:\n  min_delay: 40ms\n  max_delay: 10ms\n"
	require.NoError(t, os.WriteFile(ConfigPath(vault), []byte(body), 0600))

	_, err := Load(vault, "")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"unknown provider": func(c *Config) { c.Provider = "carrier-pigeon" },
		"negative delay":   func(c *Config) { c.Typing.MinDelay = -time.Millisecond },
		"negative copy":    func(c *Config) { c.CopyFeedback = -time.Second },
		"missing base url": func(c *Config) { c.Endpoint.BaseURL = "" },
		"relative prefix":  func(c *Config) { c.Proxy.Prefix = "api" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
	require.NoError(t, Default().Validate())
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.VaultPath = filepath.Join(t.TempDir(), "vault")
	cfg.Provider = ProviderOpenAI
	cfg.Endpoint.BaseURL = "https://saved.example.com"
	cfg.Typing.MaxDelay = 45 * time.Millisecond
	cfg.OpenAI.APIKey = "secret"
	require.NoError(t, Save(cfg))

	data, err := os.ReadFile(ConfigPath(cfg.VaultPath))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	loaded, err := Load(cfg.VaultPath, "")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, loaded.Provider)
	assert.Equal(t, "https://saved.example.com", loaded.Endpoint.BaseURL)
	assert.Equal(t, 45*time.Millisecond, loaded.Typing.MaxDelay)
	assert.Equal(t, 2*time.Second, loaded.CopyFeedback)
}

func TestDefaultVaultPath_Env(t *testing.T) {
	t.Setenv("SVIST_VAULT", "/tmp/custom-vault")
	assert.Equal(t, "/tmp/custom-vault", DefaultVaultPath())
}
