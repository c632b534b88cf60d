// Package config provides configuration management for svist.
// Settings come from built-in defaults, an optional config.yaml in the vault
// directory, SVIST_* environment variables and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// UI color constants for the TUI (Terminal User Interface)
const (
	// MainColorForeground is the primary text color (ANSI color code)
	MainColorForeground = "205"
	// MainColorBackground is the primary background color (ANSI color code)
	MainColorBackground = "16"
	// MainColorBackgroundMute is a muted background color (ANSI color code)
	MainColorBackgroundMute = "241"
)

// Backend providers.
const (
	ProviderHTTP   = "http"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Providers lists the accepted provider names in the order the options
// screen cycles through them.
var Providers = []string{ProviderHTTP, ProviderOllama, ProviderOpenAI}

const (
	defaultVaultDir = ".svist"
	configFileName  = "config"
	configFileType  = "yaml"
	envPrefix       = "SVIST"

	DefaultChatPath    = "/api/v1/test/chat"
	DefaultUpstream    = "https://chatbot-nodejs-lsjx.onrender.com"
	DefaultProxyPrefix = "/api"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is the complete application configuration.
type Config struct {
	Provider       string         `mapstructure:"provider"`
	RequestTimeout time.Duration  `mapstructure:"request_timeout"`
	Endpoint       EndpointConfig `mapstructure:"endpoint"`
	Ollama         OllamaConfig   `mapstructure:"ollama"`
	OpenAI         OpenAIConfig   `mapstructure:"openai"`
	Typing         TypingConfig   `mapstructure:"typing"`
	CopyFeedback   time.Duration  `mapstructure:"copy_feedback"`
	Proxy          ProxyConfig    `mapstructure:"proxy"`
	LogLevel       string         `mapstructure:"log_level"`

	// VaultPath is where config.yaml and the log file live. It is not
	// itself read from the config file.
	VaultPath string `mapstructure:"-"`
}

// EndpointConfig locates the chat endpoint used by the http provider.
type EndpointConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Path    string `mapstructure:"path"`
}

// URL joins the base URL and path.
func (e EndpointConfig) URL() string {
	return strings.TrimRight(e.BaseURL, "/") + "/" + strings.TrimLeft(e.Path, "/")
}

type OllamaConfig struct {
	URL         string  `mapstructure:"url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

type OpenAIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// TypingConfig controls the reveal animation speed.
type TypingConfig struct {
	MinDelay time.Duration `mapstructure:"min_delay"`
	MaxDelay time.Duration `mapstructure:"max_delay"`
	// InitialDelay is accepted for compatibility but not applied; the
	// first character appears immediately.
	InitialDelay time.Duration `mapstructure:"initial_delay"`
}

// ProxyConfig configures the development proxy.
type ProxyConfig struct {
	Listen   string `mapstructure:"listen"`
	Prefix   string `mapstructure:"prefix"`
	Upstream string `mapstructure:"upstream"`
}

// DefaultVaultPath returns ~/.svist, or ./.svist when the home directory
// can't be determined. SVIST_VAULT overrides it.
func DefaultVaultPath() string {
	if v := os.Getenv("SVIST_VAULT"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./" + defaultVaultDir
	}
	return filepath.Join(home, defaultVaultDir)
}

// ConfigPath returns the settings file inside vault.
func ConfigPath(vault string) string {
	return filepath.Join(vault, configFileName+"."+configFileType)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderHTTP)
	v.SetDefault("request_timeout", 2*time.Minute)
	v.SetDefault("endpoint.base_url", "http://localhost:8080")
	v.SetDefault("endpoint.path", DefaultChatPath)
	v.SetDefault("ollama.url", "http://localhost:11434")
	v.SetDefault("ollama.model", "gemma3:1b")
	v.SetDefault("ollama.temperature", 1.5)
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("typing.min_delay", 15*time.Millisecond)
	v.SetDefault("typing.max_delay", 30*time.Millisecond)
	v.SetDefault("typing.initial_delay", 300*time.Millisecond)
	v.SetDefault("copy_feedback", 2*time.Second)
	v.SetDefault("proxy.listen", ":5173")
	v.SetDefault("proxy.prefix", DefaultProxyPrefix)
	v.SetDefault("proxy.upstream", DefaultUpstream)
	v.SetDefault("log_level", "info")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.VaultPath = DefaultVaultPath()
	return &cfg
}

// Load reads the configuration. When file is empty, config.yaml in vault is
// used if it exists; a missing file is not an error. An empty vault means
// DefaultVaultPath.
func Load(vault, file string) (*Config, error) {
	if vault == "" {
		vault = DefaultVaultPath()
	}

	v := newViper()
	explicit := file != ""
	if !explicit {
		file = ConfigPath(vault)
	}
	v.SetConfigFile(file)
	v.SetConfigType(configFileType)

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.VaultPath = vault

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	known := false
	for _, p := range Providers {
		if c.Provider == p {
			known = true
			break
		}
	}
	switch {
	case !known:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, c.Provider)
	case c.Typing.MinDelay < 0 || c.Typing.MaxDelay < 0 || c.Typing.InitialDelay < 0:
		return fmt.Errorf("%w: typing delays must not be negative", ErrInvalid)
	case c.Typing.MinDelay > c.Typing.MaxDelay:
		return fmt.Errorf("%w: typing.min_delay %s exceeds typing.max_delay %s",
			ErrInvalid, c.Typing.MinDelay, c.Typing.MaxDelay)
	case c.CopyFeedback < 0 || c.RequestTimeout < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalid)
	case c.Provider == ProviderHTTP && c.Endpoint.BaseURL == "":
		return fmt.Errorf("%w: endpoint.base_url is required", ErrInvalid)
	case c.Proxy.Prefix == "" || !strings.HasPrefix(c.Proxy.Prefix, "/"):
		return fmt.Errorf("%w: proxy.prefix must start with /", ErrInvalid)
	}
	return nil
}

// Save writes the configuration to config.yaml in the vault directory.
func Save(cfg *Config) error {
	if err := os.MkdirAll(cfg.VaultPath, 0755); err != nil {
		return err
	}

	v := viper.New()
	v.Set("provider", cfg.Provider)
	v.Set("request_timeout", cfg.RequestTimeout.String())
	v.Set("endpoint.base_url", cfg.Endpoint.BaseURL)
	v.Set("endpoint.path", cfg.Endpoint.Path)
	v.Set("ollama.url", cfg.Ollama.URL)
	v.Set("ollama.model", cfg.Ollama.Model)
	v.Set("ollama.temperature", cfg.Ollama.Temperature)
	v.Set("openai.base_url", cfg.OpenAI.BaseURL)
	v.Set("openai.model", cfg.OpenAI.Model)
	v.Set("typing.min_delay", cfg.Typing.MinDelay.String())
	v.Set("typing.max_delay", cfg.Typing.MaxDelay.String())
	v.Set("typing.initial_delay", cfg.Typing.InitialDelay.String())
	v.Set("copy_feedback", cfg.CopyFeedback.String())
	v.Set("proxy.listen", cfg.Proxy.Listen)
	v.Set("proxy.prefix", cfg.Proxy.Prefix)
	v.Set("proxy.upstream", cfg.Proxy.Upstream)
	v.Set("log_level", cfg.LogLevel)
	// The API key stays in the environment.

	path := ConfigPath(cfg.VaultPath)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return os.Chmod(path, 0600)
}
