package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VarunSharma3520/svist/internal/backend"
	"github.com/VarunSharma3520/svist/internal/chat"
	"github.com/VarunSharma3520/svist/internal/config"
	"github.com/VarunSharma3520/svist/internal/fs"
	"github.com/VarunSharma3520/svist/internal/logger"
	"github.com/VarunSharma3520/svist/internal/reveal"
	"github.com/VarunSharma3520/svist/internal/ui"
)

var (
	configFile string
	vaultPath  string
	provider   string
	endpoint   string
	logLevel   string
)

// rootCmd starts the chat interface.
var rootCmd = &cobra.Command{
	Use:   "svist",
	Short: "Chatbot SVIST - a terminal chat client",
	Long: `svist sends each prompt to a chat backend and types the answer out
character by character.

Settings are read from config.yaml in the vault (~/.svist by default), then
SVIST_* environment variables, then the flags below.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: <vault>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "Vault directory (default: ~/.svist or $SVIST_VAULT)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&provider, "provider", "", "Backend: http, ollama or openai")
	rootCmd.Flags().StringVar(&endpoint, "endpoint", "", "Base URL of the chat backend for the http provider")

	rootCmd.AddCommand(proxyCmd)
}

// loadConfig reads the layered configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(vaultPath, configFile)
	if err != nil {
		return nil, err
	}
	if provider != "" {
		cfg.Provider = provider
	}
	if endpoint != "" {
		cfg.Endpoint.BaseURL = endpoint
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := fs.EnsureVault(cfg.VaultPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openLog opens the vault log and tags every entry with a session id. The
// returned func closes the file.
func openLog(cfg *config.Config, component string) (*logger.Logger, func() error, error) {
	path := fs.LogPath(cfg.VaultPath)
	if err := fs.EnsureFile(path); err != nil {
		return nil, nil, err
	}
	base, err := logger.NewLogger(path, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := base.With(
		zap.String("session", uuid.NewString()),
		zap.String("component", component),
	)
	return log, base.Close, nil
}

// newStore wires the conversation to the configured backend.
func newStore(cfg *config.Config, log *logger.Logger) (*chat.Store, error) {
	responder, err := backend.New(cfg)
	if err != nil {
		return nil, err
	}
	return chat.New(chat.Options{
		Responder:    responder,
		Animator:     reveal.New(reveal.WithDelays(cfg.Typing.MinDelay, cfg.Typing.MaxDelay)),
		CopyFeedback: cfg.CopyFeedback,
		Logger:       log,
	}), nil
}

func runChat() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := openLog(cfg, "chat")
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := newStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	log.Info("session started",
		zap.String("provider", cfg.Provider),
		zap.String("endpoint", cfg.Endpoint.URL()))

	p := tea.NewProgram(
		ui.InitialModel(store, cfg, log),
		tea.WithAltScreen(),
		tea.WithOutput(os.Stdout),
	)
	if _, err := p.Run(); err != nil {
		log.Error("program exited with error", err)
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	log.Info("session ended")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
