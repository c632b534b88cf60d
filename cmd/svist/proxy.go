package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VarunSharma3520/svist/internal/proxy"
)

var (
	proxyListen   string
	proxyUpstream string
)

// proxyCmd runs the development proxy in the foreground.
var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Forward /api requests to the chat backend",
	Long: `Run a local HTTP proxy that forwards every request under the configured
prefix (default /api) to the upstream chat service, rewriting the Host header.
Point the http provider at it with --endpoint http://localhost:5173.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProxy(cmd.Context())
	},
}

func init() {
	proxyCmd.Flags().StringVar(&proxyListen, "listen", "", "Listen address (default from config, :5173)")
	proxyCmd.Flags().StringVar(&proxyUpstream, "upstream", "", "Upstream base URL")
}

func runProxy(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if proxyListen != "" {
		cfg.Proxy.Listen = proxyListen
	}
	if proxyUpstream != "" {
		cfg.Proxy.Upstream = proxyUpstream
	}

	log, closeLog, err := openLog(cfg, "proxy")
	if err != nil {
		return err
	}
	defer closeLog()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := proxy.Run(ctx, cfg.Proxy, log); err != nil {
		log.Error("proxy stopped", err)
		return err
	}
	log.Info("proxy stopped", zap.String("listen", cfg.Proxy.Listen))
	return nil
}
