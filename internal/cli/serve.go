package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/config"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/server"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to configured server.addr)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: "Serves the assistant over a local HTTP JSON API with Prometheus\n" +
		"metrics on /metrics. Supports hot-reload of thresholds, alerts, and\n" +
		"the budget cap from the config file.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, hash, err := config.LoadConfigWithHash(configPath)
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	sess, closeSession, err := buildSession(cfg, hash)
	if err != nil {
		return err
	}
	defer closeSession()

	srv := server.New(sess, server.Config{
		Addr:       addr,
		ConfigPath: configPath,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hot-reload watcher for the config file.
	watchPath := configPath
	if watchPath == "" {
		watchPath = config.DefaultPath()
	}
	reloader, err := server.NewReloader(srv, watchPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	}
	if reloader != nil {
		go reloader.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	return srv.Serve()
}
