// Package main is the operator CLI for the discovery service: index sync and
// ad-hoc queries against the configured backends.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/app"
	"github.com/kailas-cloud/discovery/internal/config"
	logpkg "github.com/kailas-cloud/discovery/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "discoveryctl",
	Short: "Operate the opportunity discovery service",
	Long: `discoveryctl runs maintenance and diagnostic tasks against the backends
configured for the discovery service: syncing the search index from postgres,
running category and global searches, and printing the discovery snapshot.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("env", "", "config environment (default: $ENV or local)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
}

// withApp loads config, wires the services and runs fn. Logs go to stderr so
// stdout carries only command output.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App, logger *zap.Logger) error) error {
	env, _ := cmd.Flags().GetString("env")
	if env == "" {
		env = config.GetEnv()
	}
	level, _ := cmd.Flags().GetString("log-level")

	cfg, err := config.Load(env)
	if err != nil {
		return err
	}
	logger, err := logpkg.NewLogger(env, level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(logpkg.ContextWithLogger(ctx, logger), a, logger)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
