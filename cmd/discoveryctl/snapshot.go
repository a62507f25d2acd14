package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/app"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the discovery snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withApp(cmd, func(ctx context.Context, a *app.App, _ *zap.Logger) error {
			snap, err := a.Discovery.DiscoverySnapshot(ctx, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snap)
		})
	},
}

func init() {
	snapshotCmd.Flags().Int("limit", 5, "items per category")
	rootCmd.AddCommand(snapshotCmd)
}
