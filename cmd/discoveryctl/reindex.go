package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/app"
	"github.com/kailas-cloud/discovery/internal/domain/category"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex [category...]",
	Short: "Sync the search index from postgres",
	Long: `Reindex copies every stored opportunity into its category index, creating
missing indexes and removing documents whose rows no longer exist. With no
arguments all five categories are synced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cats, err := parseCategories(args)
		if err != nil {
			return err
		}
		recreate, _ := cmd.Flags().GetBool("recreate")

		return withApp(cmd, func(ctx context.Context, a *app.App, _ *zap.Logger) error {
			if a.Indexing == nil {
				return errors.New("search index is disabled in this environment")
			}
			reports, err := a.Indexing.Reindex(ctx, cats, recreate)
			if perr := printJSON(cmd.OutOrStdout(), reports); perr != nil {
				return perr
			}
			return err
		})
	},
}

func init() {
	reindexCmd.Flags().Bool("recreate", false, "drop and rebuild each index (applies schema changes)")
	rootCmd.AddCommand(reindexCmd)
}

func parseCategories(args []string) ([]category.Category, error) {
	seen := make(map[category.Category]bool, len(args))
	cats := make([]category.Category, 0, len(args))
	for _, arg := range args {
		c, err := category.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("reindex: %w", err)
		}
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	return cats, nil
}
