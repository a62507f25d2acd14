package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/app"
	discoveryuc "github.com/kailas-cloud/discovery/internal/usecase/discovery"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a category or global search",
	Long: `Search runs the same query path as the HTTP API. With --category it lists
one category (filters, viewport, paging and facets apply); without it the query
runs across all categories.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		f := cmd.Flags()
		cat, _ := f.GetString("category")
		limit, _ := f.GetInt("limit")

		return withApp(cmd, func(ctx context.Context, a *app.App, _ *zap.Logger) error {
			if cat == "" {
				agg, err := a.Discovery.GlobalSearch(ctx, query, strconv.Itoa(limit))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), agg)
			}
			p := listParams(cmd, query)
			env, err := a.Discovery.ListOpportunities(ctx, cat, p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), env)
		})
	},
}

func init() {
	f := searchCmd.Flags()
	f.String("category", "", "category to list (job, gig, project, launchpad, volunteering)")
	f.String("filters", "", `filters as a JSON object, e.g. {"remote":true}`)
	f.String("viewport", "", `bounding box as JSON, e.g. {"north":52,"south":51,"east":1,"west":-1}`)
	f.String("sort", "", "sort profile: default, newest, alphabetical, budget, status")
	f.Int("page", 1, "page number")
	f.Int("page-size", 20, "items per page")
	f.Bool("facets", false, "include facet distributions")
	f.Int("limit", 5, "items per category for a global search")
	rootCmd.AddCommand(searchCmd)
}

func listParams(cmd *cobra.Command, query string) discoveryuc.ListParams {
	f := cmd.Flags()
	page, _ := f.GetInt("page")
	pageSize, _ := f.GetInt("page-size")
	sort, _ := f.GetString("sort")
	facets, _ := f.GetBool("facets")

	p := discoveryuc.ListParams{
		Query:         query,
		Page:          strconv.Itoa(page),
		PageSize:      strconv.Itoa(pageSize),
		Sort:          sort,
		IncludeFacets: facets,
	}
	if v, _ := f.GetString("filters"); v != "" {
		p.Filters = v
	}
	if v, _ := f.GetString("viewport"); v != "" {
		p.Viewport = v
	}
	return p
}
