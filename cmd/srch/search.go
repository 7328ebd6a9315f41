package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/srch/internal/api"
	"github.com/pders01/srch/internal/output"
	"github.com/pders01/srch/internal/validation"
)

type searchOptions struct {
	json      bool
	max       int
	noCharts  bool
	timeRange string
	include   []string
	exclude   []string
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Run a single search and print the analysis",
		Long: `Send one query to the service and print the same summary, insights and
charts the interactive screen shows.`,
		Example: `  srch search climate policy
  srch search --range 7d --max 40 "central bank rates"
  srch search --source bbc --source reuters elections
  srch search --json elections | jq .summary`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, root, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the raw response as JSON")
	cmd.Flags().IntVar(&opts.max, "max", 0, fmt.Sprintf("articles to analyze (%d-%d)", validation.MinArticles, validation.MaxArticles))
	cmd.Flags().BoolVar(&opts.noCharts, "no-charts", false, "skip the source and timeline charts")
	cmd.Flags().StringVar(&opts.timeRange, "range", "", "time range: "+strings.Join(validation.ValidTimeRanges, ", "))
	cmd.Flags().StringArrayVar(&opts.include, "source", nil, "only analyze articles from this source (repeatable)")
	cmd.Flags().StringArrayVar(&opts.exclude, "exclude-source", nil, "skip articles from this source (repeatable)")
	return cmd
}

func runSearch(cmd *cobra.Command, root *rootOptions, opts *searchOptions, query string) error {
	cfg, err := root.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("max") {
		cfg.Search.MaxArticles = opts.max
	}
	if opts.noCharts {
		cfg.Search.ChartsEnabled = false
	}
	if cmd.Flags().Changed("range") {
		if err := validation.TimeRange(opts.timeRange); err != nil {
			return &output.CLIError{Summary: "invalid --range", Detail: err.Error(), ExitCode: output.ExitGeneral}
		}
		cfg.Search.TimeRange = opts.timeRange
	}
	if cmd.Flags().Changed("source") {
		cfg.Search.IncludeSources = opts.include
	}
	if cmd.Flags().Changed("exclude-source") {
		cfg.Search.ExcludeSources = opts.exclude
	}

	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	outcome, _ := e.dispatcher.Submit(cmd.Context(), query)

	ctrl := e.dispatcher.Controller()
	if outcome.Err != nil {
		return &output.CLIError{Summary: ctrl.Message(), Detail: outcome.Err.Error(), ExitCode: output.ExitSearch}
	}

	if opts.json {
		return writeJSON(cmd, outcome.Response)
	}

	p := root.printer(cmd)
	p.View(ctrl.View())

	width := min(cfg.UI.Chart.MaxWidth, 80)
	for _, slot := range e.charts.Slots() {
		if !e.charts.Live(slot) {
			continue
		}
		p.Print("")
		p.Print("%s", e.charts.View(slot, width))
	}
	return nil
}

func writeJSON(cmd *cobra.Command, resp *api.SearchResponse) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
