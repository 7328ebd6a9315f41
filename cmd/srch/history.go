package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pders01/srch/internal/history"
	"github.com/pders01/srch/internal/output"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var (
		grep  string
		limit int
		wipe  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past queries",
		Example: `  srch history
  srch history --grep energy --limit 5
  srch history --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cfg.History.Path == "" {
				return &output.CLIError{Summary: "query history is disabled", Detail: "history.path is empty", ExitCode: output.ExitConfig}
			}

			store, err := history.Open(cfg.History.Path, cfg.History.Limit)
			if err != nil {
				return &output.CLIError{Summary: "could not open query history", Detail: err.Error(), ExitCode: output.ExitGeneral}
			}
			defer store.Close()

			p := root.printer(cmd)
			if wipe {
				if err := store.Clear(); err != nil {
					return err
				}
				p.Success("History cleared")
				return nil
			}

			var entries []*history.Entry
			if grep != "" {
				entries, err = store.Grep(grep, limit)
			} else {
				entries, err = store.Recent(limit)
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				p.Info("No queries recorded")
				return nil
			}
			return printHistory(p, entries)
		},
	}

	cmd.Flags().StringVar(&grep, "grep", "", "only show queries matching term")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show")
	cmd.Flags().BoolVar(&wipe, "clear", false, "delete all recorded queries")
	return cmd
}

func printHistory(p *output.Printer, entries []*history.Entry) error {
	table := output.NewTable(p.Out(), []string{"#", "When", "Result", "Query"})
	for _, e := range entries {
		result := "ok"
		if !e.OK {
			result = "failed"
		}
		table.AddRow(
			strconv.FormatUint(e.ID, 10),
			e.At.Local().Format("2006-01-02 15:04"),
			result,
			e.Query,
		)
	}
	return table.Render()
}
