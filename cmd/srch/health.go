package main

import (
	"context"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pders01/srch/internal/api"
	"github.com/pders01/srch/internal/output"
	"github.com/pders01/srch/internal/render"
)

func newHealthCmd(root *rootOptions) *cobra.Command {
	var external bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			e, err := newEnv(cfg)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Service.HTTPTimeout)
			defer cancel()

			h, err := e.client.Health(ctx, external)
			if err != nil {
				return &output.CLIError{
					Summary:  render.SingleLine(api.DisplayMessage(err)),
					Detail:   err.Error(),
					ExitCode: output.ExitSearch,
				}
			}
			return printHealth(root.printer(cmd), e.client.BaseURL(), h)
		},
	}

	cmd.Flags().BoolVar(&external, "external", false, "include upstream services")
	return cmd
}

func printHealth(p *output.Printer, target string, h *api.Health) error {
	p.Print("%s  %s", p.StatusBadge(render.SingleLine(h.Status)), p.Dim(target))
	if h.Version != "" {
		p.Print("Version:   %s", render.SingleLine(h.Version))
	}
	if h.Timestamp != "" {
		p.Print("Timestamp: %s", render.SingleLine(h.Timestamp))
	}

	if len(h.ExternalServices) == 0 {
		return nil
	}

	names := make([]string, 0, len(h.ExternalServices))
	for name := range h.ExternalServices {
		names = append(names, name)
	}
	sort.Strings(names)

	p.Header("External Services")
	table := output.NewTable(p.Out(), []string{"Service", "Status"})
	for _, name := range names {
		table.AddRow(render.SingleLine(name), p.StatusBadge(render.SingleLine(h.ExternalServices[name])))
	}
	return table.Render()
}
