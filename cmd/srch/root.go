package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/srch/internal/api"
	"github.com/pders01/srch/internal/chart"
	"github.com/pders01/srch/internal/config"
	"github.com/pders01/srch/internal/debuglog"
	"github.com/pders01/srch/internal/dispatch"
	"github.com/pders01/srch/internal/history"
	"github.com/pders01/srch/internal/launch"
	"github.com/pders01/srch/internal/output"
	"github.com/pders01/srch/internal/state"
	"github.com/pders01/srch/internal/tui"
	"github.com/pders01/srch/internal/validation"
)

type rootOptions struct {
	configPath string
	verbose    bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "srch",
		Short: "Terminal client for the news search and analysis service",
		Long: `srch sends a query to a news analysis service and shows the summary,
key insights and source/timeline charts it returns.

Run without arguments for the interactive screen, or use a subcommand:
  srch search "renewable energy"     # one-shot search
  srch health --external             # service and upstream status
  srch history --grep energy         # past queries`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ~/.config/srch/config.toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newSearchCmd(opts),
		newHealthCmd(opts),
		newHistoryCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

func (o *rootOptions) printer(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ResolveColors(!o.noColor))
}

// loadConfig reads the configuration and sets up logging. Interactive runs
// log to the configured file; one-shot commands log to logOut when verbose.
func (o *rootOptions) loadConfig(logOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, &output.CLIError{Summary: "could not load configuration", Detail: err.Error(), ExitCode: output.ExitConfig}
	}

	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if o.verbose {
		level = debuglog.LevelDebug
	}
	if logOut != nil && o.verbose {
		debuglog.SetOutput(logOut, level)
	} else if err := debuglog.Setup(level, cfg.Log.Path); err != nil {
		return nil, &output.CLIError{Summary: "could not open log file", Detail: err.Error(), ExitCode: output.ExitConfig}
	}

	debuglog.WithFields(map[string]interface{}{
		"base_url":     cfg.Service.BaseURL,
		"max_articles": cfg.Search.MaxArticles,
		"charts":       cfg.Search.ChartsEnabled,
	}).Debug("configuration loaded")

	tui.ApplyTheme(cfg.UI.Colors)
	return cfg, nil
}

// env is everything a search needs, built once per command.
type env struct {
	cfg        *config.Config
	client     *api.Client
	charts     *chart.Manager
	dispatcher *dispatch.Dispatcher
	history    *history.Store
}

func newEnv(cfg *config.Config) (*env, error) {
	validator := validation.NewEndpointValidator()
	if cfg.Service.AllowPrivate {
		validator = validation.NewPermissiveEndpointValidator()
	}
	base, err := validator.ValidateAndNormalize(cfg.Service.BaseURL)
	if err != nil {
		return nil, &output.CLIError{Summary: "invalid service URL", Detail: err.Error(), ExitCode: output.ExitConfig}
	}
	cfg.Service.BaseURL = base

	client, err := api.NewClient(api.Options{
		BaseURL:    base,
		SearchPath: cfg.Service.SearchPath,
		HealthPath: cfg.Service.HealthPath,
		Timeout:    cfg.Service.HTTPTimeout,
		UserAgent:  cfg.Service.UserAgent,
	})
	if err != nil {
		return nil, &output.CLIError{Summary: "invalid service URL", Detail: err.Error(), ExitCode: output.ExitConfig}
	}

	e := &env{cfg: cfg, client: client}
	e.charts = chart.NewManager(chart.NewBarFactory(tui.BarStyles()))

	opts := []dispatch.Option{dispatch.WithRateLimit(cfg.Search.RateLimit, cfg.Search.Burst)}
	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path, cfg.History.Limit)
		if err != nil {
			debuglog.Warnf("history disabled: %v", err)
		} else {
			e.history = store
			opts = append(opts, dispatch.WithRecorder(store))
		}
	}

	e.dispatcher = dispatch.New(client, state.New(e.charts), e.charts, cfg.Flow(), opts...)
	return e, nil
}

func (e *env) Close() error {
	if e.history != nil {
		return e.history.Close()
	}
	return nil
}

func runTUI(opts *rootOptions) error {
	cfg, err := opts.loadConfig(nil)
	if err != nil {
		return err
	}
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	deps := tui.Deps{
		Config:     cfg,
		Dispatcher: e.dispatcher,
		Charts:     e.charts,
		Health:     e.client,
		Opener:     launch.NewOpener(cfg.Service.Opener),
	}
	if e.history != nil {
		deps.History = e.history
	}

	debuglog.Infof("starting interactive session against %s", e.client.Endpoint())
	p := tea.NewProgram(tui.NewApp(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
