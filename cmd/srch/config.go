package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pders01/srch/internal/config"
	"github.com/pders01/srch/internal/output"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(newConfigGenerateCmd(root), newConfigShowCmd(root))
	return cmd
}

func newConfigGenerateCmd(root *rootOptions) *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = root.configPath
			}
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("locating home directory: %w", err)
				}
				path = filepath.Join(home, ".config", "srch", "config.toml")
			}

			if _, err := os.Stat(path); err == nil && !force {
				return &output.CLIError{
					Summary:  "config file already exists: " + path,
					Detail:   "use --force to overwrite",
					ExitCode: output.ExitConfig,
				}
			}

			if err := config.GenerateDefaultConfig(path); err != nil {
				return &output.CLIError{Summary: "failed to generate config", Detail: err.Error(), ExitCode: output.ExitConfig}
			}
			root.printer(cmd).Success("Generated default configuration at: %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "where to write the file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out, err := config.Render(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
