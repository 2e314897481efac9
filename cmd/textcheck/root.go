package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/textcheck/internal/app"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "textcheck",
		Short:         "Check that expected text snippets appear on the pages they link to",
		Version:       app.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file (.yaml, .json or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newMatchCommand(opts))
	rootCmd.AddCommand(newNormalizeCommand())
	rootCmd.AddCommand(newRunsCommand(opts))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// loadConfig layers defaults, the config file and the environment. Command
// flags are applied by each command afterwards.
func loadConfig(opts *rootOptions) (app.Config, error) {
	cfg := app.DefaultConfig()
	if opts.configPath != "" {
		fc, err := app.LoadConfigFile(opts.configPath)
		if err != nil {
			return cfg, err
		}
		if err := app.ApplyFileConfig(&cfg, fc); err != nil {
			return cfg, fmt.Errorf("config %s: %w", opts.configPath, err)
		}
	}
	if err := app.ApplyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "textcheck", app.VersionString())
			return nil
		},
	}
}
