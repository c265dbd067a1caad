package main

import (
	"github.com/spf13/cobra"

	"github.com/yigit/castor/internal/runner"
)

// configPath is the global --config flag
var configPath string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "castor",
		Short: "Check the course database against the published catalog",
		Long: `castor fetches the public course catalog, normalizes the eligible
courses and reports every difference with the planner's course database.

Run without a subcommand to perform a scrape.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the configuration file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "scrape",
			Short: "Run one catalog reconciliation and print the report",
			Args:  cobra.NoArgs,
			RunE:  runScrape,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or upgrade the database schema",
			Args:  cobra.NoArgs,
			RunE:  runMigrate,
		},
		&cobra.Command{
			Use:   "seed <fixture.yaml>",
			Short: "Load courses and prerequisites from a YAML fixture",
			Args:  cobra.ExactArgs(1),
			RunE:  runSeed,
		},
	)
	return rootCmd
}

func openRunner(cmd *cobra.Command) (*runner.Runner, error) {
	return runner.New(configPath, cmd.ErrOrStderr())
}

func runScrape(cmd *cobra.Command, _ []string) error {
	r, err := openRunner(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	// Discrepancies are reported, not treated as failure.
	_, err = r.Scrape(cmd.Context(), cmd.OutOrStdout())
	return err
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	r, err := openRunner(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Migrate(cmd.Context())
}

func runSeed(cmd *cobra.Command, args []string) error {
	r, err := openRunner(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Seed(cmd.Context(), args[0])
}
