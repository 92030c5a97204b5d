package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/ncirc/internal/cli"
	"github.com/example/ncirc/internal/config"
	"github.com/example/ncirc/internal/logging"
	"github.com/example/ncirc/internal/version"
	"github.com/example/ncirc/internal/wire"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "ncirc",
		Short:   "ncirc - nitrogen circularity scenarios for a grow-finish pig farm",
		Version: version.String(),
		Long: `ncirc models the annual nitrogen budget of a grow-finish pig farm as a flow
graph and shows how a reduction in housing N losses cascades through manure
storage, soil and crops into circular, accessible and lost N.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			cfg, err := config.Resolve(dir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger, err := logging.New(cfg.LogLevel, verbose)
			if err != nil {
				return err
			}
			wire.Configure(cfg, logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = wire.Logger().Sync()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Scenario commands
	rootCmd.AddCommand(cli.BaselineCmd())
	rootCmd.AddCommand(cli.ShowCmd())
	rootCmd.AddCommand(cli.SweepCmd())
	rootCmd.AddCommand(cli.GraphCmd())
	rootCmd.AddCommand(cli.ChartCmd())

	// Frontends
	rootCmd.AddCommand(cli.InteractiveCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	rootCmd.AddCommand(cli.InitCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
