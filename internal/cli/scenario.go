package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/ncirc/internal/adapters/encode"
	"github.com/example/ncirc/internal/ports/primary"
	"github.com/example/ncirc/internal/wire"
)

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Evaluate a housing N loss reduction",
		Long: `Cascade a housing N loss reduction through the farm flow graph and print
the key numbers and every flow that moved.

Examples:
  ncirc show --reduction 5
  ncirc show --reduction 20 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			reduction := reductionFlag(cmd)
			return wire.ScenarioAdapter().Show(context.Background(), reduction, format)
		},
	}
	cmd.Flags().Float64P("reduction", "r", 0, "Housing N loss reduction in percent [0, 100] (default from config)")
	addFormatFlag(cmd)
	return cmd
}

// BaselineCmd returns the baseline command
func BaselineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Show the baseline farm N budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			return wire.ScenarioAdapter().Baseline(context.Background(), format)
		},
	}
	addFormatFlag(cmd)
	return cmd
}

// SweepCmd returns the sweep command
func SweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate a range of housing N loss reductions",
		Long: `Evaluate reductions from --from to --to in increments of --step.

Examples:
  ncirc sweep --from 0 --to 50 --step 5
  ncirc sweep --to 100 --step 10 --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetFloat64("from")
			to, _ := cmd.Flags().GetFloat64("to")
			step, _ := cmd.Flags().GetFloat64("step")

			return wire.ScenarioAdapter().Sweep(context.Background(), primary.SweepRequest{
				From: from,
				To:   to,
				Step: step,
			}, format)
		},
	}
	cmd.Flags().Float64("from", 0, "First reduction in percent")
	cmd.Flags().Float64("to", 50, "Last reduction in percent")
	cmd.Flags().Float64("step", 5, "Increment between reductions")
	addFormatFlag(cmd)
	return cmd
}

// GraphCmd returns the graph command
func GraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Describe compartments, flows and partition ratios",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			return wire.ScenarioAdapter().Graph(context.Background(), format)
		},
	}
	addFormatFlag(cmd)
	return cmd
}

// ChartCmd returns the chart command
func ChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the circularity breakdown as a PNG bar chart",
		Long: `Render circular, accessible and lost N as percent of external input.

Examples:
  ncirc chart --reduction 10 --out circularity.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			reduction := reductionFlag(cmd)
			cfg := wire.Config()

			// Render fully before touching the file so a rejected reduction leaves it intact.
			var buf bytes.Buffer
			if err := wire.ScenarioAdapterWithOutput(&buf).Chart(context.Background(), reduction, cfg.ChartWidth, cfg.ChartHeight); err != nil {
				return fmt.Errorf("failed to render chart: %w", err)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Printf("✓ Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().Float64P("reduction", "r", 0, "Housing N loss reduction in percent (default from config)")
	cmd.Flags().StringP("out", "o", "", "Output PNG path")
	return cmd
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json, yaml")
}

func formatFlag(cmd *cobra.Command) (encode.Format, error) {
	s, _ := cmd.Flags().GetString("format")
	return encode.ParseFormat(s)
}

// reductionFlag returns --reduction, or the configured default when unset.
func reductionFlag(cmd *cobra.Command) float64 {
	if !cmd.Flags().Changed("reduction") {
		return wire.Config().DefaultReduction
	}
	r, _ := cmd.Flags().GetFloat64("reduction")
	return r
}
