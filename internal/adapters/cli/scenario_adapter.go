// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/example/ncirc/internal/adapters/encode"
	"github.com/example/ncirc/internal/adapters/render"
	"github.com/example/ncirc/internal/core/nitrogen"
	"github.com/example/ncirc/internal/ports/primary"
)

// ScenarioAdapter is a thin adapter that translates CLI operations to ScenarioService calls.
// It depends only on the ScenarioService interface, enabling easy testing with mocks.
type ScenarioAdapter struct {
	service primary.ScenarioService
	out     io.Writer
}

// NewScenarioAdapter creates a new ScenarioAdapter with the given service.
func NewScenarioAdapter(service primary.ScenarioService, out io.Writer) *ScenarioAdapter {
	return &ScenarioAdapter{
		service: service,
		out:     out,
	}
}

// Show evaluates one reduction and prints its key numbers and changed flows.
func (a *ScenarioAdapter) Show(ctx context.Context, reduction float64, format encode.Format) error {
	scenario, err := a.service.ApplyHousingReduction(ctx, primary.ScenarioRequest{Reduction: reduction})
	if err != nil {
		return err
	}
	if format != encode.FormatTable {
		return encode.Write(a.out, format, scenario)
	}

	fmt.Fprintf(a.out, "\nHousing N loss reduction: %s\n", color.New(color.FgCyan).Sprintf("%g%%", scenario.Reduction))
	fmt.Fprintf(a.out, "N saved from housing emissions: %.1f kg N/yr\n", scenario.Delta)
	a.writeKeyNumbers(scenario)
	a.writeFlows(scenario.Flows, true)
	return nil
}

// Baseline prints the unperturbed flow table and metrics.
func (a *ScenarioAdapter) Baseline(ctx context.Context, format encode.Format) error {
	scenario, err := a.service.Baseline(ctx)
	if err != nil {
		return fmt.Errorf("failed to evaluate baseline: %w", err)
	}
	if format != encode.FormatTable {
		return encode.Write(a.out, format, scenario)
	}

	fmt.Fprintln(a.out, "\nBaseline grow-finish farm N budget")
	a.writeKeyNumbers(scenario)
	a.writeFlows(scenario.Flows, false)
	return nil
}

// Sweep prints metrics over a range of reductions.
func (a *ScenarioAdapter) Sweep(ctx context.Context, req primary.SweepRequest, format encode.Format) error {
	results, err := a.service.Sweep(ctx, req)
	if err != nil {
		return err
	}
	if format != encode.FormatTable {
		return encode.Write(a.out, format, results)
	}

	fmt.Fprintf(a.out, "\n%-8s %-9s %-9s %-10s %-10s %-9s %s\n",
		"REDUCE", "F7", "F6", "CIRCULAR", "ACCESSIBLE", "LOST", "CIRCULAR%")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────")
	for _, s := range results {
		fmt.Fprintf(a.out, "%-8s %-9.1f %-9.1f %-10.1f %-10.1f %-9.1f %.1f%%\n",
			fmt.Sprintf("%g%%", s.Reduction),
			flowValue(s, "F7"), flowValue(s, "F6"),
			s.Metrics.Circular, s.Metrics.Accessible, s.Metrics.Lost,
			s.Breakdown.CircularPct)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Graph prints compartments, links and derived partitions.
func (a *ScenarioAdapter) Graph(ctx context.Context, format encode.Format) error {
	graph, err := a.service.Graph(ctx)
	if err != nil {
		return fmt.Errorf("failed to describe graph: %w", err)
	}
	if format != encode.FormatTable {
		return encode.Write(a.out, format, graph)
	}

	fmt.Fprintln(a.out, "\nCompartments:")
	for i, c := range graph.Compartments {
		fmt.Fprintf(a.out, "  C%-3d %s\n", i+1, c)
	}

	fmt.Fprintf(a.out, "\n%-5s %-16s %-16s %-9s %s\n", "KEY", "SOURCE", "TARGET", "BASELINE", "LABEL")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────")
	for _, l := range graph.Links {
		fmt.Fprintf(a.out, "%-5s %-16s %-16s %-9.0f %s\n", l.Key, l.Source, l.Target, l.Value, l.Label)
	}

	fmt.Fprintln(a.out, "\nPartitions:")
	for _, p := range graph.Partitions {
		fmt.Fprintf(a.out, "  %s (%s, base %.0f):", p.Group, p.Origin, p.Base)
		keys := make([]string, 0, len(p.Fractions))
		for k := range p.Fractions {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return nitrogen.FlowKey(keys[i]).Ordinal() < nitrogen.FlowKey(keys[j]).Ordinal()
		})
		for _, k := range keys {
			fmt.Fprintf(a.out, " %s=%.4f", k, p.Fractions[k])
		}
		fmt.Fprintln(a.out)
	}
	fmt.Fprintf(a.out, "\nAccessible pool target: %.0f kg N/yr\n\n", graph.AccessibleTarget)
	return nil
}

// Chart renders the circularity breakdown for one reduction as PNG.
func (a *ScenarioAdapter) Chart(ctx context.Context, reduction float64, width, height int) error {
	scenario, err := a.service.ApplyHousingReduction(ctx, primary.ScenarioRequest{Reduction: reduction})
	if err != nil {
		return err
	}
	return render.CircularityChart(a.out, scenario.Breakdown, width, height)
}

// Helper methods

func (a *ScenarioAdapter) writeKeyNumbers(s *primary.Scenario) {
	m := s.Metrics
	fmt.Fprintln(a.out, "\nKey Numbers (N, kg/year):")
	fmt.Fprintf(a.out, "  External N input = %.0f kg N/yr\n", m.Input)
	fmt.Fprintf(a.out, "  Circular (products) = %.0f kg N/yr (%.1f%%)\n", m.Circular, s.Breakdown.CircularPct)
	fmt.Fprintf(a.out, "  Accessible (soil available) = %.0f kg N/yr (%.1f%%)\n", m.Accessible, s.Breakdown.AccessiblePct)
	fmt.Fprintf(a.out, "  Lost (env + locked) = %.0f kg N/yr (%.1f%%)\n", m.Lost, s.Breakdown.LostPct)
	fmt.Fprintf(a.out, "  Total environmental N loss = %.0f kg N/yr\n", m.Environmental)
	fmt.Fprintf(a.out, "  Net stable soil N gain = %.0f kg N/yr\n", m.LockedStable)
	fmt.Fprintf(a.out, "  Housing N loss (F7) = %.0f kg N/yr\n", flowValue(s, "F7"))
	fmt.Fprintf(a.out, "  Excreted N to storage (F6) = %.0f kg N/yr\n", flowValue(s, "F6"))
}

func (a *ScenarioAdapter) writeFlows(flows []primary.Flow, showChange bool) {
	fmt.Fprintf(a.out, "\n%-5s %-30s %-10s %-10s\n", "KEY", "FLOW", "VALUE", "CHANGE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, f := range flows {
		change := ""
		if showChange && f.Changed() {
			d := f.Value - f.Baseline
			c := color.New(color.FgGreen)
			if d < 0 {
				c = color.New(color.FgYellow)
			}
			change = c.Sprintf("%+.1f", d)
		}
		fmt.Fprintf(a.out, "%-5s %-30s %-10.1f %s\n", f.Key, f.Label, f.Value, change)
	}
	fmt.Fprintln(a.out)
}

func flowValue(s *primary.Scenario, key string) float64 {
	if f := s.Flow(key); f != nil {
		return f.Value
	}
	return 0
}

