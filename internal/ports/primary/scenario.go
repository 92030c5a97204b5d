package primary

import "context"

// ScenarioService defines the primary port for nitrogen scenario operations.
// Every call evaluates against the immutable baseline; no state is kept between calls.
type ScenarioService interface {
	// Baseline returns the unperturbed flow table and its metrics.
	Baseline(ctx context.Context) (*Scenario, error)

	// ApplyHousingReduction cascades a housing-loss reduction through the flow graph.
	ApplyHousingReduction(ctx context.Context, req ScenarioRequest) (*Scenario, error)

	// Sweep evaluates a range of reductions, ordered by reduction.
	Sweep(ctx context.Context, req SweepRequest) ([]*Scenario, error)

	// Graph describes compartments, links and derived partitions.
	Graph(ctx context.Context) (*Graph, error)
}

// ScenarioRequest contains parameters for evaluating one scenario.
type ScenarioRequest struct {
	Reduction float64 // Housing-loss reduction in percent, [0, 100]
}

// SweepRequest contains parameters for evaluating a range of reductions.
type SweepRequest struct {
	From float64
	To   float64
	Step float64
}

// Scenario is one evaluated flow table with its metrics.
type Scenario struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Reduction float64   `json:"reduction_pct" yaml:"reduction_pct"`
	Delta     float64   `json:"delta" yaml:"delta"` // Housing loss saved, kg N/yr
	Flows     []Flow    `json:"flows" yaml:"flows"`
	Metrics   Metrics   `json:"metrics" yaml:"metrics"`
	Breakdown Breakdown `json:"breakdown" yaml:"breakdown"`
}

// Flow returns the flow with the given key, or nil.
func (s *Scenario) Flow(key string) *Flow {
	for i := range s.Flows {
		if s.Flows[i].Key == key {
			return &s.Flows[i]
		}
	}
	return nil
}

// Flow is one edge of the flow graph with its magnitude.
type Flow struct {
	Key         string  `json:"key" yaml:"key"`
	Label       string  `json:"label" yaml:"label"`
	Source      string  `json:"source" yaml:"source"`
	Target      string  `json:"target" yaml:"target"`
	SourceIndex int     `json:"source_index" yaml:"source_index"`
	TargetIndex int     `json:"target_index" yaml:"target_index"`
	Value       float64 `json:"value" yaml:"value"`
	Baseline    float64 `json:"baseline" yaml:"baseline"`
}

// Changed reports whether the flow moved away from its baseline value.
func (f Flow) Changed() bool {
	return f.Value != f.Baseline
}

// Metrics is the circularity summary of a flow table, kg N/yr.
type Metrics struct {
	Input         float64 `json:"input" yaml:"input"`
	Circular      float64 `json:"circular" yaml:"circular"`
	Accessible    float64 `json:"accessible" yaml:"accessible"`
	Lost          float64 `json:"lost" yaml:"lost"`
	Environmental float64 `json:"environmental_loss" yaml:"environmental_loss"`
	LockedStable  float64 `json:"locked_stable" yaml:"locked_stable"`
}

// Breakdown expresses metrics as percent of external input.
type Breakdown struct {
	CircularPct   float64 `json:"circular_pct" yaml:"circular_pct"`
	AccessiblePct float64 `json:"accessible_pct" yaml:"accessible_pct"`
	LostPct       float64 `json:"lost_pct" yaml:"lost_pct"`
}

// Graph describes the static flow graph.
type Graph struct {
	Compartments     []string    `json:"compartments" yaml:"compartments"`
	Links            []Flow      `json:"links" yaml:"links"`
	Partitions       []Partition `json:"partitions" yaml:"partitions"`
	AccessibleTarget float64     `json:"accessible_target" yaml:"accessible_target"`
}

// Partition is a derived outflow split.
type Partition struct {
	Group     string             `json:"group" yaml:"group"`
	Origin    string             `json:"origin" yaml:"origin"`
	Base      float64            `json:"base" yaml:"base"`
	Fractions map[string]float64 `json:"fractions" yaml:"fractions"`
}
