// Package render turns scenario results into diagram and chart payloads.
// Renderers consume only primary port values.
package render

import "github.com/example/ncirc/internal/ports/primary"

// SankeyTitle is the diagram title shown by dashboard clients.
const SankeyTitle = "Nitrogen Flows (kg N/year) – Baseline / Scenario"

// Sankey is a node/link payload ready for a Sankey diagram widget.
type Sankey struct {
	Title     string       `json:"title"`
	Reduction float64      `json:"reduction_pct"`
	Nodes     []string     `json:"nodes"`
	Links     []SankeyLink `json:"links"`
}

// SankeyLink is one diagram edge, addressed by node index.
type SankeyLink struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
}

// NewSankey maps a scenario's flows onto diagram edges.
// nodes must be the compartment list in index order.
func NewSankey(nodes []string, scenario *primary.Scenario) Sankey {
	s := Sankey{
		Title:     SankeyTitle,
		Reduction: scenario.Reduction,
		Nodes:     append([]string(nil), nodes...),
		Links:     make([]SankeyLink, 0, len(scenario.Flows)),
	}
	for _, f := range scenario.Flows {
		s.Links = append(s.Links, SankeyLink{
			Source: f.SourceIndex,
			Target: f.TargetIndex,
			Key:    f.Key,
			Label:  f.Label,
			Value:  f.Value,
		})
	}
	return s
}
