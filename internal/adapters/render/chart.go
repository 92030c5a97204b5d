package render

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/example/ncirc/internal/ports/primary"
)

// Bar labels for the circularity breakdown.
const (
	LabelCircular   = "Circular (products)"
	LabelAccessible = "Accessible (soil available)"
	LabelLost       = "Lost (env + locked)"
)

// CircularityChart renders the percent-of-input breakdown as a PNG bar chart.
// Bars are clamped to the 0–100 axis.
func CircularityChart(w io.Writer, b primary.Breakdown, width, height int) error {
	bars := []chart.Value{
		{Label: LabelCircular, Value: clampPct(b.CircularPct)},
		{Label: LabelAccessible, Value: clampPct(b.AccessiblePct)},
		{Label: LabelLost, Value: clampPct(b.LostPct)},
	}

	graph := chart.BarChart{
		Title:      "Nitrogen Circularity Breakdown",
		Width:      width,
		Height:     height,
		BarWidth:   width / 6,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		YAxis: chart.YAxis{
			Name:  "Percent of external N input",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render circularity chart: %w", err)
	}
	return nil
}

func clampPct(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
