package nitrogen

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Metrics classifies the farm's nitrogen into circular, accessible and lost.
// All values are kg N/year and derived from a FlowTable, never stored.
type Metrics struct {
	Input         float64
	Circular      float64
	Accessible    float64
	Lost          float64
	Environmental float64
	LockedStable  float64
}

var (
	externalInputs = []FlowKey{FeedPurchasedToAnimals, FeederPigsToAnimals, FertilizerToSoil}
	productExports = []FlowKey{PigExport, CarcassToPigExport, CropsToExport}
)

// ComputeMetrics reduces a flow table to its circularity metrics.
// The table must carry exactly the flow graph's keys.
func ComputeMetrics(flows FlowTable) (Metrics, error) {
	for _, l := range links {
		if _, ok := flows[l.Key]; !ok {
			return Metrics{}, fmt.Errorf("%w: %s", ErrMissingFlowKey, l.Key)
		}
	}
	if len(flows) != len(links) {
		for _, k := range flows.Keys() {
			if !hasLink(k) {
				return Metrics{}, fmt.Errorf("%w: %s", ErrUnknownFlowKey, k)
			}
		}
	}

	input, err := flows.Sum(externalInputs...)
	if err != nil {
		return Metrics{}, err
	}
	circular, err := flows.Sum(productExports...)
	if err != nil {
		return Metrics{}, err
	}

	accessible := math.Min(AccessibleTarget, sumInto(flows, SoilAvailable))

	envLoss := floats.Sum(valuesOf(flows, keysInto(Environment)))

	// Net stable soil gain; negative only if soil-stable is a net source.
	locked := flows[ManureToSoilStable] + flows[Immobilization] - flows[Mineralization]

	return Metrics{
		Input:         input,
		Circular:      circular,
		Accessible:    accessible,
		Lost:          envLoss + locked,
		Environmental: envLoss,
		LockedStable:  locked,
	}, nil
}

func valuesOf(flows FlowTable, keys []FlowKey) []float64 {
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = flows[k]
	}
	return out
}

// Breakdown expresses metrics as percent of external input.
type Breakdown struct {
	CircularPct   float64
	AccessiblePct float64
	LostPct       float64
}

// Breakdown returns the percent-of-input view. Zero input yields zeros.
func (m Metrics) Breakdown() Breakdown {
	if m.Input == 0 {
		return Breakdown{}
	}
	return Breakdown{
		CircularPct:   m.Circular / m.Input * 100,
		AccessiblePct: m.Accessible / m.Input * 100,
		LostPct:       m.Lost / m.Input * 100,
	}
}

func hasLink(key FlowKey) bool {
	for _, l := range links {
		if l.Key == key {
			return true
		}
	}
	return false
}
