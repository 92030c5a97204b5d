package nitrogen

import (
	"fmt"
	"math"
)

// Model is the immutable cascade configuration: a validated baseline table
// and the partition ratios derived from it. Safe for concurrent use.
type Model struct {
	baseline FlowTable
	ratios   PartitionRatioSet
}

// NewModel validates table against the flow graph and derives its partition ratios.
func NewModel(table FlowTable) (*Model, error) {
	if err := ValidateGraph(links, table); err != nil {
		return nil, fmt.Errorf("invalid baseline: %w", err)
	}
	ratios, err := DeriveRatios(table)
	if err != nil {
		return nil, err
	}
	return &Model{baseline: table.Clone(), ratios: ratios}, nil
}

// DefaultModel builds the model over the farm's reference baseline.
func DefaultModel() (*Model, error) {
	return NewModel(Baseline())
}

// Baseline returns a copy of the model's baseline table.
func (m *Model) Baseline() FlowTable {
	return m.baseline.Clone()
}

// Ratios returns the model's partition ratio set.
func (m *Model) Ratios() PartitionRatioSet {
	return m.ratios
}

// ApplyHousingReduction cuts housing loss by percent and cascades the saved
// nitrogen downstream. The returned table is a new copy of the baseline.
//
// Mineralization (soil-stable to soil-available) stays at its baseline value;
// the soil cycle is treated as steady state rather than solved.
func (m *Model) ApplyHousingReduction(percent float64) (FlowTable, error) {
	if err := CanApplyHousingReduction(percent).Error(); err != nil {
		return nil, err
	}

	flows := m.baseline.Clone()

	// Animals: what no longer leaves as housing loss leaves as excretion.
	flows[HousingLoss] = m.baseline[HousingLoss] * (1 - percent/100)
	delta := m.baseline[HousingLoss] - flows[HousingLoss]
	flows[Excretion] = m.baseline[Excretion] + delta

	m.mustPartition(GroupManureStorage).Apply(flows, flows[Excretion])

	// Soil available: park up to AccessibleTarget, split the remainder.
	inflow := sumInto(flows, SoilAvailable)
	accessible := math.Min(AccessibleTarget, inflow)
	remainder := math.Max(inflow-accessible, 0)
	m.mustPartition(GroupSoilAvailable).Apply(flows, remainder)

	m.mustPartition(GroupCrops).Apply(flows, flows[CropUptake])

	return flows, nil
}

// Scenario is one evaluated perturbation.
type Scenario struct {
	Percent float64
	Delta   float64 // housing loss saved, kg N/year
	Flows   FlowTable
	Metrics Metrics
}

// Run applies the reduction and computes the resulting metrics.
func (m *Model) Run(percent float64) (Scenario, error) {
	flows, err := m.ApplyHousingReduction(percent)
	if err != nil {
		return Scenario{}, err
	}
	metrics, err := ComputeMetrics(flows)
	if err != nil {
		return Scenario{}, err
	}
	return Scenario{
		Percent: percent,
		Delta:   m.baseline[HousingLoss] - flows[HousingLoss],
		Flows:   flows,
		Metrics: metrics,
	}, nil
}

func (m *Model) mustPartition(g PartitionGroup) Partition {
	p, ok := m.ratios.Get(g)
	if !ok {
		// NewModel derives every group.
		panic(fmt.Sprintf("nitrogen: partition %s not derived", g))
	}
	return p
}

// keysInto returns the flows whose target is c, in link order.
func keysInto(c Compartment) []FlowKey {
	var keys []FlowKey
	for _, l := range links {
		if l.Target == c {
			keys = append(keys, l.Key)
		}
	}
	return keys
}

// sumInto adds up the flows into c. Keys must be present.
func sumInto(flows FlowTable, c Compartment) float64 {
	var total float64
	for _, k := range keysInto(c) {
		total += flows[k]
	}
	return total
}
