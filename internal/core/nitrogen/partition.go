package nitrogen

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// PartitionGroup names a compartment outflow split preserved under perturbation.
type PartitionGroup string

const (
	GroupManureStorage PartitionGroup = "manure-storage"
	GroupSoilAvailable PartitionGroup = "soil-available"
	GroupCrops         PartitionGroup = "crops"
)

// ratioTolerance bounds how far a derived ratio set may drift from 1.
const ratioTolerance = 1e-9

var partitionGroups = []struct {
	group  PartitionGroup
	origin Compartment
	flows  []FlowKey
}{
	{GroupManureStorage, ManureStorage, []FlowKey{ManureToSoilAvailable, ManureToSoilStable, StorageLoss}},
	{GroupSoilAvailable, SoilAvailable, []FlowKey{CropUptake, FieldLoss, Immobilization}},
	{GroupCrops, Crops, []FlowKey{CropsToFeed, CropsToExport}},
}

// Ratio is one outflow's baseline share of its partition.
type Ratio struct {
	Flow  FlowKey
	Share float64 // baseline magnitude of Flow
}

// Partition is the fixed split of one compartment's outflow.
type Partition struct {
	Group  PartitionGroup
	Origin Compartment
	Base   float64 // baseline total outflow of the group
	Ratios []Ratio
}

// Fraction returns the fraction of the group total carried by key.
func (p Partition) Fraction(key FlowKey) float64 {
	for _, r := range p.Ratios {
		if r.Flow == key {
			return r.Share / p.Base
		}
	}
	return 0
}

// Fractions returns every fraction in ratio order.
func (p Partition) Fractions() []float64 {
	out := make([]float64, len(p.Ratios))
	for i, r := range p.Ratios {
		out[i] = r.Share / p.Base
	}
	return out
}

// Apply writes total's split into flows.
// Shares are applied as total*share/base, so a total equal to the baseline
// reproduces the baseline magnitudes exactly.
func (p Partition) Apply(flows FlowTable, total float64) {
	for _, r := range p.Ratios {
		flows[r.Flow] = total * r.Share / p.Base
	}
}

// PartitionRatioSet holds every derived partition. Immutable after derivation.
type PartitionRatioSet struct {
	partitions map[PartitionGroup]Partition
}

// Get returns the partition for group.
func (s PartitionRatioSet) Get(group PartitionGroup) (Partition, bool) {
	p, ok := s.partitions[group]
	return p, ok
}

// Groups returns the partitions in derivation order.
func (s PartitionRatioSet) Groups() []Partition {
	out := make([]Partition, 0, len(partitionGroups))
	for _, g := range partitionGroups {
		if p, ok := s.partitions[g.group]; ok {
			out = append(out, p)
		}
	}
	return out
}

// DeriveRatios computes the partition ratio set from a baseline table.
// A group whose baseline total is zero yields ErrDegenerateBaseline.
func DeriveRatios(table FlowTable) (PartitionRatioSet, error) {
	set := PartitionRatioSet{partitions: make(map[PartitionGroup]Partition, len(partitionGroups))}

	for _, g := range partitionGroups {
		shares := make([]float64, len(g.flows))
		for i, k := range g.flows {
			v, err := table.Get(k)
			if err != nil {
				return PartitionRatioSet{}, fmt.Errorf("partition %s: %w", g.group, err)
			}
			shares[i] = v
		}

		base := floats.Sum(shares)
		if base <= 0 {
			return PartitionRatioSet{}, fmt.Errorf("%w: %s outflow from %s totals %g",
				ErrDegenerateBaseline, g.group, g.origin, base)
		}

		p := Partition{Group: g.group, Origin: g.origin, Base: base}
		for i, k := range g.flows {
			p.Ratios = append(p.Ratios, Ratio{Flow: k, Share: shares[i]})
		}

		if sum := floats.Sum(p.Fractions()); !scalar.EqualWithinAbs(sum, 1, ratioTolerance) {
			return PartitionRatioSet{}, fmt.Errorf("%w: %s ratios sum to %g",
				ErrDegenerateBaseline, g.group, sum)
		}
		set.partitions[g.group] = p
	}

	return set, nil
}
