// Package nitrogen contains the pure nitrogen mass-balance model of a pig farm.
// This is the Functional Core: no I/O, only reference data and pure functions.
package nitrogen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Compartment is a node in the nitrogen flow graph.
type Compartment string

const (
	FeedPurchased Compartment = "FEED_PURCHASED"
	FeedHomegrown Compartment = "FEED_HOMEGROWN"
	Animals       Compartment = "ANIMALS"
	FeederPigsImp Compartment = "FEEDER_PIGS_IMP"
	FertPurchased Compartment = "FERT_PURCHASED"
	ManureStorage Compartment = "MANURE_STORAGE"
	SoilAvailable Compartment = "SOIL_AVAILABLE"
	SoilStable    Compartment = "SOIL_STABLE"
	Crops         Compartment = "CROPS"
	PigExports    Compartment = "PIG_EXPORTS"
	GrainExports  Compartment = "GRAIN_EXPORTS"
	Environment   Compartment = "ENVIRONMENT"
	Carcasses     Compartment = "CARCASSES"
)

// compartments is ordered C1..C13; the order is the diagram node index.
var compartments = []Compartment{
	FeedPurchased,
	FeedHomegrown,
	Animals,
	FeederPigsImp,
	FertPurchased,
	ManureStorage,
	SoilAvailable,
	SoilStable,
	Crops,
	PigExports,
	GrainExports,
	Environment,
	Carcasses,
}

// FlowKey identifies a flow (F1..F20).
type FlowKey string

const (
	FeedPurchasedToAnimals FlowKey = "F1"
	FeedHomegrownToAnimals FlowKey = "F2"
	FeederPigsToAnimals    FlowKey = "F3"
	FertilizerToSoil       FlowKey = "F4"
	PigExport              FlowKey = "F5"
	Excretion              FlowKey = "F6"
	HousingLoss            FlowKey = "F7"
	ManureToSoilAvailable  FlowKey = "F8"
	ManureToSoilStable     FlowKey = "F9"
	StorageLoss            FlowKey = "F10"
	CropUptake             FlowKey = "F11"
	FieldLoss              FlowKey = "F12"
	Immobilization         FlowKey = "F13"
	Mineralization         FlowKey = "F14"
	CropsToFeed            FlowKey = "F15"
	CropsToExport          FlowKey = "F16"
	Mortality              FlowKey = "F17"
	CarcassToSoil          FlowKey = "F18"
	CarcassToPigExport     FlowKey = "F19"
	CarcassToEnvironment   FlowKey = "F20"
)

// Link is a directed, labeled edge of the flow graph.
type Link struct {
	Source Compartment
	Target Compartment
	Key    FlowKey
	Label  string
}

var links = []Link{
	{FeedPurchased, Animals, FeedPurchasedToAnimals, "purchased feed"},
	{FeedHomegrown, Animals, FeedHomegrownToAnimals, "home-grown feed"},
	{FeederPigsImp, Animals, FeederPigsToAnimals, "feeder pigs"},
	{FertPurchased, SoilAvailable, FertilizerToSoil, "fertilizer"},
	{Animals, PigExports, PigExport, "pig export"},
	{Animals, ManureStorage, Excretion, "excretion"},
	{Animals, Environment, HousingLoss, "housing loss"},
	{ManureStorage, SoilAvailable, ManureToSoilAvailable, "manure to soil (available)"},
	{ManureStorage, SoilStable, ManureToSoilStable, "manure to soil (stable)"},
	{ManureStorage, Environment, StorageLoss, "storage loss"},
	{SoilAvailable, Crops, CropUptake, "crop uptake"},
	{SoilAvailable, Environment, FieldLoss, "field loss"},
	{SoilAvailable, SoilStable, Immobilization, "immobilization"},
	{SoilStable, SoilAvailable, Mineralization, "mineralization"},
	{Crops, FeedHomegrown, CropsToFeed, "crops to feed"},
	{Crops, GrainExports, CropsToExport, "grain export"},
	{Animals, Carcasses, Mortality, "mortality"},
	{Carcasses, SoilAvailable, CarcassToSoil, "carcass to soil"},
	{Carcasses, PigExports, CarcassToPigExport, "carcass to pig export"},
	{Carcasses, Environment, CarcassToEnvironment, "carcass to environment"},
}

// baseline magnitudes in kg N/year.
var baseline = FlowTable{
	FeedPurchasedToAnimals: 4800,
	FeedHomegrownToAnimals: 800,
	FeederPigsToAnimals:    300,
	FertilizerToSoil:       0,
	PigExport:              2400,
	Excretion:              2400,
	HousingLoss:            900,
	ManureToSoilAvailable:  1900,
	ManureToSoilStable:     200,
	StorageLoss:            300,
	CropUptake:             1300,
	FieldLoss:              300,
	Immobilization:         300,
	Mineralization:         0,
	CropsToFeed:            800,
	CropsToExport:          500,
	Mortality:              200,
	CarcassToSoil:          50,
	CarcassToPigExport:     100,
	CarcassToEnvironment:   50,
}

// AccessibleTarget caps the plant-available soil pool (kg N/year).
const AccessibleTarget = 50.0

// Compartments returns the compartments in diagram order.
func Compartments() []Compartment {
	out := make([]Compartment, len(compartments))
	copy(out, compartments)
	return out
}

// CompartmentIndex returns the diagram index of c, or -1 if c is unknown.
func CompartmentIndex(c Compartment) int {
	for i, known := range compartments {
		if known == c {
			return i
		}
	}
	return -1
}

// Links returns the flow graph's links ordered F1..F20.
func Links() []Link {
	out := make([]Link, len(links))
	copy(out, links)
	return out
}

// Baseline returns a fresh copy of the baseline flow table.
func Baseline() FlowTable {
	return baseline.Clone()
}

// FlowTable maps flow keys to magnitudes (kg N/year).
type FlowTable map[FlowKey]float64

// Clone returns an independent copy of the table.
func (t FlowTable) Clone() FlowTable {
	out := make(FlowTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Get returns the magnitude of key or ErrMissingFlowKey.
func (t FlowTable) Get(key FlowKey) (float64, error) {
	v, ok := t[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingFlowKey, key)
	}
	return v, nil
}

// Sum adds up the given flows.
func (t FlowTable) Sum(keys ...FlowKey) (float64, error) {
	var total float64
	for _, k := range keys {
		v, err := t.Get(k)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// Keys returns the table's keys in numeric order (F1, F2, ..., F20).
func (t FlowTable) Keys() []FlowKey {
	keys := make([]FlowKey, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Ordinal() < keys[j].Ordinal() })
	return keys
}

// Ordinal returns the numeric part of the key (F7 -> 7).
// Malformed keys sort after every valid one.
func (k FlowKey) Ordinal() int {
	n, err := strconv.Atoi(strings.TrimPrefix(string(k), "F"))
	if err != nil {
		return 1 << 30
	}
	return n
}

// ValidateGraph checks the link list against the compartment enumeration
// and that links and table share exactly the same key set.
func ValidateGraph(ls []Link, table FlowTable) error {
	seen := make(map[FlowKey]bool, len(ls))
	for _, l := range ls {
		if CompartmentIndex(l.Source) < 0 {
			return fmt.Errorf("flow %s: unknown source compartment %q", l.Key, l.Source)
		}
		if CompartmentIndex(l.Target) < 0 {
			return fmt.Errorf("flow %s: unknown target compartment %q", l.Key, l.Target)
		}
		if l.Source == l.Target {
			return fmt.Errorf("flow %s: self loop on %s", l.Key, l.Source)
		}
		if seen[l.Key] {
			return fmt.Errorf("flow %s: duplicate link", l.Key)
		}
		seen[l.Key] = true

		v, ok := table[l.Key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingFlowKey, l.Key)
		}
		if v < 0 {
			return fmt.Errorf("flow %s: negative magnitude %g", l.Key, v)
		}
	}
	for k := range table {
		if !seen[k] {
			return fmt.Errorf("flow %s: no link in graph", k)
		}
	}
	return nil
}
