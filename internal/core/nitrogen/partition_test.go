package nitrogen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestDeriveRatios_Baseline(t *testing.T) {
	set, err := DeriveRatios(Baseline())
	require.NoError(t, err)

	tests := []struct {
		group PartitionGroup
		base  float64
		want  map[FlowKey]float64
	}{
		{
			group: GroupManureStorage,
			base:  2400,
			want: map[FlowKey]float64{
				ManureToSoilAvailable: 1900.0 / 2400,
				ManureToSoilStable:    200.0 / 2400,
				StorageLoss:           300.0 / 2400,
			},
		},
		{
			group: GroupSoilAvailable,
			base:  1900,
			want: map[FlowKey]float64{
				CropUptake:     1300.0 / 1900,
				FieldLoss:      300.0 / 1900,
				Immobilization: 300.0 / 1900,
			},
		},
		{
			group: GroupCrops,
			base:  1300,
			want: map[FlowKey]float64{
				CropsToFeed:   800.0 / 1300,
				CropsToExport: 500.0 / 1300,
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.group), func(t *testing.T) {
			p, ok := set.Get(tt.group)
			require.True(t, ok)
			assert.Equal(t, tt.base, p.Base)
			for k, want := range tt.want {
				assert.InDelta(t, want, p.Fraction(k), 1e-12, "fraction of %s", k)
			}
			assert.InDelta(t, 1.0, floats.Sum(p.Fractions()), 1e-9)
		})
	}

	assert.Len(t, set.Groups(), 3)
}

func TestDeriveRatios_DegenerateBaseline(t *testing.T) {
	table := Baseline()
	table[CropsToFeed] = 0
	table[CropsToExport] = 0

	_, err := DeriveRatios(table)
	require.ErrorIs(t, err, ErrDegenerateBaseline)
	assert.Contains(t, err.Error(), "crops outflow from CROPS totals 0")
}

func TestDeriveRatios_MissingKey(t *testing.T) {
	table := Baseline()
	delete(table, FieldLoss)

	_, err := DeriveRatios(table)
	require.ErrorIs(t, err, ErrMissingFlowKey)
}

func TestPartitionApply_BaselineTotalIsExact(t *testing.T) {
	set, err := DeriveRatios(Baseline())
	require.NoError(t, err)

	flows := FlowTable{}
	for _, p := range set.Groups() {
		p.Apply(flows, p.Base)
	}
	b := Baseline()
	for k, v := range flows {
		assert.Equal(t, b[k], v, "flow %s", k)
	}
}

func TestPartitionFraction_UnknownFlow(t *testing.T) {
	set, err := DeriveRatios(Baseline())
	require.NoError(t, err)
	p, _ := set.Get(GroupCrops)
	assert.Zero(t, p.Fraction(HousingLoss))
}

func TestNewModel_DegenerateBaseline(t *testing.T) {
	table := Baseline()
	table[ManureToSoilAvailable] = 0
	table[ManureToSoilStable] = 0
	table[StorageLoss] = 0

	m, err := NewModel(table)
	assert.Nil(t, m)
	require.ErrorIs(t, err, ErrDegenerateBaseline)
}
