package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fuelstats/internal/logparser"
	"github.com/ginjaninja78/fuelstats/internal/types"
)

func fuel(vol types.Volume, grade types.Grade, loc types.Location, tender types.Tender, pump int) types.FuelTransaction {
	return types.FuelTransaction{
		Transaction: types.Transaction{Location: loc, Tender: tender},
		Volume:      vol,
		Grade:       grade,
		Pump:        pump,
	}
}

func TestVolumeBin(t *testing.T) {
	tests := []struct {
		vol  types.Volume
		want int
	}{
		{0, 0},
		{4999, 0},
		{5000, 1},
		{9999, 1},
		{10000, 2},
		{14000, 3},
		{18999, 3},
		{19000, 4},
		{75000, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, volumeBin(tt.vol), "volume %s", tt.vol)
	}
}

func TestCompute(t *testing.T) {
	sale := fuel(7500, types.Unleaded, types.Outdoor, types.Credit, 3)
	sale.CarWash = &types.CarWashTransaction{Tier: types.Regular, Transaction: types.Transaction{Location: types.Outdoor}}

	prepay := fuel(5123, types.Plus, types.Indoor, types.Cash, 2)
	prepay.CarWash = &types.CarWashTransaction{Tier: types.Super, Transaction: types.Transaction{Location: types.Indoor}}

	day := &logparser.DayResult{
		Fuel: []types.FuelTransaction{
			sale,
			prepay,
			fuel(21000, types.Supreme, types.Indoor, types.Debit, 4),
			fuel(3000, types.Unleaded, types.Indoor, types.Tender("VISA"), 2),
		},
		CarWashes: []types.CarWashTransaction{
			{Tier: types.Deluxe, Transaction: types.Transaction{Location: types.Indoor, Tender: types.Debit}},
			{Tier: types.Deluxe, Transaction: types.Transaction{Location: types.Indoor}},
		},
	}

	s := Compute(day)
	values := s.Values()
	require.Len(t, values, len(Labels))

	want := map[string]int{
		"gallons < 5":       1,
		"5 < gallons < 10":  2,
		"10 < gallons < 14": 0,
		"14 < gallons < 19": 0,
		"gallons > 19":      1,
		"Unleaded":          2,
		"Plus":              1,
		"Supreme":           1,
		"Indoor":            3,
		"Outdoor":           1,
		"Credit card":       1,
		"Debit card":        1,
		"Cash":              1,
		"Total carwash":     4,
		"Regular":           1,
		"Deluxe":            2,
		"Super":             1,
		"Regular indoor":    0,
		"Regular outdoor":   1,
		"Deluxe indoor":     2,
		"Deluxe outdoor":    0,
		"Super indoor":      1,
		"Super outdoor":     0,
	}
	for i, label := range Labels {
		assert.Equal(t, want[label], values[i], label)
	}
}

func TestCompute_Empty(t *testing.T) {
	values := Compute(&logparser.DayResult{}).Values()
	assert.Equal(t, make([]int, len(Labels)), values)
}

func TestPumpCounts(t *testing.T) {
	day := &logparser.DayResult{Fuel: []types.FuelTransaction{
		fuel(1000, types.Plus, types.Indoor, types.Cash, 2),
		fuel(1000, types.Plus, types.Outdoor, types.Credit, 2),
		fuel(1000, types.Plus, types.Outdoor, types.Credit, 5),
	}}
	assert.Equal(t, map[int]int{2: 2, 5: 1}, PumpCounts(day))
	assert.Empty(t, PumpCounts(&logparser.DayResult{}))
}
