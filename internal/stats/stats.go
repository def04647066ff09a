// =============================================================================
// Fuel Journal Stats - Daily Statistics
// =============================================================================
//
// This module turns one day's resolved transactions into the counts shown in
// one workbook column. Row order is fixed by Labels.
//
// VOLUME BINS (gallons, lower bound inclusive):
//   [0, 5)  [5, 10)  [10, 14)  [14, 19)  [19, inf)
//
// Fuel counts range over fuel sales only. Car-wash counts range over attached
// washes, placed at their sale's location, plus stand-alone washes.
//
// =============================================================================

package stats

import (
	"github.com/ginjaninja78/fuelstats/internal/logparser"
	"github.com/ginjaninja78/fuelstats/internal/types"
)

// Labels are the row labels of a month sheet, in row order.
var Labels = []string{
	"gallons < 5",
	"5 < gallons < 10",
	"10 < gallons < 14",
	"14 < gallons < 19",
	"gallons > 19",
	"Unleaded",
	"Plus",
	"Supreme",
	"Indoor",
	"Outdoor",
	"Credit card",
	"Debit card",
	"Cash",
	"Total carwash",
	"Regular",
	"Deluxe",
	"Super",
	"Regular indoor",
	"Regular outdoor",
	"Deluxe indoor",
	"Deluxe outdoor",
	"Super indoor",
	"Super outdoor",
}

// volumeBins are the exclusive upper bounds of the first four bins, in
// thousandths of a gallon.
var volumeBins = [...]types.Volume{5000, 10000, 14000, 19000}

// DayStats holds the counts of one day.
type DayStats struct {
	// Volume counts fuel sales per volume bin.
	Volume [5]int

	Unleaded int
	Plus     int
	Supreme  int

	Indoor  int
	Outdoor int

	Credit int
	Debit  int
	Cash   int

	// Washes counts washes by tier and location.
	Washes map[types.WashTier]map[types.Location]int
}

// Compute counts the transactions of day.
func Compute(day *logparser.DayResult) DayStats {
	s := DayStats{Washes: make(map[types.WashTier]map[types.Location]int)}

	for _, f := range day.Fuel {
		s.Volume[volumeBin(f.Volume)]++

		switch f.Grade {
		case types.Unleaded:
			s.Unleaded++
		case types.Plus:
			s.Plus++
		case types.Supreme:
			s.Supreme++
		}

		switch f.Location {
		case types.Indoor:
			s.Indoor++
		case types.Outdoor:
			s.Outdoor++
		}

		switch f.Tender {
		case types.Credit:
			s.Credit++
		case types.Debit:
			s.Debit++
		case types.Cash:
			s.Cash++
		}

		if f.CarWash != nil {
			s.addWash(f.CarWash.Tier, f.Location)
		}
	}

	for _, w := range day.CarWashes {
		s.addWash(w.Tier, w.Location)
	}

	return s
}

func (s *DayStats) addWash(tier types.WashTier, loc types.Location) {
	if s.Washes[tier] == nil {
		s.Washes[tier] = make(map[types.Location]int)
	}
	s.Washes[tier][loc]++
}

func volumeBin(v types.Volume) int {
	for i, upper := range volumeBins {
		if v < upper {
			return i
		}
	}
	return len(volumeBins)
}

// Wash returns the number of washes of tier at loc.
func (s DayStats) Wash(tier types.WashTier, loc types.Location) int {
	return s.Washes[tier][loc]
}

// WashTotal returns the number of washes of tier at either location.
func (s DayStats) WashTotal(tier types.WashTier) int {
	return s.Wash(tier, types.Indoor) + s.Wash(tier, types.Outdoor)
}

// Values returns the counts in Labels order.
func (s DayStats) Values() []int {
	regular := s.WashTotal(types.Regular)
	deluxe := s.WashTotal(types.Deluxe)
	super := s.WashTotal(types.Super)

	return []int{
		s.Volume[0], s.Volume[1], s.Volume[2], s.Volume[3], s.Volume[4],
		s.Unleaded, s.Plus, s.Supreme,
		s.Indoor, s.Outdoor,
		s.Credit, s.Debit, s.Cash,
		regular + deluxe + super,
		regular, deluxe, super,
		s.Wash(types.Regular, types.Indoor), s.Wash(types.Regular, types.Outdoor),
		s.Wash(types.Deluxe, types.Indoor), s.Wash(types.Deluxe, types.Outdoor),
		s.Wash(types.Super, types.Indoor), s.Wash(types.Super, types.Outdoor),
	}
}

// PumpCounts returns the number of fuel sales dispensed at each pump.
func PumpCounts(day *logparser.DayResult) map[int]int {
	counts := make(map[int]int)
	for _, f := range day.Fuel {
		counts[f.Pump]++
	}
	return counts
}
