package logparser

import (
	"github.com/ginjaninja78/fuelstats/internal/types"
)

// washItem is a matched CAR WASH line.
type washItem struct {
	line   int
	tier   types.WashTier
	amount types.Cents
}

// findWash scans [from, end) for a car-wash line item, stopping at TOTAL DUE.
// Negative amounts (refunds, comps) are adjustments, not sales, and report
// no wash.
func (d *day) findWash(h header, from, end int) (washItem, bool) {
	for n, l := range d.ix.Lines(from, end) {
		if m := carWashPattern.FindStringSubmatch(l); m != nil {
			tier, ok := types.ParseWashTier(m[1])
			if !ok {
				return washItem{}, false
			}
			amount, err := types.ParseCents(m[3], m[4])
			if err != nil {
				return washItem{}, false
			}
			if m[2] == "-" {
				amount = -amount
			}
			if amount < 0 {
				d.log.Debug("transaction %s: ignoring wash adjustment %s at line %d", h.id, amount, n+1)
				return washItem{}, false
			}
			return washItem{line: n, tier: tier, amount: amount}, true
		}
		if totalDuePattern.MatchString(l) {
			break
		}
	}
	return washItem{}, false
}

// attachedWash returns the wash rung up on the same receipt as a fuel sale.
// Records never overlap, so a wash line is seen by exactly one marker and
// cannot be counted both attached and stand-alone.
func (d *day) attachedWash(h header) *types.CarWashTransaction {
	w, ok := d.findWash(h, h.marker+1, h.end)
	if !ok {
		return nil
	}
	return &types.CarWashTransaction{
		Transaction: types.Transaction{
			ID:       h.id,
			Time:     h.at,
			Amount:   w.amount,
			Location: h.location,
		},
		Tier: w.tier,
	}
}

// standaloneWash handles a marker that is not a fuel sale. The tender is the
// card line after the wash item when there is one; otherwise it stays unset,
// which the aggregation stage counts as cash.
func (d *day) standaloneWash(c notFuel) (types.CarWashTransaction, bool) {
	h := c.header
	w, ok := d.findWash(h, h.marker+1, h.end)
	if !ok {
		return types.CarWashTransaction{}, false
	}
	tender, _, _ := d.cardTender(w.line+1, h.end)
	return types.CarWashTransaction{
		Transaction: types.Transaction{
			ID:       h.id,
			Time:     h.at,
			Amount:   w.amount,
			Location: h.location,
			Tender:   tender,
		},
		Tier: w.tier,
	}, true
}
