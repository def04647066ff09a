package logparser

import (
	"github.com/ginjaninja78/fuelstats/internal/types"
)

// outdoorFuelOffset is the distance from the location tag to the fuel grade
// line of an outdoor sale.
const outdoorFuelOffset = 3

// extractOutdoor reads a pay-at-the-pump sale. The grade and volume lines sit
// at fixed offsets; the card tender line follows somewhere below them.
// Outdoor sales are always card sales, so a missing tender line fails the
// record.
func (d *day) extractOutdoor(c outdoorSale) (types.FuelTransaction, error) {
	h := c.header

	fuelLine := h.marker + locationOffset + outdoorFuelOffset
	l, ok := d.line(fuelLine, h.end)
	if !ok {
		return types.FuelTransaction{}, truncated(h, "fuel grade")
	}
	fm := fuelTypePattern.FindStringSubmatch(l)
	if fm == nil {
		return types.FuelTransaction{}, malformed(h, "fuel grade", fuelLine, l)
	}
	grade, _ := types.ParseGrade(fm[1])
	amount, err := types.ParseCents(fm[2], fm[3])
	if err != nil {
		return types.FuelTransaction{}, malformed(h, "fuel amount", fuelLine, l)
	}

	volumeLine := fuelLine + volumeOffset
	vol, price, err := d.volumeAt(h, volumeLine)
	if err != nil {
		return types.FuelTransaction{}, err
	}

	tender, _, ok := d.cardTender(volumeLine+1, h.end)
	if !ok {
		return types.FuelTransaction{}, truncated(h, "card tender")
	}

	return types.FuelTransaction{
		Transaction: types.Transaction{
			ID:       h.id,
			Time:     h.at,
			Amount:   amount,
			Location: types.Outdoor,
			Tender:   tender,
		},
		Volume:    vol,
		Grade:     grade,
		Pump:      h.terminal,
		UnitPrice: price,
		CarWash:   d.attachedWash(h),
	}, nil
}

// cardTender finds the first "Credit|Debit Card" line in [from, end).
func (d *day) cardTender(from, end int) (types.Tender, int, bool) {
	for n, l := range d.ix.Lines(from, end) {
		if m := cardTenderPattern.FindStringSubmatch(l); m != nil {
			return types.Tender(m[1]), n, true
		}
	}
	return "", -1, false
}
