package logparser

import (
	"github.com/ginjaninja78/fuelstats/internal/types"
)

// volumeOffset is the distance from a fuel grade line to its volume line.
const volumeOffset = 2

// finalRecord is the settlement half of an indoor prepay: what was actually
// pumped. Amount, tender and pump come from the matching prepay.
type finalRecord struct {
	header
	reference string
	grade     types.Grade
	volume    types.Volume
	price     types.UnitPrice
}

// extractFinal reads the first fuel grade line after the finalization tag
// and the volume line two below it.
func (d *day) extractFinal(c indoorFinal) (finalRecord, error) {
	f := finalRecord{header: c.header, reference: c.reference}

	fuelLine := -1
	var fm []string
	for n, l := range d.ix.Lines(c.tagLine+1, c.end) {
		if fm = fuelTypePattern.FindStringSubmatch(l); fm != nil {
			fuelLine = n
			break
		}
		if totalDuePattern.MatchString(l) {
			break
		}
	}
	if fuelLine < 0 {
		return f, truncated(f.header, "fuel grade")
	}
	f.grade, _ = types.ParseGrade(fm[1])

	vol, price, err := d.volumeAt(f.header, fuelLine+volumeOffset)
	if err != nil {
		return f, err
	}
	f.volume, f.price = vol, price
	return f, nil
}

// volumeAt parses the "Vol gallons@ price" line at n.
func (d *day) volumeAt(h header, n int) (types.Volume, types.UnitPrice, error) {
	l, ok := d.line(n, h.end)
	if !ok {
		return 0, 0, truncated(h, "volume")
	}
	vm := volumePattern.FindStringSubmatch(l)
	if vm == nil {
		return 0, 0, malformed(h, "volume", n, l)
	}
	vol, err := types.ParseMilli(vm[1], vm[2])
	if err != nil {
		return 0, 0, malformed(h, "volume", n, l)
	}
	price, err := types.ParseMilli(vm[3], vm[4])
	if err != nil {
		return 0, 0, malformed(h, "unit price", n, l)
	}
	return vol, price, nil
}
