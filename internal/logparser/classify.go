package logparser

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ginjaninja78/fuelstats/internal/types"
)

// Fixed positions relative to the transaction marker.
const (
	dateTimeOffset = 1
	locationOffset = 2
	sessionOffset  = 3
)

// header is what every record shape reads from the first three lines.
type header struct {
	// marker is the line number of the transaction marker.
	marker int

	// end is the exclusive bound of the record: the next marker or EOF.
	end int

	id       string
	at       time.Time
	location types.Location
	terminal int
}

// classification is the closed set of record shapes a marker can resolve to:
// indoorPrepay, indoorFinal, outdoorSale or notFuel.
type classification interface {
	recordHeader() header
}

type indoorPrepay struct {
	header
	tag prepayTag
}

type indoorFinal struct {
	header
	tagLine   int
	reference string
}

type outdoorSale struct {
	header
}

// notFuel is a marker with no fuel tag before TOTAL DUE. The caller scans it
// for a stand-alone car wash instead.
type notFuel struct {
	header
}

func (h header) recordHeader() header { return h }

// prepayTag is one "Fuel Prepay Ref# Pump" authorization line.
type prepayTag struct {
	line      int
	reference string
	pump      int
}

// classify reads the marker, date/time and location lines of the record
// starting at marker line m and decides which shape it is. A record whose
// date or location line is unusable comes back as notFuel together with the
// error, so the caller can still look for a stand-alone wash.
func (d *day) classify(m, end int) (classification, error) {
	h := header{marker: m, end: end}

	line, _ := d.ix.Line(m)
	h.id = markerPattern.FindStringSubmatch(line)[1]

	dt, ok := d.line(m+dateTimeOffset, end)
	if !ok {
		return notFuel{h}, truncated(h, "date line")
	}
	at, err := parseDateTime(dt)
	if err != nil {
		return notFuel{h}, malformed(h, "date line", m+dateTimeOffset, dt)
	}
	h.at = at

	loc, ok := d.line(m+locationOffset, end)
	if !ok {
		return notFuel{h}, truncated(h, "location line")
	}
	lm := locationPattern.FindStringSubmatch(loc)
	if lm == nil {
		return notFuel{h}, malformed(h, "location line", m+locationOffset, loc)
	}
	h.location, _ = types.ParseLocation(lm[1])
	h.terminal, _ = strconv.Atoi(lm[2])

	if h.location == types.Outdoor {
		return outdoorSale{h}, nil
	}

	// With a session echo the tag may be either kind and the search starts
	// after the session line; without one only a finalization is possible.
	session, _ := d.line(m+sessionOffset, end)
	hasSession := sessionPattern.MatchString(session)
	from := m + sessionOffset
	if hasSession {
		from++
	}

	for n, l := range d.ix.Lines(from, end) {
		if hasSession {
			if pm := prepayTagPattern.FindStringSubmatch(l); pm != nil {
				if tag, ok := parsePrepayTag(n, pm); ok {
					return indoorPrepay{header: h, tag: tag}, nil
				}
			}
		}
		if fm := finalTagPattern.FindStringSubmatch(l); fm != nil {
			return indoorFinal{header: h, tagLine: n, reference: fm[1]}, nil
		}
		if totalDuePattern.MatchString(l) {
			break
		}
	}
	return notFuel{h}, nil
}

func parsePrepayTag(n int, m []string) (prepayTag, bool) {
	pump, err := strconv.Atoi(m[2])
	if err != nil {
		return prepayTag{}, false
	}
	return prepayTag{line: n, reference: m[1], pump: pump}, true
}

// parseDateTime reads MM/DD/YY HH:MM:SS. Two-digit years are in 2000-2099.
func parseDateTime(s string) (time.Time, error) {
	m := dateTimePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("not a date/time line: %q", s)
	}
	var v [6]int
	for i := range v {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, err
		}
		v[i] = n
	}
	month, dom, year, hour, minute, sec := v[0], v[1], v[2], v[3], v[4], v[5]
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || dom < 1 || dom > 31 || hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, fmt.Errorf("date/time out of range: %q", s)
	}
	return time.Date(year, time.Month(month), dom, hour, minute, sec, 0, time.UTC), nil
}
