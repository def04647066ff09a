// =============================================================================
// Fuel Journal Stats - Day Extraction
// =============================================================================
//
// Extraction of one day's journal runs in three passes over the same Index:
//   1. index lines and transaction markers
//   2. classify and extract each marker's record in log order
//   3. reconcile indoor prepays with their finalizations
//
// Each day owns its Index and reconciler; nothing is shared between days, so
// callers may extract several days concurrently.
//
// =============================================================================

package logparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/ginjaninja78/fuelstats/internal/logger"
	"github.com/ginjaninja78/fuelstats/internal/types"
)

// DayResult is the output of one day's extraction.
type DayResult struct {
	// Source is the path of the day file, empty for in-memory input.
	Source string

	// Date is the business day; set by the caller that knows the file name.
	Date time.Time

	// Fuel holds resolved fuel sales in log order. Attached washes hang off
	// their sale.
	Fuel []types.FuelTransaction

	// CarWashes holds stand-alone washes only.
	CarWashes []types.CarWashTransaction

	Diagnostics []Diagnostic

	// Markers is the number of transaction markers found.
	Markers int
}

// Extractor runs the extraction engine on day logs. It holds only
// configuration and is safe for concurrent use.
type Extractor struct {
	log      logger.Logger
	encoding string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(e *Extractor) { e.log = l }
}

// WithEncoding sets the character encoding of day files read by ExtractFile.
// Any WHATWG encoding label is accepted; the default is UTF-8.
func WithEncoding(name string) Option {
	return func(e *Extractor) { e.encoding = name }
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{log: logger.NewNop(), encoding: "utf-8"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFile extracts the day log at path.
//
// RETURNS:
//   - *DayResult: always non-nil. On a fatal error it holds no transactions
//     and a single fatal diagnostic.
//   - error: a *DayError when the day could not be extracted at all.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*DayResult, error) {
	fail := func(err error) (*DayResult, error) {
		derr := &DayError{Path: path, Err: err}
		return &DayResult{Source: path, Diagnostics: []Diagnostic{FatalDiagnostic(derr)}}, derr
	}

	rc, err := openDay(path, e.encoding)
	if err != nil {
		return fail(err)
	}
	defer rc.Close()

	ix, err := Build(rc)
	if err != nil {
		return fail(err)
	}

	res, err := e.ExtractIndex(ctx, ix)
	res.Source = path
	var derr *DayError
	if errors.As(err, &derr) {
		derr.Path = path
		res.Diagnostics = []Diagnostic{FatalDiagnostic(derr)}
	}
	return res, err
}

// Extract reads a day log from r. r is expected to be UTF-8.
func (e *Extractor) Extract(ctx context.Context, r io.Reader) (*DayResult, error) {
	ix, err := Build(r)
	if err != nil {
		derr := &DayError{Err: err}
		return &DayResult{Diagnostics: []Diagnostic{FatalDiagnostic(derr)}}, derr
	}
	return e.ExtractIndex(ctx, ix)
}

// ExtractIndex extracts an already indexed day log.
func (e *Extractor) ExtractIndex(ctx context.Context, ix *Index) (*DayResult, error) {
	d := &day{
		ix:  ix,
		log: e.log,
		rec: newReconciler(),
		res: &DayResult{Markers: len(ix.Markers())},
	}

	for i, m := range ix.Markers() {
		if err := ctx.Err(); err != nil {
			derr := &DayError{Err: err}
			return &DayResult{Diagnostics: []Diagnostic{FatalDiagnostic(derr)}}, derr
		}

		end := ix.window(i)
		d.log.Debug("marker at line %d, record lines %d-%d", m+1, m+1, end)

		// An unusable header still leaves a notFuel record to scan for a wash.
		c, err := d.classify(m, end)
		if xerr := d.extract(c); err == nil {
			err = xerr
		}
		if err == nil {
			continue
		}

		// A log that ends inside its first record has nothing usable.
		if i == 0 && end == ix.Len() && errors.Is(err, ErrTruncated) {
			derr := &DayError{Err: err}
			return &DayResult{Diagnostics: []Diagnostic{FatalDiagnostic(derr)}}, derr
		}
		d.report(recordDiagnostic(err))
	}

	for _, p := range d.rec.unfinalized() {
		d.report(Diagnostic{
			Severity:  SeverityWarning,
			Kind:      KindUnfinalizedPrepay,
			Line:      p.marker + 1,
			TxnID:     p.id,
			Reference: p.tag.reference,
			Message:   fmt.Sprintf("prepay of %s on pump %d was never finalized", p.amount, p.tag.pump),
		})
	}

	return d.res, nil
}

// day is the per-file extraction state.
type day struct {
	ix  *Index
	log logger.Logger
	rec *reconciler
	res *DayResult
}

// extract runs the extractor for c's record shape.
func (d *day) extract(c classification) error {
	switch c := c.(type) {
	case indoorPrepay:
		p, err := d.extractPrepay(c)
		if err != nil {
			return err
		}
		if old, replaced := d.rec.addPrepay(p); replaced {
			d.report(Diagnostic{
				Severity:  SeverityInfo,
				Kind:      KindSupersededPrepay,
				Line:      p.marker + 1,
				TxnID:     p.id,
				Reference: p.tag.reference,
				Message:   fmt.Sprintf("replaces pending prepay from transaction %s", old.id),
			})
		}

	case indoorFinal:
		f, err := d.extractFinal(c)
		if err != nil {
			return err
		}
		txn, err := d.rec.finalize(f)
		switch {
		case errors.Is(err, ErrDuplicateFinalization):
			d.report(Diagnostic{
				Severity:  SeverityInfo,
				Kind:      KindDuplicateFinalization,
				Line:      f.marker + 1,
				TxnID:     f.id,
				Reference: f.reference,
				Message:   "finalization skipped, reference already resolved",
			})
		case errors.Is(err, ErrMissingPrepay):
			d.report(Diagnostic{
				Severity:  SeverityWarning,
				Kind:      KindMissingTransaction,
				Line:      f.marker + 1,
				TxnID:     f.id,
				Reference: f.reference,
				Message:   "finalization has no matching prepay",
			})
		case err == nil:
			d.res.Fuel = append(d.res.Fuel, txn)
		}

	case outdoorSale:
		txn, err := d.extractOutdoor(c)
		if err != nil {
			return err
		}
		d.res.Fuel = append(d.res.Fuel, txn)

	case notFuel:
		if w, ok := d.standaloneWash(c); ok {
			d.res.CarWashes = append(d.res.CarWashes, w)
		}

	default:
		panic(fmt.Sprintf("logparser: unhandled record shape %T", c))
	}
	return nil
}

// line returns line n if it lies inside the record ending at end.
func (d *day) line(n, end int) (string, bool) {
	if n >= end {
		return "", false
	}
	return d.ix.Line(n)
}

// find returns the first line in [from, end) matching re.
func (d *day) find(from, end int, re *regexp.Regexp) (int, bool) {
	for n, l := range d.ix.Lines(from, end) {
		if re.MatchString(l) {
			return n, true
		}
	}
	return -1, false
}

func (d *day) report(dg Diagnostic) {
	d.res.Diagnostics = append(d.res.Diagnostics, dg)
	if dg.Severity == SeverityInfo {
		d.log.Debug("%s", dg)
		return
	}
	d.log.Warn("%s", dg)
}
