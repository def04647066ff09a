package logparser

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/fuelstats/internal/types"
)

const timeLayout = "2006-01-02 15:04:05"

// WriteText renders res as plain text, one transaction per line. The output
// depends only on res, so two extractions of the same log render the same.
func WriteText(w io.Writer, res *DayResult) error {
	tw := &textWriter{w: w}

	tw.printf("fuel transactions: %d\n", len(res.Fuel))
	for _, f := range res.Fuel {
		tw.printf("  %s %s %-7s pump %-2d %-8s %8s gal @ %s %7s %s",
			f.ID, f.Time.Format(timeLayout), f.Location, f.Pump, f.Grade,
			f.Volume, f.UnitPrice, f.Amount, tenderText(f.Tender))
		if f.IndoorPrepay {
			tw.printf(" prepay ref %s", f.Reference)
		}
		tw.printf("\n")
		if f.CarWash != nil {
			tw.printf("    + car wash %-7s %7s\n", f.CarWash.Tier, f.CarWash.Amount)
		}
	}

	tw.printf("car washes: %d\n", len(res.CarWashes))
	for _, c := range res.CarWashes {
		tw.printf("  %s %s %-7s %-7s %7s %s\n",
			c.ID, c.Time.Format(timeLayout), locationText(c.Location), c.Tier, c.Amount, tenderText(c.Tender))
	}

	tw.printf("diagnostics: %d\n", len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		tw.printf("  %s\n", d)
	}
	return tw.err
}

func tenderText(t types.Tender) string {
	if t == "" {
		return "-"
	}
	return string(t)
}

func locationText(l types.Location) string {
	if l == "" {
		return "-"
	}
	return string(l)
}

// textWriter keeps the first write error so WriteText can check once.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

// =============================================================================
// YAML REPORT
// =============================================================================

// DayReport is the YAML form of a DayResult. Amounts and quantities are
// rendered as decimal strings so no precision is lost.
type DayReport struct {
	Source      string       `yaml:"source,omitempty"`
	Date        string       `yaml:"date,omitempty"`
	Markers     int          `yaml:"markers"`
	Fuel        []FuelReport `yaml:"fuel_transactions"`
	CarWashes   []WashReport `yaml:"car_washes"`
	Diagnostics []Diagnostic `yaml:"diagnostics"`
}

// FuelReport is one fuel sale of a DayReport.
type FuelReport struct {
	ID        string      `yaml:"id"`
	Time      string      `yaml:"time"`
	Location  string      `yaml:"location"`
	Pump      int         `yaml:"pump"`
	Grade     string      `yaml:"grade"`
	Volume    string      `yaml:"volume"`
	UnitPrice string      `yaml:"unit_price"`
	Amount    string      `yaml:"amount"`
	Tender    string      `yaml:"tender"`
	Reference string      `yaml:"prepay_reference,omitempty"`
	CarWash   *WashReport `yaml:"car_wash,omitempty"`
}

// WashReport is one car wash of a DayReport.
type WashReport struct {
	ID       string `yaml:"id,omitempty"`
	Time     string `yaml:"time,omitempty"`
	Location string `yaml:"location,omitempty"`
	Tier     string `yaml:"tier"`
	Amount   string `yaml:"amount"`
	Tender   string `yaml:"tender,omitempty"`
}

// NewDayReport converts res for YAML output.
func NewDayReport(res *DayResult) DayReport {
	r := DayReport{
		Source:      res.Source,
		Markers:     res.Markers,
		Fuel:        make([]FuelReport, 0, len(res.Fuel)),
		CarWashes:   make([]WashReport, 0, len(res.CarWashes)),
		Diagnostics: res.Diagnostics,
	}
	if !res.Date.IsZero() {
		r.Date = res.Date.Format("2006-01-02")
	}
	if r.Diagnostics == nil {
		r.Diagnostics = []Diagnostic{}
	}

	for _, f := range res.Fuel {
		fr := FuelReport{
			ID:        f.ID,
			Time:      f.Time.Format(timeLayout),
			Location:  string(f.Location),
			Pump:      f.Pump,
			Grade:     string(f.Grade),
			Volume:    f.Volume.String(),
			UnitPrice: f.UnitPrice.String(),
			Amount:    f.Amount.String(),
			Tender:    string(f.Tender),
		}
		if f.IndoorPrepay {
			fr.Reference = f.Reference
		}
		if f.CarWash != nil {
			fr.CarWash = &WashReport{Tier: string(f.CarWash.Tier), Amount: f.CarWash.Amount.String()}
		}
		r.Fuel = append(r.Fuel, fr)
	}

	for _, c := range res.CarWashes {
		r.CarWashes = append(r.CarWashes, WashReport{
			ID:       c.ID,
			Time:     c.Time.Format(timeLayout),
			Location: string(c.Location),
			Tier:     string(c.Tier),
			Amount:   c.Amount.String(),
			Tender:   string(c.Tender),
		})
	}
	return r
}

// WriteYAML renders res as a YAML document.
func WriteYAML(w io.Writer, res *DayResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDayReport(res)); err != nil {
		return fmt.Errorf("failed to encode day report: %w", err)
	}
	return enc.Close()
}
