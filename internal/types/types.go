// =============================================================================
// Fuel Journal Stats - Shared Types
// =============================================================================
//
// This package contains the domain model shared by the extraction engine, the
// aggregation stage, the workbook writer and the archive store. Keeping the
// types here avoids import cycles between those packages.
//
// MONEY AND MEASURES:
//   Amounts are held as integer cents and volumes/unit prices as integer
//   thousandths, exactly as they are printed by the terminal. Nothing in the
//   pipeline does float arithmetic on them; Float64 is only for display and
//   for the histogram bins.
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// ENUMERATIONS
// =============================================================================

// Location is where the sale was rung up.
type Location string

const (
	Indoor  Location = "Indoor"
	Outdoor Location = "Outdoor"
)

// ParseLocation maps the terminal's location tag to a Location.
func ParseLocation(s string) (Location, bool) {
	switch Location(s) {
	case Indoor, Outdoor:
		return Location(s), true
	}
	return "", false
}

// Tender is the payment method. The terminal prints free-form labels on
// indoor receipts, so a Tender may also hold a label outside the three known
// values; IsKnown reports whether it is one of them.
type Tender string

const (
	Cash   Tender = "Cash"
	Credit Tender = "Credit"
	Debit  Tender = "Debit"
)

// IsKnown reports whether t is Cash, Credit or Debit.
func (t Tender) IsKnown() bool {
	switch t {
	case Cash, Credit, Debit:
		return true
	}
	return false
}

// Grade is the fuel grade.
type Grade string

const (
	Unleaded Grade = "Unleaded"
	Plus     Grade = "Plus"
	Supreme  Grade = "Supreme"
)

// ParseGrade maps the receipt keyword (UNLEADED, PLUS, SUPREME) to a Grade.
func ParseGrade(keyword string) (Grade, bool) {
	switch strings.ToUpper(keyword) {
	case "UNLEADED":
		return Unleaded, true
	case "PLUS":
		return Plus, true
	case "SUPREME":
		return Supreme, true
	}
	return "", false
}

// WashTier is the car-wash package.
type WashTier string

const (
	Regular WashTier = "Regular"
	Deluxe  WashTier = "Deluxe"
	Super   WashTier = "Super"
)

// ParseWashTier maps the receipt label to a tier: SUP, DEL, or the "- W"
// family (any dash followed by W) for the regular wash.
func ParseWashTier(label string) (WashTier, bool) {
	switch {
	case label == "SUP":
		return Super, true
	case label == "DEL":
		return Deluxe, true
	case strings.HasPrefix(label, "-") && strings.HasSuffix(label, "W"):
		return Regular, true
	}
	return "", false
}

// =============================================================================
// FIXED-POINT QUANTITIES
// =============================================================================

// Cents is a monetary amount in cents.
type Cents int64

// ParseCents builds an amount from the dollars and cents digit groups of a
// receipt line. A single cents digit is read as tenths ("5.5" is 5.50).
func ParseCents(dollars, cents string) (Cents, error) {
	d, err := strconv.ParseInt(dollars, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid dollars %q: %w", dollars, err)
	}
	c, err := fixedFraction(cents, 2)
	if err != nil {
		return 0, fmt.Errorf("invalid cents %q: %w", cents, err)
	}
	v, err := scale(d, 100, c)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %s.%s: %w", dollars, cents, err)
	}
	return Cents(v), nil
}

// String renders the amount as dollars.cents.
func (c Cents) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, int64(c)/100, int64(c)%100)
}

// Float64 returns the amount in dollars.
func (c Cents) Float64() float64 { return float64(c) / 100 }

// Milli is a quantity in thousandths, used for gallons and per-gallon prices.
type Milli int64

// Volume is a dispensed volume in thousandths of a gallon.
type Volume = Milli

// UnitPrice is a per-gallon price in thousandths of a dollar.
type UnitPrice = Milli

// ParseMilli builds a quantity from integer and fractional digit groups.
// Fractions longer than three digits are truncated.
func ParseMilli(whole, frac string) (Milli, error) {
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", whole, err)
	}
	f, err := fixedFraction(frac, 3)
	if err != nil {
		return 0, fmt.Errorf("invalid fraction %q: %w", frac, err)
	}
	v, err := scale(w, 1000, f)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %s.%s: %w", whole, frac, err)
	}
	return Milli(v), nil
}

// String renders the quantity with three decimals.
func (m Milli) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%d.%03d", sign, int64(m)/1000, int64(m)%1000)
}

// Float64 returns the quantity as a float.
func (m Milli) Float64() float64 { return float64(m) / 1000 }

// ErrOutOfRange means a fixed-point quantity does not fit in an int64.
var ErrOutOfRange = errors.New("value out of range")

// scale returns whole*unit + frac, failing instead of overflowing.
func scale(whole, unit, frac int64) (int64, error) {
	limit := (math.MaxInt64 - frac) / unit
	if whole > limit || whole < -limit {
		return 0, ErrOutOfRange
	}
	return whole*unit + frac, nil
}

// fixedFraction right-pads or truncates a digit string to places digits.
func fixedFraction(digits string, places int) (int64, error) {
	if len(digits) > places {
		digits = digits[:places]
	}
	for len(digits) < places {
		digits += "0"
	}
	return strconv.ParseInt(digits, 10, 64)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// Transaction holds the fields common to every resolved record.
type Transaction struct {
	// ID is the log-assigned transaction number. Unique within a day only.
	ID string

	// Time is the receipt date and time of day.
	Time time.Time

	// Amount is the sale amount.
	Amount Cents

	Location Location

	// Tender is empty for a stand-alone wash without a card tender line;
	// the aggregation stage reads that as cash.
	Tender Tender
}

// FuelTransaction is a resolved fuel sale. Indoor prepays are only emitted
// after they have been merged with their finalization.
type FuelTransaction struct {
	Transaction

	Volume    Volume
	Grade     Grade
	Pump      int
	UnitPrice UnitPrice

	// IndoorPrepay is true when the sale was authorized indoors before pumping.
	IndoorPrepay bool

	// Reference is the prepay reference number that linked the two halves.
	// It carries no meaning once the sale is resolved.
	Reference string

	// CarWash is a wash rung up on the same receipt, if any.
	CarWash *CarWashTransaction
}

// CarWashTransaction is a car-wash line item, attached or stand-alone.
type CarWashTransaction struct {
	Transaction

	Tier WashTier
}
