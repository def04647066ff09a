// =============================================================================
// Fuel Journal Stats - Validation
// =============================================================================
//
// This module checks that resolved transactions are complete enough to be
// counted by the aggregation stage:
//   - fuel sales need a grade, a tender, a pump, and positive volume and amount
//   - every wash, attached or stand-alone, needs a tier
//
// ERROR HANDLING:
//   - Violations are collected, never thrown
//   - Every violation is a warning: the record is still counted
//   - Warnings are appended to the day's diagnostics so they land in the
//     month report next to the extraction findings
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/fuelstats/internal/logparser"
	"github.com/ginjaninja78/fuelstats/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	// Severity is "error" or "warning". The checks in this package only
	// produce warnings.
	Severity string

	// Field is the name of the field that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// TxnID is the transaction number of the offending record.
	TxnID string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Transaction %s, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.TxnID,
		e.Field,
		e.Message,
		e.Value,
	)
}

// Diagnostic converts the error into a day diagnostic.
func (e *ValidationError) Diagnostic() logparser.Diagnostic {
	sev := logparser.SeverityWarning
	if e.Severity == SeverityError {
		sev = logparser.SeverityError
	}
	return logparser.Diagnostic{
		Severity: sev,
		Kind:     logparser.KindInvalidTransaction,
		TxnID:    e.TxnID,
		Message:  fmt.Sprintf("%s: %s", e.Field, e.Message),
	}
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all validation errors (including warnings).
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// TransactionsValidated counts fuel sales and stand-alone washes.
	TransactionsValidated int
}

// Diagnostics returns the errors as day diagnostics, in order.
func (r *ValidationResult) Diagnostics() []logparser.Diagnostic {
	out := make([]logparser.Diagnostic, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Diagnostic())
	}
	return out
}

func (r *ValidationResult) add(errs []*ValidationError) {
	for _, err := range errs {
		r.Errors = append(r.Errors, err)
		if err.Severity == SeverityError {
			r.ErrorCount++
			r.IsValid = false
		} else {
			r.WarningCount++
		}
	}
}

// =============================================================================
// MAIN VALIDATION FUNCTIONS
// =============================================================================

// Validate checks every record of a day.
//
// PARAMETERS:
//   - day: The extraction result of one day file.
//
// RETURNS:
//   - The collected violations. Records are never removed from day.
func Validate(day *logparser.DayResult) *ValidationResult {
	result := &ValidationResult{
		IsValid:               true,
		Errors:                make([]*ValidationError, 0),
		TransactionsValidated: len(day.Fuel) + len(day.CarWashes),
	}

	for i := range day.Fuel {
		result.add(ValidateFuel(&day.Fuel[i]))
	}
	for i := range day.CarWashes {
		result.add(ValidateCarWash(&day.CarWashes[i]))
	}

	return result
}

// ValidateFuel checks a single fuel sale and its attached wash.
func ValidateFuel(f *types.FuelTransaction) []*ValidationError {
	var errs []*ValidationError

	if f.Grade == "" {
		errs = append(errs, warning(f.ID, "grade", "", "required", "fuel grade is missing"))
	}
	if f.Tender == "" {
		errs = append(errs, warning(f.ID, "tender", "", "required", "tender is missing"))
	}
	if f.Volume <= 0 {
		errs = append(errs, warning(f.ID, "volume", f.Volume.String(), "positive", "volume must be greater than zero"))
	}
	if f.Pump <= 0 {
		errs = append(errs, warning(f.ID, "pump", fmt.Sprint(f.Pump), "positive", "pump number must be greater than zero"))
	}
	if f.Amount <= 0 {
		errs = append(errs, warning(f.ID, "amount", f.Amount.String(), "positive", "amount must be greater than zero"))
	}
	if f.CarWash != nil {
		errs = append(errs, ValidateCarWash(f.CarWash)...)
	}

	return errs
}

// ValidateCarWash checks a single wash.
func ValidateCarWash(w *types.CarWashTransaction) []*ValidationError {
	if w.Tier == "" {
		return []*ValidationError{warning(w.ID, "car_wash.tier", "", "required", "wash tier is missing")}
	}
	return nil
}

func warning(txn, field, value, rule, msg string) *ValidationError {
	return &ValidationError{
		Severity: SeverityWarning,
		Field:    field,
		Value:    value,
		Rule:     rule,
		Message:  msg,
		TxnID:    txn,
	}
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
//
// PARAMETERS:
//   - errors: The validation errors to format.
//
// RETURNS:
//   - A formatted string containing all errors.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
