package logparser

import (
	"errors"
	"fmt"
)

// Severity of a Diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Kind classifies a Diagnostic.
type Kind string

const (
	KindMissingTransaction    Kind = "missing_transaction"
	KindDuplicateFinalization Kind = "duplicate_finalization"
	KindUnfinalizedPrepay     Kind = "unfinalized_prepay"
	KindSupersededPrepay      Kind = "superseded_prepay"
	KindTenderDefaulted       Kind = "tender_defaulted"
	KindUnknownTender         Kind = "unknown_tender"
	KindMalformedRecord       Kind = "malformed_record"
	KindTruncatedRecord       Kind = "truncated_record"
	KindInvalidTransaction    Kind = "invalid_transaction"
	KindFatal                 Kind = "fatal"
)

// Diagnostic is a non-fatal finding reported alongside a day's results.
type Diagnostic struct {
	Severity Severity `yaml:"severity"`
	Kind     Kind     `yaml:"kind"`

	// Line is the 1-based line number the finding refers to, 0 if none.
	Line int `yaml:"line,omitempty"`

	TxnID     string `yaml:"txn_id,omitempty"`
	Reference string `yaml:"reference,omitempty"`
	Message   string `yaml:"message"`
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s %s", d.Severity, d.Kind)
	if d.Line > 0 {
		s += fmt.Sprintf(" line=%d", d.Line)
	}
	if d.TxnID != "" {
		s += " txn=" + d.TxnID
	}
	if d.Reference != "" {
		s += " ref=" + d.Reference
	}
	return s + ": " + d.Message
}

// recordDiagnostic converts a per-transaction error into a Diagnostic.
func recordDiagnostic(err error) Diagnostic {
	d := Diagnostic{
		Severity: SeverityWarning,
		Kind:     KindMalformedRecord,
		Message:  err.Error(),
	}
	if errors.Is(err, ErrTruncated) {
		d.Kind = KindTruncatedRecord
	}
	var re *RecordError
	if errors.As(err, &re) {
		d.Line = re.Line + 1
		d.TxnID = re.TxnID
		d.Message = fmt.Sprintf("%s: %v", re.Stage, re.Err)
	}
	return d
}

// FatalDiagnostic describes a day that could not be extracted at all.
func FatalDiagnostic(err error) Diagnostic {
	return Diagnostic{Severity: SeverityError, Kind: KindFatal, Message: err.Error()}
}
