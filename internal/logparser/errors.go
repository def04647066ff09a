package logparser

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrapped by RecordError and DayError; match with errors.Is.
var (
	// ErrUnreadable means the day file could not be opened, decoded or read.
	ErrUnreadable = errors.New("day log unreadable")

	// ErrTruncated means a record ran out of lines before a mandatory
	// sentinel (the end of the log or the next transaction marker).
	ErrTruncated = errors.New("record ended before required line")

	// ErrMalformedRecord means a line at a fixed position did not have the
	// expected shape.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrMissingPrepay is returned by the reconciler for a finalization whose
	// reference number has no pending prepay.
	ErrMissingPrepay = errors.New("no pending prepay for reference")

	// ErrDuplicateFinalization is returned by the reconciler for a second
	// finalization of an already resolved reference number.
	ErrDuplicateFinalization = errors.New("reference already finalized")
)

// RecordError is a failure confined to one transaction. It is converted into
// a Diagnostic at the transaction boundary and never aborts the day.
type RecordError struct {
	// Line is the 0-based line number of the transaction marker.
	Line int

	TxnID string

	// Stage names the step that failed, e.g. "prepay amount".
	Stage string

	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("transaction %s at line %d: %s: %v", e.TxnID, e.Line+1, e.Stage, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// DayError aborts the extraction of one day file.
type DayError struct {
	Path string
	Err  error
}

func (e *DayError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("day extraction failed: %v", e.Err)
	}
	return fmt.Sprintf("day extraction failed for %s: %v", e.Path, e.Err)
}

func (e *DayError) Unwrap() error { return e.Err }

func truncated(h header, stage string) error {
	return &RecordError{Line: h.marker, TxnID: h.id, Stage: stage, Err: ErrTruncated}
}

func malformed(h header, stage string, line int, text string) error {
	return &RecordError{
		Line:  h.marker,
		TxnID: h.id,
		Stage: stage,
		Err:   fmt.Errorf("%w: line %d %q", ErrMalformedRecord, line+1, text),
	}
}
