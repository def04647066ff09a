package logparser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity:  SeverityWarning,
		Kind:      KindMissingTransaction,
		Line:      89,
		TxnID:     "5009",
		Reference: "9999",
		Message:   "finalization has no matching prepay",
	}
	assert.Equal(t, "warning missing_transaction line=89 txn=5009 ref=9999: finalization has no matching prepay", d.String())

	assert.Equal(t, "error fatal: boom", FatalDiagnostic(errors.New("boom")).String())
}

func TestRecordDiagnostic(t *testing.T) {
	h := header{marker: 9, id: "42"}

	d := recordDiagnostic(truncated(h, "volume"))
	assert.Equal(t, KindTruncatedRecord, d.Kind)
	assert.Equal(t, SeverityWarning, d.Severity)
	assert.Equal(t, 10, d.Line)
	assert.Equal(t, "42", d.TxnID)
	assert.Equal(t, "volume: record ended before required line", d.Message)

	d = recordDiagnostic(malformed(h, "fuel grade", 14, "junk"))
	assert.Equal(t, KindMalformedRecord, d.Kind)
	assert.Equal(t, `fuel grade: malformed record: line 15 "junk"`, d.Message)
}

func TestErrors(t *testing.T) {
	err := truncated(header{marker: 0, id: "7"}, "total due")
	assert.Equal(t, "transaction 7 at line 1: total due: record ended before required line", err.Error())

	derr := &DayError{Path: "20150302.txt", Err: err}
	assert.ErrorIs(t, derr, ErrTruncated)
	assert.Contains(t, derr.Error(), "20150302.txt")

	assert.Equal(t, "day extraction failed: boom", (&DayError{Err: errors.New("boom")}).Error())
}
