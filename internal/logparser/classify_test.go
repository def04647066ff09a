package logparser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fuelstats/internal/logger"
	"github.com/ginjaninja78/fuelstats/internal/types"
)

// journal joins lines into a day log.
func journal(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func newDay(lines ...string) *day {
	return &day{
		ix:  NewIndex([]byte(journal(lines...))),
		log: logger.NewNop(),
		rec: newReconciler(),
		res: &DayResult{},
	}
}

// classifyFirst classifies the first record of a journal.
func classifyFirst(t *testing.T, lines ...string) (classification, error) {
	t.Helper()
	d := newDay(lines...)
	require.NotEmpty(t, d.ix.Markers())
	return d.classify(d.ix.Markers()[0], d.ix.window(0))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		check func(t *testing.T, c classification)
	}{
		{
			name: "outdoor",
			lines: []string{
				"CUSTOMER TRANSACTION 100 Finalized",
				"03/02/15 08:15:00",
				"Outdoor tmnl: 3",
			},
			check: func(t *testing.T, c classification) {
				o, ok := c.(outdoorSale)
				require.True(t, ok, "got %T", c)
				assert.Equal(t, "100", o.id)
				assert.Equal(t, types.Outdoor, o.location)
				assert.Equal(t, 3, o.terminal)
				assert.Equal(t, time.Date(2015, 3, 2, 8, 15, 0, 0, time.UTC), o.at)
			},
		},
		{
			name: "indoor prepay after session",
			lines: []string{
				"CUSTOMER TRANSACTION 101 Finalized",
				"03/02/15 08:20:05",
				"Indoor tmnl: 1",
				"User Session: 6064",
				"Cashier: 12",
				"Fuel Prepay Ref#1001 Pump 2",
				"FUEL PREPAY 20.00",
				"TOTAL DUE             20.00",
			},
			check: func(t *testing.T, c classification) {
				p, ok := c.(indoorPrepay)
				require.True(t, ok, "got %T", c)
				assert.Equal(t, prepayTag{line: 5, reference: "1001", pump: 2}, p.tag)
			},
		},
		{
			name: "indoor finalization after session",
			lines: []string{
				"CUSTOMER TRANSACTION 102 Finalized",
				"03/02/15 08:31:12",
				"Indoor tmnl: 1",
				"User Session: 6064",
				"Original Fuel Prepay Ref#1001",
			},
			check: func(t *testing.T, c classification) {
				f, ok := c.(indoorFinal)
				require.True(t, ok, "got %T", c)
				assert.Equal(t, "1001", f.reference)
				assert.Equal(t, 4, f.tagLine)
			},
		},
		{
			name: "indoor finalization without session",
			lines: []string{
				"CUSTOMER TRANSACTION 103 Finalized",
				"03/02/15 08:40:00",
				"Indoor tmnl: 2",
				"Cashier: 07",
				"Original Fuel Prepay Ref#1002",
			},
			check: func(t *testing.T, c classification) {
				f, ok := c.(indoorFinal)
				require.True(t, ok, "got %T", c)
				assert.Equal(t, "1002", f.reference)
			},
		},
		{
			name: "prepay tag without session is not a prepay",
			lines: []string{
				"CUSTOMER TRANSACTION 104 Finalized",
				"03/02/15 08:40:00",
				"Indoor tmnl: 2",
				"Cashier: 07",
				"Fuel Prepay Ref#1003 Pump 1",
				"TOTAL DUE             20.00",
			},
			check: func(t *testing.T, c classification) {
				assert.IsType(t, notFuel{}, c)
			},
		},
		{
			name: "tag after total due is ignored",
			lines: []string{
				"CUSTOMER TRANSACTION 105 Finalized",
				"03/02/15 11:00:00",
				"Indoor tmnl: 1",
				"User Session: 6064",
				"COKE 20OZ               1.89",
				"TOTAL DUE              1.89",
				"Fuel Prepay Ref#1004 Pump 1",
			},
			check: func(t *testing.T, c classification) {
				assert.IsType(t, notFuel{}, c)
			},
		},
		{
			name: "scan stops at next marker",
			lines: []string{
				"CUSTOMER TRANSACTION 106 Finalized",
				"03/02/15 11:00:00",
				"Indoor tmnl: 1",
				"User Session: 6064",
				"CUSTOMER TRANSACTION 107 Finalized",
				"03/02/15 11:01:00",
				"Indoor tmnl: 1",
				"User Session: 6064",
				"Original Fuel Prepay Ref#1001",
			},
			check: func(t *testing.T, c classification) {
				assert.IsType(t, notFuel{}, c)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := classifyFirst(t, tt.lines...)
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestClassify_BadHeader(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		wantErr error
		stage   string
	}{
		{
			name:    "missing date line",
			lines:   []string{"CUSTOMER TRANSACTION 1 Finalized"},
			wantErr: ErrTruncated,
			stage:   "date line",
		},
		{
			name:    "garbled date",
			lines:   []string{"CUSTOMER TRANSACTION 1 Finalized", "yesterday", "Indoor tmnl: 1"},
			wantErr: ErrMalformedRecord,
			stage:   "date line",
		},
		{
			name:    "impossible date",
			lines:   []string{"CUSTOMER TRANSACTION 1 Finalized", "13/02/15 08:00:00", "Indoor tmnl: 1"},
			wantErr: ErrMalformedRecord,
			stage:   "date line",
		},
		{
			name:    "missing location",
			lines:   []string{"CUSTOMER TRANSACTION 1 Finalized", "03/02/15 08:00:00"},
			wantErr: ErrTruncated,
			stage:   "location line",
		},
		{
			name:    "unknown location",
			lines:   []string{"CUSTOMER TRANSACTION 1 Finalized", "03/02/15 08:00:00", "Kiosk tmnl: 9"},
			wantErr: ErrMalformedRecord,
			stage:   "location line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := classifyFirst(t, tt.lines...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.IsType(t, notFuel{}, c)

			var re *RecordError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, "1", re.TxnID)
			assert.Equal(t, tt.stage, re.Stage)
		})
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "03/02/15 08:15:00", want: time.Date(2015, 3, 2, 8, 15, 0, 0, time.UTC)},
		{in: "12/31/99 23:59:59", want: time.Date(2099, 12, 31, 23, 59, 59, 0, time.UTC)},
		{in: "1/5/2016 7:03:09", want: time.Date(2016, 1, 5, 7, 3, 9, 0, time.UTC)},
		{in: "03/02/15 08:15:00   REG 2", want: time.Date(2015, 3, 2, 8, 15, 0, 0, time.UTC)},
		{in: "00/02/15 08:15:00", wantErr: true},
		{in: "03/32/15 08:15:00", wantErr: true},
		{in: "03/02/15 24:00:00", wantErr: true},
		{in: "03-02-15 08:15:00", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDateTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
