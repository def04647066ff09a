package logparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fuelstats/internal/types"
)

func pendingPrepay(marker int, ref string, pump int, amount types.Cents) prepayRecord {
	return prepayRecord{
		header: header{marker: marker, id: "p" + ref},
		tag:    prepayTag{line: marker + 4, reference: ref, pump: pump},
		amount: amount,
		tender: types.Debit,
	}
}

func TestReconciler(t *testing.T) {
	r := newReconciler()

	_, replaced := r.addPrepay(pendingPrepay(10, "1001", 2, 2000))
	assert.False(t, replaced)

	old, replaced := r.addPrepay(pendingPrepay(20, "1001", 3, 2500))
	require.True(t, replaced)
	assert.Equal(t, 10, old.marker)

	txn, err := r.finalize(finalRecord{
		header:    header{marker: 30, id: "f1001"},
		reference: "1001",
		grade:     types.Supreme,
		volume:    6000,
		price:     4100,
	})
	require.NoError(t, err)
	assert.Equal(t, "f1001", txn.ID)
	assert.Equal(t, 3, txn.Pump)
	assert.Equal(t, types.Cents(2500), txn.Amount)
	assert.Equal(t, types.Debit, txn.Tender)
	assert.Equal(t, types.Supreme, txn.Grade)
	assert.True(t, txn.IndoorPrepay)

	_, err = r.finalize(finalRecord{reference: "1001"})
	assert.ErrorIs(t, err, ErrDuplicateFinalization)

	_, err = r.finalize(finalRecord{reference: "2002"})
	assert.ErrorIs(t, err, ErrMissingPrepay)

	assert.Empty(t, r.unfinalized())
}

func TestReconciler_UnfinalizedInLogOrder(t *testing.T) {
	r := newReconciler()
	for _, p := range []prepayRecord{
		pendingPrepay(50, "c", 1, 100),
		pendingPrepay(5, "a", 1, 100),
		pendingPrepay(25, "b", 1, 100),
	} {
		r.addPrepay(p)
	}

	var refs []string
	for _, p := range r.unfinalized() {
		refs = append(refs, p.tag.reference)
	}
	assert.Equal(t, []string{"a", "b", "c"}, refs)
}
