package logparser

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/ginjaninja78/fuelstats/internal/types"
)

// reconciler pairs indoor prepays with their finalizations for one day.
// Reference numbers are only unique within a day, so every day gets a fresh
// reconciler.
type reconciler struct {
	pending   map[string]prepayRecord
	finalized map[string]struct{}
}

func newReconciler() *reconciler {
	return &reconciler{
		pending:   make(map[string]prepayRecord),
		finalized: make(map[string]struct{}),
	}
}

// addPrepay parks p until its finalization arrives. A prepay already waiting
// under the same reference is replaced and returned.
func (r *reconciler) addPrepay(p prepayRecord) (prepayRecord, bool) {
	old, replaced := r.pending[p.tag.reference]
	r.pending[p.tag.reference] = p
	return old, replaced
}

// finalize resolves f against its pending prepay. A reference is resolved at
// most once: a second finalization returns ErrDuplicateFinalization, and one
// with nothing pending returns ErrMissingPrepay. Either way the reference is
// closed.
func (r *reconciler) finalize(f finalRecord) (types.FuelTransaction, error) {
	if _, done := r.finalized[f.reference]; done {
		return types.FuelTransaction{}, fmt.Errorf("ref %s: %w", f.reference, ErrDuplicateFinalization)
	}
	r.finalized[f.reference] = struct{}{}

	p, ok := r.pending[f.reference]
	if !ok {
		return types.FuelTransaction{}, fmt.Errorf("ref %s: %w", f.reference, ErrMissingPrepay)
	}
	delete(r.pending, f.reference)
	return merge(p, f), nil
}

// unfinalized returns the prepays still waiting at the end of the day, in
// log order.
func (r *reconciler) unfinalized() []prepayRecord {
	left := slices.Collect(maps.Values(r.pending))
	slices.SortFunc(left, func(a, b prepayRecord) int { return cmp.Compare(a.marker, b.marker) })
	return left
}

// merge builds the logical sale: what was pumped comes from the
// finalization, what was paid from the prepay.
func merge(p prepayRecord, f finalRecord) types.FuelTransaction {
	return types.FuelTransaction{
		Transaction: types.Transaction{
			ID:       f.id,
			Time:     f.at,
			Amount:   p.amount,
			Location: types.Indoor,
			Tender:   p.tender,
		},
		Volume:       f.volume,
		Grade:        f.grade,
		Pump:         p.tag.pump,
		UnitPrice:    f.price,
		IndoorPrepay: true,
		Reference:    f.reference,
		CarWash:      p.wash,
	}
}
