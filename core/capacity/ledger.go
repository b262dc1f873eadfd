// Package capacity derives per-cell truck load metrics from the set of
// assigned orders. Everything here is pure: summaries are recomputed from
// scratch after every mutation and are never stored as source of truth.
package capacity

import (
	"math"

	"github.com/fleetyard/dispatchboard/core/model"
)

// Band classifies a truck cell by its load ratio.
type Band string

const (
	BandUnder Band = "under-capacity"
	BandNear  Band = "near-capacity" // ratio >= 0.8
	BandAt    Band = "at-capacity"   // ratio > 1
)

// nearThreshold is the load ratio at which a cell is flagged near capacity.
const nearThreshold = 0.8

// Summary holds the derived metrics for one truck cell.
type Summary struct {
	Total     float64 // sum of assigned order weights
	Remaining float64 // capacity - total, may be negative
	Ratio     float64 // total/capacity, 0 when capacity is 0
	Percent   int     // display percentage, clamped to [0,100]
	Band      Band
	Empty     bool
}

// Lookup resolves a bare order id against the current order store.
type Lookup interface {
	Get(id string) (model.Order, bool)
}

// OrderRef identifies a cell member either by a full order snapshot or by
// a bare id to be resolved against the order store. Exactly one of the two
// fields is meaningful.
type OrderRef struct {
	Order *model.Order
	ID    string
}

// Resolve returns the full order behind the reference.
func (r OrderRef) Resolve(store Lookup) (model.Order, bool) {
	if r.Order != nil {
		return *r.Order, true
	}
	if store == nil {
		return model.Order{}, false
	}
	return store.Get(r.ID)
}

// ResolveAll resolves references once at ingestion. Unresolvable ids are
// dropped rather than failing the batch.
func ResolveAll(refs []OrderRef, store Lookup) []model.Order {
	out := make([]model.Order, 0, len(refs))
	for _, r := range refs {
		if o, ok := r.Resolve(store); ok {
			out = append(out, o)
		}
	}
	return out
}

// Compute derives the load summary for a cell of the given capacity. It is
// total (no error cases) and idempotent: unchanged input yields an
// identical summary.
func Compute(capacity float64, orders []model.Order) Summary {
	var total float64
	for _, o := range orders {
		total += o.Weight
	}

	s := Summary{
		Total:     total,
		Remaining: capacity - total,
		Empty:     len(orders) == 0,
		Band:      BandUnder,
	}
	if capacity > 0 {
		s.Ratio = total / capacity
		s.Percent = int(math.Min(100, math.Round(s.Ratio*100)))
	}
	if s.Ratio > 1 {
		s.Band = BandAt
	} else if s.Ratio >= nearThreshold {
		s.Band = BandNear
	}
	return s
}
