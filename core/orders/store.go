// Package orders holds the in-memory working set of fulfillment orders for
// the active filter. The store owns no persistence: callers coordinate with
// the remote provider first and roll back local mutations on failure.
package orders

import (
	"fmt"
	"sync"

	"github.com/fleetyard/dispatchboard/core/model"
)

// Filter selects the working set loaded from the remote provider.
type Filter struct {
	WeekStart  string // ISO
	WeekEnd    string // ISO
	CustomerID string // empty means all customers
}

// Patch describes an in-place mutation of one order. Nil fields are left
// untouched; empty-string values clear the field.
type Patch struct {
	Status       *model.OrderStatus
	TruckID      *string
	DeliveryDate *string
	Selected     *bool
}

// Store is the mutable order collection with derived per-status counts.
type Store struct {
	mu     sync.RWMutex
	orders []model.Order
	index  map[string]int
	counts map[model.OrderStatus]int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{index: map[string]int{}, counts: map[model.OrderStatus]int{}}
}

// Load replaces the working set wholesale and recomputes status counts.
func (s *Store) Load(orders []model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders[:0:0], orders...)
	s.index = make(map[string]int, len(orders))
	s.counts = make(map[model.OrderStatus]int, len(model.Statuses))
	for i, o := range s.orders {
		s.index[o.ID] = i
		s.counts[o.Status]++
	}
}

// Get returns a snapshot of the order with the given id.
func (s *Store) Get(id string) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.Order{}, false
	}
	return s.orders[i], true
}

// List returns a snapshot of the whole working set in load order.
func (s *Store) List() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Order(nil), s.orders...)
}

// ByStatus returns the orders currently in the given status.
func (s *Store) ByStatus(st model.OrderStatus) []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Order
	for _, o := range s.orders {
		if o.Status == st {
			out = append(out, o)
		}
	}
	return out
}

// Counts returns the derived per-status counts.
func (s *Store) Counts() map[model.OrderStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.OrderStatus]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Apply mutates one order in place. Used optimistically after the remote
// provider accepted the corresponding change; the caller must re-apply the
// inverse patch if a later step fails.
func (s *Store) Apply(id string, p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("orders: unknown order %s", id)
	}
	o := s.orders[i]
	if p.Status != nil {
		s.counts[o.Status]--
		o.Status = *p.Status
		s.counts[o.Status]++
	}
	if p.TruckID != nil {
		o.TruckID = *p.TruckID
	}
	if p.DeliveryDate != nil {
		o.DeliveryDate = *p.DeliveryDate
	}
	if p.Selected != nil {
		o.Selected = *p.Selected
	}
	s.orders[i] = o
	return nil
}

// SetSelected toggles the batch-operation flag on one order.
func (s *Store) SetSelected(id string, selected bool) error {
	return s.Apply(id, Patch{Selected: &selected})
}

// Selected returns the ids of all flagged orders in load order.
func (s *Store) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for _, o := range s.orders {
		if o.Selected {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// ClearSelection unflags every order, as done after a batch submission.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		s.orders[i].Selected = false
	}
}

// Len returns the working-set size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
