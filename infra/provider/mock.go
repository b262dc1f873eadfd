package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/fleetyard/dispatchboard/core/model"
	"github.com/fleetyard/dispatchboard/core/orders"
)

// MemoryProvider is an in-memory provider used for tests and local runs.
// It mirrors the persistence semantics of the real backend: an accepted
// assignment survives a subsequent FetchOrders.
type MemoryProvider struct {
	mu     sync.Mutex
	trucks []model.Truck
	orders map[string]model.Order
	seq    []string // insertion order for deterministic listings

	// FailAssign, FailUnassign and FailFetch inject remote rejections.
	FailAssign   error
	FailUnassign error
	FailFetch    error
}

// NewMemoryProvider returns an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{orders: map[string]model.Order{}}
}

// SeedTrucks replaces the truck roster.
func (p *MemoryProvider) SeedTrucks(trucks ...model.Truck) {
	p.mu.Lock()
	p.trucks = append([]model.Truck(nil), trucks...)
	p.mu.Unlock()
}

// SeedOrders replaces the stored order set.
func (p *MemoryProvider) SeedOrders(os ...model.Order) {
	p.mu.Lock()
	p.orders = make(map[string]model.Order, len(os))
	p.seq = p.seq[:0]
	for _, o := range os {
		p.orders[o.ID] = o
		p.seq = append(p.seq, o.ID)
	}
	p.mu.Unlock()
}

// FetchTrucks returns the seeded roster.
func (p *MemoryProvider) FetchTrucks(ctx context.Context) ([]model.Truck, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailFetch != nil {
		return nil, p.FailFetch
	}
	return append([]model.Truck(nil), p.trucks...), nil
}

// FetchOrders returns stored orders matching the filter.
func (p *MemoryProvider) FetchOrders(ctx context.Context, f orders.Filter) ([]model.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailFetch != nil {
		return nil, p.FailFetch
	}
	var out []model.Order
	for _, id := range p.seq {
		o := p.orders[id]
		if f.CustomerID != "" && o.Customer != f.CustomerID {
			continue
		}
		// Unplaced orders always belong to the working set; placed
		// ones only when their date falls inside the window.
		if o.Placed() && f.WeekStart != "" && f.WeekEnd != "" {
			if o.DeliveryDate < f.WeekStart || o.DeliveryDate > f.WeekEnd {
				continue
			}
		}
		out = append(out, o)
	}
	return out, nil
}

// PersistAssignment stores the placement.
func (p *MemoryProvider) PersistAssignment(ctx context.Context, orderID, truckID, date string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailAssign != nil {
		return p.FailAssign
	}
	o, ok := p.orders[orderID]
	if !ok {
		return fmt.Errorf("mock provider: unknown order %s", orderID)
	}
	o.Status = model.StatusAssigned
	o.TruckID = truckID
	o.DeliveryDate = date
	p.orders[orderID] = o
	return nil
}

// PersistUnassignment returns the order to pending.
func (p *MemoryProvider) PersistUnassignment(ctx context.Context, orderID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailUnassign != nil {
		return p.FailUnassign
	}
	o, ok := p.orders[orderID]
	if !ok {
		return fmt.Errorf("mock provider: unknown order %s", orderID)
	}
	o.Status = model.StatusPending
	o.TruckID = ""
	o.DeliveryDate = ""
	p.orders[orderID] = o
	return nil
}
