// Package board implements the assignment coordinator: it validates and
// executes assign/unassign operations, keeps the order store and the
// calendar grid consistent, and mediates every mutation with the remote
// data provider. Remote first, then mirror locally: no change becomes
// visible before the provider confirmed it.
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fleetyard/dispatchboard/core/calendar"
	"github.com/fleetyard/dispatchboard/core/events"
	"github.com/fleetyard/dispatchboard/core/logger"
	"github.com/fleetyard/dispatchboard/core/metrics"
	"github.com/fleetyard/dispatchboard/core/model"
	"github.com/fleetyard/dispatchboard/core/orders"
	"github.com/fleetyard/dispatchboard/core/week"
	"github.com/fleetyard/dispatchboard/internal/eventbus"
)

// Manager owns the board state for one user session: the truck roster, the
// active week, the order working set and the calendar grid. All mutations
// go through its documented operations.
type Manager struct {
	provider Provider
	logger   logger.Logger
	metrics  metrics.Sink
	bus      eventbus.EventBus

	mu        sync.Mutex
	store     *orders.Store
	cal       *calendar.Calendar
	roster    []model.Truck
	weekStart string
	weekEnd   string
	customer  string
}

// NewManager creates a new board manager.
func NewManager(provider Provider, log logger.Logger, sink metrics.Sink, bus eventbus.EventBus) (*Manager, error) {
	if provider == nil {
		return nil, fmt.Errorf("board: nil provider passed to NewManager")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Manager{
		provider: provider,
		logger:   log,
		metrics:  sink,
		bus:      bus,
		store:    orders.NewStore(),
	}, nil
}

// Refresh rebuilds the whole board for the week containing ref: roster,
// grid skeleton, order working set and reconciliation. The optional
// customer id narrows the order filter.
func (m *Manager) Refresh(ctx context.Context, ref time.Time, customerID string) error {
	trucks, err := m.provider.FetchTrucks(ctx)
	if err != nil {
		return &RemoteError{Op: "fetch trucks", Err: err}
	}
	start, end := week.Bounds(ref)
	filter := orders.Filter{WeekStart: start, WeekEnd: end, CustomerID: customerID}
	loaded, err := m.provider.FetchOrders(ctx, filter)
	if err != nil {
		return &RemoteError{Op: "fetch orders", Err: err}
	}

	m.mu.Lock()
	m.roster = trucks
	m.weekStart, m.weekEnd = start, end
	m.customer = customerID
	m.cal = calendar.BuildWeek(ref, trucks)
	m.store.Load(loaded)
	m.cal.Reconcile(m.store.List())
	m.observeCellsLocked()
	counts := m.store.Counts()
	n := m.store.Len()
	m.mu.Unlock()

	ordersLoaded.Set(float64(n))
	m.logger.Infof("board refreshed: week %s..%s, %d trucks, %d orders", start, end, len(trucks), n)
	if m.bus != nil {
		m.bus.Publish(events.WeekEvent{WeekStart: start, WeekEnd: end})
		m.bus.Publish(events.ReloadEvent{Orders: n, Counts: counts})
	}
	return nil
}

// ReloadOrders refetches the working set for the active filter and
// reconciles the grid. Used after an AI scheduling job completed.
func (m *Manager) ReloadOrders(ctx context.Context) error {
	m.mu.Lock()
	filter := orders.Filter{WeekStart: m.weekStart, WeekEnd: m.weekEnd, CustomerID: m.customer}
	m.mu.Unlock()

	loaded, err := m.provider.FetchOrders(ctx, filter)
	if err != nil {
		return &RemoteError{Op: "fetch orders", Err: err}
	}
	m.mu.Lock()
	m.store.Load(loaded)
	if m.cal != nil {
		m.cal.Reconcile(m.store.List())
		m.observeCellsLocked()
	}
	counts := m.store.Counts()
	n := m.store.Len()
	m.mu.Unlock()

	ordersLoaded.Set(float64(n))
	if m.bus != nil {
		m.bus.Publish(events.ReloadEvent{Orders: n, Counts: counts})
	}
	return nil
}

// Assign places the order on the given truck and day. The provider is
// asked to persist first; on rejection nothing changes locally. On success
// the order leaves any cell it occupied, enters the target cell and turns
// Assigned.
func (m *Manager) Assign(ctx context.Context, orderID, truckID, date string) error {
	m.mu.Lock()
	o, ok := m.store.Get(orderID)
	if !ok {
		m.mu.Unlock()
		m.logger.Warnf("assign: unknown order %s", orderID)
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if !m.hasTruckLocked(truckID) {
		m.mu.Unlock()
		m.logger.Warnf("assign: truck %s not in roster", truckID)
		return fmt.Errorf("%w: %s", ErrTruckNotFound, truckID)
	}
	if m.cal == nil || m.cal.Cell(date, truckID) == nil {
		m.mu.Unlock()
		m.logger.Warnf("assign: date %s outside active week", date)
		return fmt.Errorf("%w: %s", ErrDayNotFound, date)
	}
	m.mu.Unlock()

	if err := m.provider.PersistAssignment(ctx, orderID, truckID, date); err != nil {
		remoteRejections.WithLabelValues("assign").Inc()
		m.logger.Errorf("assign %s rejected by provider: %v", orderID, err)
		return &RemoteError{Op: "assign", Err: err}
	}

	status := model.StatusAssigned
	m.mu.Lock()
	_ = m.store.Apply(orderID, orders.Patch{
		Status:       &status,
		TruckID:      &truckID,
		DeliveryDate: &date,
	})
	o, _ = m.store.Get(orderID)
	m.cal.Place(o, truckID, date)
	m.observeCellsLocked()
	m.mu.Unlock()

	assignmentsTotal.WithLabelValues("assign").Inc()
	m.logger.Infof("assigned order %s to truck %s on %s", o.Name, truckID, date)
	m.record(metrics.AssignmentEvent{
		OrderID: orderID, TruckID: truckID, Date: date,
		Weight: o.Weight, Component: "board", Time: time.Now(),
	})
	if m.bus != nil {
		m.bus.Publish(events.AssignmentEvent{
			OrderID: orderID, TruckID: truckID, Date: date,
			Weight: o.Weight, Occurred: time.Now(),
		})
	}
	return nil
}

// Unassign removes the order from its cell and returns it to Pending with
// truck and date cleared. Symmetric to Assign: the provider persists the
// return to pending before any local step runs.
func (m *Manager) Unassign(ctx context.Context, orderID, truckID, date string) error {
	m.mu.Lock()
	_, ok := m.store.Get(orderID)
	m.mu.Unlock()
	if !ok {
		m.logger.Warnf("unassign: unknown order %s", orderID)
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	if err := m.provider.PersistUnassignment(ctx, orderID); err != nil {
		remoteRejections.WithLabelValues("unassign").Inc()
		m.logger.Errorf("unassign %s rejected by provider: %v", orderID, err)
		return &RemoteError{Op: "unassign", Err: err}
	}

	status := model.StatusPending
	empty := ""
	m.mu.Lock()
	_ = m.store.Apply(orderID, orders.Patch{
		Status:       &status,
		TruckID:      &empty,
		DeliveryDate: &empty,
	})
	if m.cal != nil {
		m.cal.Remove(orderID)
		m.observeCellsLocked()
	}
	m.mu.Unlock()

	assignmentsTotal.WithLabelValues("unassign").Inc()
	m.logger.Infof("returned order %s to pending", orderID)
	m.record(metrics.AssignmentEvent{
		OrderID: orderID, TruckID: truckID, Date: date,
		Unassign: true, Component: "board", Time: time.Now(),
	})
	if m.bus != nil {
		m.bus.Publish(events.RemovalEvent{OrderID: orderID, TruckID: truckID, Date: date, Occurred: time.Now()})
	}
	return nil
}

// Store exposes the order working set for read access and selection.
func (m *Manager) Store() *orders.Store { return m.store }

// ClearSelection unflags every order, as done after a batch submission.
func (m *Manager) ClearSelection() { m.store.ClearSelection() }

// Calendar returns the grid for the active week. Read-only view model.
func (m *Manager) Calendar() *calendar.Calendar {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cal
}

// Roster returns the active truck roster.
func (m *Manager) Roster() []model.Truck {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Truck(nil), m.roster...)
}

// WeekBounds returns the ISO start and end of the active week.
func (m *Manager) WeekBounds() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.weekStart, m.weekEnd
}

func (m *Manager) hasTruckLocked(truckID string) bool {
	for _, t := range m.roster {
		if t.ID == truckID {
			return true
		}
	}
	return false
}

// observeCellsLocked exports per-cell load after a recomputation. Caller
// holds the mutex.
func (m *Manager) observeCellsLocked() {
	if m.cal == nil {
		return
	}
	clr, hasCell := m.metrics.(metrics.CellLoadRecorder)
	for i := range m.cal.Days {
		for _, cell := range m.cal.Days[i].Cells {
			cellLoadRatio.WithLabelValues(cell.TruckID, cell.Date).Set(cell.Capacity.Ratio)
			if hasCell && !cell.Capacity.Empty {
				_ = clr.RecordCellLoad(metrics.CellLoadEvent{
					TruckID: cell.TruckID,
					Date:    cell.Date,
					Total:   cell.Capacity.Total,
					Ratio:   cell.Capacity.Ratio,
					Band:    string(cell.Capacity.Band),
					Time:    time.Now(),
				})
			}
		}
	}
}

func (m *Manager) record(ev metrics.AssignmentEvent) {
	if err := m.metrics.RecordAssignment(ev); err != nil {
		m.logger.Errorf("metrics error: %v", err)
	}
}
