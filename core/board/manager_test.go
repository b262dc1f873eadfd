package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetyard/dispatchboard/core/model"
	"github.com/fleetyard/dispatchboard/core/orders"
	"github.com/fleetyard/dispatchboard/infra/logger"
)

// fakeProvider implements Provider with canned data and failure injection.
type fakeProvider struct {
	trucks []model.Truck
	orders []model.Order

	failAssign   error
	failUnassign error

	assignCalls   int
	unassignCalls int
}

func (p *fakeProvider) FetchTrucks(context.Context) ([]model.Truck, error) {
	return append([]model.Truck(nil), p.trucks...), nil
}

func (p *fakeProvider) FetchOrders(context.Context, orders.Filter) ([]model.Order, error) {
	return append([]model.Order(nil), p.orders...), nil
}

func (p *fakeProvider) PersistAssignment(ctx context.Context, orderID, truckID, date string) error {
	p.assignCalls++
	return p.failAssign
}

func (p *fakeProvider) PersistUnassignment(ctx context.Context, orderID string) error {
	p.unassignCalls++
	return p.failUnassign
}

func testProvider() *fakeProvider {
	return &fakeProvider{
		trucks: []model.Truck{
			{ID: "t1", Name: "Truck 1", Capacity: 14000},
			{ID: "t2", Name: "Truck 2", Capacity: 10000},
		},
		orders: []model.Order{
			{ID: "o1", Name: "FO-001", Customer: "c1", Weight: 6000, Status: model.StatusPending},
			{ID: "o2", Name: "FO-002", Customer: "c1", Weight: 5000, Status: model.StatusPending},
			{ID: "o3", Name: "FO-003", Customer: "c2", Weight: 4000, Status: model.StatusAssigned, TruckID: "t1", DeliveryDate: "2025-11-25"},
		},
	}
}

func newTestManager(t *testing.T, p Provider) *Manager {
	t.Helper()
	m, err := NewManager(p, logger.NopLogger{}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, m.Refresh(context.Background(), time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC), ""))
	return m
}

func occurrences(m *Manager, orderID string) int {
	n := 0
	cal := m.Calendar()
	for _, d := range cal.Days {
		for _, cell := range d.Cells {
			for _, o := range cell.Orders {
				if o.ID == orderID {
					n++
				}
			}
		}
	}
	return n
}

func TestNewManagerNilProvider(t *testing.T) {
	_, err := NewManager(nil, logger.NopLogger{}, nil, nil)
	assert.Error(t, err)
}

func TestRefreshBuildsBoard(t *testing.T) {
	m := newTestManager(t, testProvider())

	start, end := m.WeekBounds()
	assert.Equal(t, "2025-11-24", start)
	assert.Equal(t, "2025-11-28", end)
	assert.Len(t, m.Roster(), 2)

	cal := m.Calendar()
	require.NotNil(t, cal)
	require.Len(t, cal.Days, 5)

	// The already placed order is reconciled into its cell.
	cell := cal.Cell("2025-11-25", "t1")
	require.NotNil(t, cell)
	require.Len(t, cell.Orders, 1)
	assert.Equal(t, "o3", cell.Orders[0].ID)

	counts := m.Store().Counts()
	assert.Equal(t, 2, counts[model.StatusPending])
	assert.Equal(t, 1, counts[model.StatusAssigned])
}

func TestAssignHappyPath(t *testing.T) {
	p := testProvider()
	m := newTestManager(t, p)

	require.NoError(t, m.Assign(context.Background(), "o1", "t2", "2025-11-24"))
	assert.Equal(t, 1, p.assignCalls)

	o, ok := m.Store().Get("o1")
	require.True(t, ok)
	assert.Equal(t, model.StatusAssigned, o.Status)
	assert.Equal(t, "t2", o.TruckID)
	assert.Equal(t, "2025-11-24", o.DeliveryDate)

	cell := m.Calendar().Cell("2025-11-24", "t2")
	require.Len(t, cell.Orders, 1)
	assert.Equal(t, 6000.0, cell.Capacity.Total)
	assert.Equal(t, 1, occurrences(m, "o1"))
}

func TestAssignValidation(t *testing.T) {
	p := testProvider()
	m := newTestManager(t, p)

	assert.ErrorIs(t, m.Assign(context.Background(), "ghost", "t1", "2025-11-24"), ErrOrderNotFound)
	assert.ErrorIs(t, m.Assign(context.Background(), "o1", "ghost", "2025-11-24"), ErrTruckNotFound)
	assert.ErrorIs(t, m.Assign(context.Background(), "o1", "t1", "2025-12-25"), ErrDayNotFound)

	// Validation failures never reach the provider.
	assert.Equal(t, 0, p.assignCalls)
	o, _ := m.Store().Get("o1")
	assert.Equal(t, model.StatusPending, o.Status)
}

func TestAssignRemoteRejection(t *testing.T) {
	p := testProvider()
	p.failAssign = errors.New("backend says no")
	m := newTestManager(t, p)

	err := m.Assign(context.Background(), "o1", "t1", "2025-11-24")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)

	// No partial state: order untouched, grid untouched.
	o, _ := m.Store().Get("o1")
	assert.Equal(t, model.StatusPending, o.Status)
	assert.Empty(t, o.TruckID)
	assert.Equal(t, 0, occurrences(m, "o1"))
}

func TestAssignMovesBetweenCells(t *testing.T) {
	m := newTestManager(t, testProvider())

	require.NoError(t, m.Assign(context.Background(), "o1", "t1", "2025-11-24"))
	require.NoError(t, m.Assign(context.Background(), "o1", "t2", "2025-11-26"))

	assert.Equal(t, 1, occurrences(m, "o1"))
	old := m.Calendar().Cell("2025-11-24", "t1")
	assert.Equal(t, 0.0, old.Capacity.Total)
	assert.True(t, old.Capacity.Empty)
}

func TestUnassignRoundTrip(t *testing.T) {
	p := testProvider()
	m := newTestManager(t, p)

	require.NoError(t, m.Assign(context.Background(), "o1", "t1", "2025-11-24"))
	require.NoError(t, m.Unassign(context.Background(), "o1", "t1", "2025-11-24"))
	assert.Equal(t, 1, p.unassignCalls)

	o, _ := m.Store().Get("o1")
	assert.Equal(t, model.StatusPending, o.Status)
	assert.Empty(t, o.TruckID)
	assert.Empty(t, o.DeliveryDate)
	assert.Equal(t, 0, occurrences(m, "o1"))
}

func TestUnassignRemoteRejection(t *testing.T) {
	p := testProvider()
	m := newTestManager(t, p)
	require.NoError(t, m.Assign(context.Background(), "o1", "t1", "2025-11-24"))

	p.failUnassign = errors.New("backend says no")
	err := m.Unassign(context.Background(), "o1", "t1", "2025-11-24")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)

	o, _ := m.Store().Get("o1")
	assert.Equal(t, model.StatusAssigned, o.Status)
	assert.Equal(t, 1, occurrences(m, "o1"))
}

func TestCapacityOverloadScenario(t *testing.T) {
	m := newTestManager(t, testProvider())

	require.NoError(t, m.Assign(context.Background(), "o1", "t2", "2025-11-24"))
	require.NoError(t, m.Assign(context.Background(), "o2", "t2", "2025-11-24"))

	cell := m.Calendar().Cell("2025-11-24", "t2")
	assert.Equal(t, 11000.0, cell.Capacity.Total)
	assert.Equal(t, -1000.0, cell.Capacity.Remaining)
	assert.Equal(t, "at-capacity", string(cell.Capacity.Band))
	assert.Equal(t, 100, cell.Capacity.Percent)
}
