package calendar

import (
	"testing"
	"time"

	"github.com/fleetyard/dispatchboard/core/capacity"
	"github.com/fleetyard/dispatchboard/core/model"
)

var testRoster = []model.Truck{
	{ID: "t1", Name: "Truck 1", Capacity: 14000},
	{ID: "t2", Name: "Truck 2", Capacity: 10000},
}

func testWeek() time.Time { return time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC) }

func TestBuildWeekSkeleton(t *testing.T) {
	c := BuildWeek(testWeek(), testRoster)
	if len(c.Days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(c.Days))
	}
	for _, d := range c.Days {
		if len(d.Cells) != len(testRoster) {
			t.Fatalf("day %s: expected %d cells, got %d", d.Key, len(testRoster), len(d.Cells))
		}
		for _, cell := range d.Cells {
			if !cell.Capacity.Empty || len(cell.Orders) != 0 {
				t.Fatalf("cell %s/%s not empty after build", cell.Date, cell.TruckID)
			}
		}
	}
	if c.Days[0].Cells[1].Tooltip != "Truck 2 (Max Capacity: 10000 kg)" {
		t.Fatalf("tooltip %q", c.Days[0].Cells[1].Tooltip)
	}
}

func TestReconcilePlacesCommittedOrders(t *testing.T) {
	c := BuildWeek(testWeek(), testRoster)
	orders := []model.Order{
		{ID: "o1", Weight: 4000, Status: model.StatusAssigned, TruckID: "t1", DeliveryDate: "2025-11-24"},
		{ID: "o2", Weight: 7000, Status: model.StatusConfirmed, TruckID: "t1", DeliveryDate: "2025-11-24"},
		{ID: "o3", Weight: 1000, Status: model.StatusPending},
		{ID: "o4", Weight: 2000, Status: model.StatusDraft},
	}
	c.Reconcile(orders)

	cell := c.Cell("2025-11-24", "t1")
	if cell == nil || len(cell.Orders) != 2 {
		t.Fatalf("expected 2 orders in cell, got %+v", cell)
	}
	if cell.Capacity.Total != 11000 {
		t.Fatalf("total %v", cell.Capacity.Total)
	}
	for _, d := range c.Days {
		for _, other := range d.Cells {
			if other.TruckID == "t1" && other.Date == "2025-11-24" {
				continue
			}
			if len(other.Orders) != 0 {
				t.Fatalf("unplaced order leaked into %s/%s", other.Date, other.TruckID)
			}
		}
	}
}

func TestReconcileSkipsOffGridOrders(t *testing.T) {
	c := BuildWeek(testWeek(), testRoster)
	orders := []model.Order{
		{ID: "o1", Weight: 100, Status: model.StatusAssigned, TruckID: "t1", DeliveryDate: "2025-12-01"}, // next week
		{ID: "o2", Weight: 200, Status: model.StatusAssigned, TruckID: "ghost", DeliveryDate: "2025-11-24"},
	}
	c.Reconcile(orders)
	for _, d := range c.Days {
		for _, cell := range d.Cells {
			if len(cell.Orders) != 0 {
				t.Fatalf("off-grid order placed in %s/%s", cell.Date, cell.TruckID)
			}
		}
	}
}

func TestReconcileIsFullRebuild(t *testing.T) {
	c := BuildWeek(testWeek(), testRoster)
	o := model.Order{ID: "o1", Weight: 100, Status: model.StatusAssigned, TruckID: "t1", DeliveryDate: "2025-11-24"}
	c.Reconcile([]model.Order{o})
	// Second reconcile with a moved order must not leave the old copy.
	o.TruckID = "t2"
	c.Reconcile([]model.Order{o})
	if cell := c.Cell("2025-11-24", "t1"); len(cell.Orders) != 0 {
		t.Fatalf("stale copy left in old cell")
	}
	if cell := c.Cell("2025-11-24", "t2"); len(cell.Orders) != 1 {
		t.Fatalf("order missing from new cell")
	}
}

func countOccurrences(c *Calendar, orderID string) int {
	n := 0
	for _, d := range c.Days {
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

func TestPlaceEnforcesSingleCell(t *testing.T) {
	c := BuildWeek(testWeek(), testRoster)
	o := model.Order{ID: "o1", Weight: 4000, Status: model.StatusAssigned, TruckID: "t1", DeliveryDate: "2025-11-24"}
	if !c.Place(o, "t1", "2025-11-24") {
		t.Fatalf("place failed")
	}
	if !c.Place(o, "t2", "2025-11-26") {
		t.Fatalf("second place failed")
	}
	if n := countOccurrences(c, "o1"); n != 1 {
		t.Fatalf("order appears in %d cells", n)
	}
	if cell := c.Cell("2025-11-24", "t1"); cell.Capacity.Total != 0 {
		t.Fatalf("old cell not recomputed: %+v", cell.Capacity)
	}
	if cell := c.Cell("2025-11-26", "t2"); cell.Capacity.Total != 4000 {
		t.Fatalf("new cell not recomputed: %+v", cell.Capacity)
	}
}

func TestPlaceUnknownTargetLeavesGridUnchanged(t *testing.T) {
	c := BuildWeek(testWeek(), testRoster)
	o := model.Order{ID: "o1", Weight: 4000, Status: model.StatusAssigned, TruckID: "t1", DeliveryDate: "2025-11-24"}
	c.Place(o, "t1", "2025-11-24")
	if c.Place(o, "t1", "2025-12-25") {
		t.Fatalf("placement outside the week must fail")
	}
	if n := countOccurrences(c, "o1"); n != 1 {
		t.Fatalf("order appears in %d cells after failed placement", n)
	}
}

func TestRemoveRecomputes(t *testing.T) {
	c := BuildWeek(testWeek(), testRoster)
	o := model.Order{ID: "o1", Weight: 4000, Status: model.StatusAssigned, TruckID: "t1", DeliveryDate: "2025-11-24"}
	c.Place(o, "t1", "2025-11-24")
	if touched := c.Remove("o1"); touched != 1 {
		t.Fatalf("touched %d cells", touched)
	}
	cell := c.Cell("2025-11-24", "t1")
	if !cell.Capacity.Empty || cell.Capacity.Total != 0 {
		t.Fatalf("cell not recomputed after removal: %+v", cell.Capacity)
	}
	if c.Locate("o1") != nil {
		t.Fatalf("order still locatable after removal")
	}
}

func TestIngestResolvesRefs(t *testing.T) {
	c := BuildWeek(testWeek(), testRoster)
	store := mapLookup{
		"o1": {ID: "o1", Weight: 4000, Status: model.StatusAssigned, TruckID: "t1", DeliveryDate: "2025-11-24"},
	}
	c.Ingest([]capacity.OrderRef{{ID: "o1"}}, store)
	cell := c.Cell("2025-11-24", "t1")
	if len(cell.Orders) != 1 || cell.Capacity.Total != 4000 {
		t.Fatalf("ingest did not place resolved order: %+v", cell)
	}
}

type mapLookup map[string]model.Order

func (m mapLookup) Get(id string) (model.Order, bool) {
	o, ok := m[id]
	return o, ok
}
