// Package calendar owns the {day x truck} grid for the active planning
// week. Cells hold no identity across rebuilds: changing the week or the
// roster rebuilds the grid from scratch.
package calendar

import (
	"time"

	"github.com/fleetyard/dispatchboard/core/capacity"
	"github.com/fleetyard/dispatchboard/core/model"
	"github.com/fleetyard/dispatchboard/core/week"
)

// Cell is the assignment slot for one truck on one calendar day.
type Cell struct {
	Date     string // ISO key of the owning day
	TruckID  string
	Truck    model.Truck
	Tooltip  string
	Orders   []model.Order
	Capacity capacity.Summary
}

// Day is one weekday of the grid with one cell per roster truck.
type Day struct {
	week.Day
	Cells []Cell
}

// Calendar is the grid for the active week.
type Calendar struct {
	Days []Day
}

// BuildWeek produces the five-day grid skeleton for the week containing
// ref, one empty cell per roster truck on every day.
func BuildWeek(ref time.Time, roster []model.Truck) *Calendar {
	days := week.Build(ref)
	c := &Calendar{Days: make([]Day, 0, len(days))}
	for _, d := range days {
		day := Day{Day: d, Cells: make([]Cell, 0, len(roster))}
		for _, t := range roster {
			day.Cells = append(day.Cells, Cell{
				Date:     d.Key,
				TruckID:  t.ID,
				Truck:    t,
				Tooltip:  t.Tooltip(),
				Capacity: capacity.Compute(t.Capacity, nil),
			})
		}
		c.Days = append(c.Days, day)
	}
	return c
}

// Cell returns the cell for the given ISO date and truck id, or nil when
// the date falls outside the active week or the truck is not rostered.
func (c *Calendar) Cell(date, truckID string) *Cell {
	for i := range c.Days {
		if c.Days[i].Key != date {
			continue
		}
		for j := range c.Days[i].Cells {
			if c.Days[i].Cells[j].TruckID == truckID {
				return &c.Days[i].Cells[j]
			}
		}
	}
	return nil
}

// Locate returns the cell currently holding the order, if any.
func (c *Calendar) Locate(orderID string) *Cell {
	for i := range c.Days {
		for j := range c.Days[i].Cells {
			cell := &c.Days[i].Cells[j]
			for _, o := range cell.Orders {
				if o.ID == orderID {
					return cell
				}
			}
		}
	}
	return nil
}

// Remove deletes the order from every cell it occupies and recomputes the
// affected cells. It returns the number of cells touched.
func (c *Calendar) Remove(orderID string) int {
	touched := 0
	for i := range c.Days {
		for j := range c.Days[i].Cells {
			cell := &c.Days[i].Cells[j]
			kept := cell.Orders[:0]
			removed := false
			for _, o := range cell.Orders {
				if o.ID == orderID {
					removed = true
					continue
				}
				kept = append(kept, o)
			}
			if removed {
				cell.Orders = kept
				cell.Capacity = capacity.Compute(cell.Truck.Capacity, cell.Orders)
				touched++
			}
		}
	}
	return touched
}

// Place inserts the order into the (date, truck) cell, removing it from any
// cell it previously occupied so it appears at most once across the grid.
// It returns false when the target cell does not exist; the grid is left
// unchanged in that case.
func (c *Calendar) Place(o model.Order, truckID, date string) bool {
	target := c.Cell(date, truckID)
	if target == nil {
		return false
	}
	c.Remove(o.ID)
	target.Orders = append(target.Orders, o)
	target.Capacity = capacity.Compute(target.Truck.Capacity, target.Orders)
	return true
}

// Reconcile rebuilds every cell's content from the given order set. Orders
// without a committed placement are skipped; placed orders whose date or
// truck is not on the grid are silently excluded, a defined degradation.
// Every cell is recomputed afterwards. Always a full rebuild, never an
// incremental patch.
func (c *Calendar) Reconcile(orders []model.Order) {
	for i := range c.Days {
		for j := range c.Days[i].Cells {
			c.Days[i].Cells[j].Orders = nil
		}
	}
	for _, o := range orders {
		if !o.Placed() {
			continue
		}
		if cell := c.Cell(o.DeliveryDate, o.TruckID); cell != nil {
			cell.Orders = append(cell.Orders, o)
		}
	}
	for i := range c.Days {
		for j := range c.Days[i].Cells {
			cell := &c.Days[i].Cells[j]
			cell.Capacity = capacity.Compute(cell.Truck.Capacity, cell.Orders)
		}
	}
}

// Ingest resolves id-or-snapshot references against the store and places
// the resulting orders through Reconcile. Kept for callers that still feed
// bare order ids.
func (c *Calendar) Ingest(refs []capacity.OrderRef, store capacity.Lookup) {
	c.Reconcile(capacity.ResolveAll(refs, store))
}
