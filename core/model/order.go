package model

import "fmt"

// OrderStatus tracks a fulfillment order through the dispatch lifecycle.
type OrderStatus string

const (
	StatusDraft     OrderStatus = "Draft"
	StatusPending   OrderStatus = "Pending"
	StatusAssigned  OrderStatus = "Assigned"
	StatusConfirmed OrderStatus = "Confirmed"
	StatusAllocated OrderStatus = "Allocated"
	StatusError     OrderStatus = "Error"
)

// Statuses lists every known order status in lifecycle order.
var Statuses = []OrderStatus{
	StatusDraft,
	StatusPending,
	StatusAssigned,
	StatusConfirmed,
	StatusAllocated,
	StatusError,
}

// Valid reports whether the status is one of the known values.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusAssigned, StatusConfirmed, StatusAllocated, StatusError:
		return true
	}
	return false
}

// Placed reports whether the status implies a committed (truck, date)
// placement. Pending and Draft orders live outside the calendar grid.
func (s OrderStatus) Placed() bool {
	return s != StatusPending && s != StatusDraft
}

func (s OrderStatus) String() string { return string(s) }

// Order represents a transport fulfillment unit to be scheduled onto a
// truck and delivery date.
type Order struct {
	ID       string
	Name     string
	Customer string
	Weight   float64 // total weight in kg

	Status OrderStatus

	// TruckID and DeliveryDate (ISO YYYY-MM-DD) are both set when the
	// order is placed and both empty otherwise.
	TruckID      string
	DeliveryDate string

	// Selected marks the order for batch operations such as an AI
	// scheduling submission.
	Selected bool
}

// Placed reports whether the order holds a committed placement.
func (o Order) Placed() bool { return o.Status.Placed() }

// Validate checks the order against the placement invariant: the
// (truck, date) pair is set if and only if the status is a placed one.
func (o Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order id must not be empty")
	}
	if !o.Status.Valid() {
		return fmt.Errorf("order %s: unknown status %q", o.ID, o.Status)
	}
	has := o.TruckID != "" && o.DeliveryDate != ""
	if o.Status.Placed() && !has {
		return fmt.Errorf("order %s: status %s requires truck and delivery date", o.ID, o.Status)
	}
	if !o.Status.Placed() && (o.TruckID != "" || o.DeliveryDate != "") {
		return fmt.Errorf("order %s: status %s must not carry truck or delivery date", o.ID, o.Status)
	}
	return nil
}
