// Package events defines the board events published on the internal bus.
package events

import (
	"time"

	"github.com/fleetyard/dispatchboard/core/model"
)

// AssignmentEvent is published after an order was placed on a truck cell
// and the remote provider confirmed the change.
type AssignmentEvent struct {
	OrderID  string
	TruckID  string
	Date     string // ISO
	Weight   float64
	Occurred time.Time
}

// RemovalEvent is published after an order was returned to Pending.
type RemovalEvent struct {
	OrderID  string
	TruckID  string
	Date     string
	Occurred time.Time
}

// WeekEvent is published when the active planning window changes.
type WeekEvent struct {
	WeekStart string
	WeekEnd   string
}

// ReloadEvent is published after a wholesale order reload.
type ReloadEvent struct {
	Orders int
	Counts map[model.OrderStatus]int
}

// JobEvent tracks an AI scheduling job through its lifecycle. Error is the
// summarized failure message, empty on the happy path.
type JobEvent struct {
	JobID    string
	State    string
	Error    string
	Occurred time.Time
}
