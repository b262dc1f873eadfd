// Package metrics defines the sink contracts used to record board activity
// for observability backends.
package metrics

import "time"

// AssignmentEvent represents one confirmed assign or unassign operation.
type AssignmentEvent struct {
	OrderID   string
	TruckID   string
	Date      string // ISO delivery date
	Weight    float64
	Unassign  bool
	Component string
	Time      time.Time
}

// JobOutcome captures the terminal state of an AI scheduling job.
type JobOutcome struct {
	JobID    string
	Status   string
	Attempts int
	Duration time.Duration
	Applied  int // recommendations folded back into the board
	Time     time.Time
}

// Sink records board events for observability purposes.
type Sink interface {
	RecordAssignment(ev AssignmentEvent) error
	RecordJobOutcome(out JobOutcome) error
}

// CellLoadEvent is a snapshot of one truck cell after recomputation.
type CellLoadEvent struct {
	TruckID string
	Date    string
	Total   float64
	Ratio   float64
	Band    string
	Time    time.Time
}

// CellLoadRecorder is implemented by sinks able to record per-cell load.
type CellLoadRecorder interface {
	RecordCellLoad(ev CellLoadEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordAssignment(AssignmentEvent) error { return nil }
func (NopSink) RecordJobOutcome(JobOutcome) error      { return nil }
func (NopSink) RecordCellLoad(CellLoadEvent) error     { return nil }
