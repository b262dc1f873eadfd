package metrics

import coremetrics "github.com/fleetyard/dispatchboard/core/metrics"

// MultiSink fans board events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAssignment forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignment(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordJobOutcome forwards the outcome to all sinks.
func (m *MultiSink) RecordJobOutcome(out coremetrics.JobOutcome) error {
	for _, s := range m.Sinks {
		if err := s.RecordJobOutcome(out); err != nil {
			return err
		}
	}
	return nil
}

// RecordCellLoad forwards cell snapshots to sinks that support them.
func (m *MultiSink) RecordCellLoad(ev coremetrics.CellLoadEvent) error {
	for _, s := range m.Sinks {
		if clr, ok := s.(coremetrics.CellLoadRecorder); ok {
			if err := clr.RecordCellLoad(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
