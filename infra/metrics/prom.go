// Package metrics provides the observability sinks backing the board:
// Prometheus, InfluxDB and a fan-out combinator.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/fleetyard/dispatchboard/core/metrics"
)

// PromSink records board events in Prometheus metrics.
type PromSink struct {
	assignments *prometheus.CounterVec
	jobs        *prometheus.HistogramVec
}

// NewPromSink registers board metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. Already
// registered collectors are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "board_assignment_events_total",
		Help: "Total number of confirmed assignment events",
	}, []string{"truck_id", "unassign"})
	jobs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduling_job_duration_seconds",
		Help:    "Wall time from submission to terminal job status",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(jobs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			jobs = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{assignments: assignments, jobs: jobs}, nil
}

// RecordAssignment increments the assignment counter.
func (s *PromSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	s.assignments.WithLabelValues(ev.TruckID, strconv.FormatBool(ev.Unassign)).Inc()
	return nil
}

// RecordJobOutcome observes the job duration histogram.
func (s *PromSink) RecordJobOutcome(out coremetrics.JobOutcome) error {
	s.jobs.WithLabelValues(out.Status).Observe(out.Duration.Seconds())
	return nil
}
