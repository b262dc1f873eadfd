package scheduling

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	pollTicks prometheus.Counter
	jobsTotal *prometheus.CounterVec
)

func newCollectors() (prometheus.Counter, *prometheus.CounterVec) {
	ticks := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduling_poll_ticks_total",
			Help: "Number of job-status checks issued",
		},
	)
	jobs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduling_jobs_total",
			Help: "Number of scheduling jobs by terminal outcome",
		},
		[]string{"outcome"},
	)
	return ticks, jobs
}

func init() {
	pollTicks, jobsTotal = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers scheduling metrics on the provided
// registry. If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(pollTicks, jobsTotal)
}

// ResetMetrics reinitializes collectors for testing purposes.
func ResetMetrics(reg prometheus.Registerer) {
	pollTicks, jobsTotal = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
