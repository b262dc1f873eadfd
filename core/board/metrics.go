package board

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	assignmentsTotal *prometheus.CounterVec
	remoteRejections *prometheus.CounterVec
	cellLoadRatio    *prometheus.GaugeVec
	ordersLoaded     prometheus.Gauge
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, *prometheus.GaugeVec, prometheus.Gauge) {
	asn := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_assignments_total",
			Help: "Number of confirmed assign and unassign operations",
		},
		[]string{"operation"},
	)
	rej := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_remote_rejections_total",
			Help: "Number of provider calls that declined persistence",
		},
		[]string{"operation"},
	)
	load := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "board_cell_load_ratio",
			Help: "Load ratio per truck cell after the last recomputation",
		},
		[]string{"truck_id", "date"},
	)
	loaded := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "board_orders_loaded",
			Help: "Size of the order working set after the last reload",
		},
	)
	return asn, rej, load, loaded
}

func init() {
	assignmentsTotal, remoteRejections, cellLoadRatio, ordersLoaded = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers board metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(assignmentsTotal, remoteRejections, cellLoadRatio, ordersLoaded)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	assignmentsTotal, remoteRejections, cellLoadRatio, ordersLoaded = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
