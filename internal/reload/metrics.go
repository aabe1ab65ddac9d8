package reload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChangesTotal counts detected change events, labeled by watch pattern.
	ChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchdog_changes_total",
		Help: "Detected file change events, labeled by watch pattern.",
	}, []string{"pattern"})

	// ActiveWatches tracks the number of registered watches.
	ActiveWatches = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "watchdog_active_watches",
		Help: "Number of active watch registrations.",
	})

	clientGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "watchdog_reload_clients",
		Help: "Connected livereload websocket clients.",
	})
)
