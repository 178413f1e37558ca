package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "volunteerhub"

// Registry holds every metric exposed on /metrics.
var Registry = prometheus.NewRegistry()

// AppInfo exposes the build version as a label; the value is always 1.
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version"},
)

// MediaOperations counts object store calls by operation (upload|delete)
// and result (ok|error).
var MediaOperations = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_operations_total",
		Help:      "Total number of media store operations",
	},
	[]string{"op", "result"},
)

// MediaRollbacks counts uploaded assets removed again after a failed batch.
var MediaRollbacks = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_rollbacks_total",
		Help:      "Total number of uploaded assets deleted during rollback",
	},
)

var VolunteerRegistrations = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "volunteer_registrations_total",
		Help:      "Total number of successful volunteer registrations",
	},
)

// AuthEvents counts authentication outcomes by event (login|refresh|logout|register)
// and result (ok|rejected).
var AuthEvents = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication events",
	},
	[]string{"event", "result"},
)

var initOnce sync.Once

// Init registers runtime collectors and records the version. Safe to call
// more than once.
func Init(version string) {
	initOnce.Do(func() {
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
	AppInfo.Reset()
	AppInfo.WithLabelValues(version).Set(1)
}
