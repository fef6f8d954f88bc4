// Package observability holds the Prometheus collectors and gin middleware
// shared by the dispatcher, the dialog messenger and the dialog HTTP host.
package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	actions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "exbatch",
			Subsystem: "dispatcher",
			Name:      "actions_total",
			Help:      "Dispatcher actions by outcome.",
		},
		[]string{"action", "outcome"},
	)
	actionCommands = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "exbatch",
			Subsystem: "dispatcher",
			Name:      "batch_commands",
			Help:      "Commands queued per synchronized batch.",
			Buckets:   prometheus.LinearBuckets(5, 5, 8),
		},
		[]string{"action"},
	)
	dialogEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "exbatch",
			Subsystem: "dialog",
			Name:      "events_total",
			Help:      "Dialog session lifecycle events.",
		},
		[]string{"event"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "exbatch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "exbatch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Dialog event labels.
const (
	DialogOpened    = "opened"
	DialogRejected  = "rejected"
	DialogReplaced  = "replaced"
	DialogFailed    = "display_failed"
	DialogMessage   = "message"
	DialogDismissed = "dismissed"
	DialogCancelled = "cancelled"
	DialogClosed    = "closed"
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(actions, actionCommands, dialogEvents, httpRequests, httpDuration)
	})
}

// RecordAction counts one dispatcher action and the size of its batch.
func RecordAction(action string, commands int, ok bool) {
	RegisterMetrics()
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	actions.WithLabelValues(action, outcome).Inc()
	actionCommands.WithLabelValues(action).Observe(float64(commands))
}

func RecordDialogEvent(event string) {
	RegisterMetrics()
	dialogEvents.WithLabelValues(event).Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
