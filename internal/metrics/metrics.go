// Package metrics exposes worker handle counters through Prometheus
package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "offthread"

// Message directions
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

var (
	handlesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "handles_created_total",
		Help:      "concurrent worker handles constructed",
	})

	handlesTerminated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "handles_terminated_total",
		Help:      "concurrent worker handles terminated",
	})

	handlesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "handles_active",
		Help:      "concurrent worker handles not yet terminated",
	})

	messagesPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_posted_total",
		Help:      "messages accepted for delivery, by direction",
	}, []string{"direction"})

	messagesDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_delivered_total",
		Help:      "messages handed to the receiving side, by direction",
	}, []string{"direction"})

	workerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "worker_errors_total",
		Help:      "error events raised by workers",
	})
)

// HandleCreated records a constructed concurrent handle
func HandleCreated() {
	handlesCreated.Inc()
	handlesActive.Inc()
}

// HandleTerminated records a terminated concurrent handle
func HandleTerminated() {
	handlesTerminated.Inc()
	handlesActive.Dec()
}

// MessagePosted records a message accepted in the given direction
func MessagePosted(direction string) {
	messagesPosted.WithLabelValues(direction).Inc()
}

// MessageDelivered records a message handed to its receiver
func MessageDelivered(direction string) {
	messagesDelivered.WithLabelValues(direction).Inc()
}

// WorkerError records an error event
func WorkerError() {
	workerErrors.Inc()
}

// Handler serves /metrics and /healthz
func Handler() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}
