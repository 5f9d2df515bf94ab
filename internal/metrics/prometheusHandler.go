package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var activeChatConnections = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_chat_connections",
	Help: "Number of open websocket chat connections",
})

var documentsIndexed = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "documents_indexed",
	Help: "Number of documents in the active collection generation",
})

var rebuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "index_rebuilds_total",
	Help: "Collection rebuilds by outcome",
}, []string{"outcome"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementChatConnections() {
	activeChatConnections.Inc()
}

func DecrementChatConnections() {
	activeChatConnections.Dec()
}

func SetDocumentsIndexed(count int) {
	documentsIndexed.Set(float64(count))
}

func CountRebuild(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	rebuildsTotal.WithLabelValues(outcome).Inc()
}

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
