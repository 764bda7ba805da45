package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// EventsIngested counts domain events accepted by the ingest endpoint.
	EventsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "parley_events_ingested_total", Help: "Domain events accepted for dispatch."},
		[]string{"channel"},
	)

	// Deliveries counts Slack delivery outcomes by event channel and status.
	Deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "parley_deliveries_total", Help: "Slack deliveries by event channel and status."},
		[]string{"channel", "status"},
	)

	// DeliveryLatency tracks Slack delivery latencies in milliseconds.
	DeliveryLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "parley_delivery_latency_ms", Help: "Slack delivery latency in ms.", Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000}},
		[]string{"channel", "status"},
	)
)

var regOnce sync.Once

// Register registers all collectors on the service registry.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(EventsIngested)
		Registry.MustRegister(Deliveries)
		Registry.MustRegister(DeliveryLatency)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
