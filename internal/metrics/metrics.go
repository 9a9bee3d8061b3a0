// Package metrics exposes request and process telemetry on a dedicated
// Prometheus registry, so default collectors from other libraries never
// leak into the scrape output.
package metrics

import (
	"context"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v4/process"
)

const sampleInterval = 2 * time.Second

// Metrics bundles the service collectors around a private registry.
type Metrics struct {
	registry *prometheus.Registry
	proc     *process.Process

	requests   *prometheus.CounterVec
	detections prometheus.Counter
	fallbacks  prometheus.Counter
	duration   prometheus.Histogram
	memUsage   prometheus.Gauge
	cpuUsage   prometheus.Gauge
}

// New builds the collectors and registers them.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		proc:     &process.Process{Pid: int32(os.Getpid())},
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "detect_requests_total",
			Help: "Total detection requests by engine and status",
		}, []string{"engine", "status"}),
		detections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "detections_total",
			Help: "Total objects reported across all responses",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backend_fallbacks_total",
			Help: "Requests where the real backend failed and the heuristic answered",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "detect_duration_seconds",
			Help:    "Detection request latency",
			Buckets: prometheus.DefBuckets,
		}),
		memUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "process_memory_megabytes",
			Help: "Resident memory in megabytes",
		}),
		cpuUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "process_cpu_percent",
			Help: "Process CPU usage in percent",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.detections,
		m.fallbacks,
		m.duration,
		m.memUsage,
		m.cpuUsage,
	)
	return m
}

// ObserveRequest records one finished detection request.
func (m *Metrics) ObserveRequest(engine, status string, count int, elapsed time.Duration) {
	m.requests.WithLabelValues(engine, status).Inc()
	m.detections.Add(float64(count))
	m.duration.Observe(elapsed.Seconds())
}

// ObserveFallback records a real-backend failure answered heuristically.
func (m *Metrics) ObserveFallback() {
	m.fallbacks.Inc()
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// StartSampling updates the process gauges on a ticker until the
// context is cancelled.
func (m *Metrics) StartSampling(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sampleInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sampleProcess()
			}
		}
	}()
}

func (m *Metrics) sampleProcess() {
	if mem, err := m.proc.MemoryInfo(); err == nil {
		m.memUsage.Set(float64(mem.RSS) / 1024 / 1024)
	}
	if cpu, err := m.proc.CPUPercent(); err == nil {
		m.cpuUsage.Set(math.Round(cpu*100) / 100)
	}
}
