// File: internal/observability/metrics.go
package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "hogflix_traffic"

// Metrics collects fleet, stage, primitive and provisioning counters on a
// private registry. All methods are safe on a nil receiver so components can
// run without metrics in tests.
type Metrics struct {
	mu sync.Mutex

	registry *prometheus.Registry

	sessionsTotal     *prometheus.CounterVec
	stageDuration     *prometheus.HistogramVec
	primitiveOutcomes *prometheus.CounterVec
	provisionRequests *prometheus.CounterVec

	server *http.Server
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_total",
			Help:      "Simulated user sessions by result.",
		},
		[]string{"result"},
	)
	m.stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each workflow stage.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		},
		[]string{"stage", "result"},
	)
	m.primitiveOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "primitive_outcomes_total",
			Help:      "Human interaction primitive outcomes (success, degraded, failed).",
		},
		[]string{"primitive", "status"},
	)
	m.provisionRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "provision_requests_total",
			Help:      "Calls to the browser provisioning API by operation and result.",
		},
		[]string{"operation", "result"},
	)

	m.registry.MustRegister(m.sessionsTotal, m.stageDuration, m.primitiveOutcomes, m.provisionRequests)
	return m
}

// Registry exposes the underlying registry for scraping and tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// ObserveSession counts one finished session.
func (m *Metrics) ObserveSession(succeeded bool) {
	if m == nil {
		return
	}
	m.sessionsTotal.WithLabelValues(resultLabel(succeeded)).Inc()
}

// ObserveStage records how long a workflow stage took and whether it failed.
func (m *Metrics) ObserveStage(stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage, resultLabel(err == nil)).Observe(d.Seconds())
}

// ObservePrimitive counts one interaction primitive outcome.
func (m *Metrics) ObservePrimitive(primitive, status string) {
	if m == nil {
		return
	}
	m.primitiveOutcomes.WithLabelValues(primitive, status).Inc()
}

// ObserveProvision counts one provisioning API call.
func (m *Metrics) ObserveProvision(operation string, err error) {
	if m == nil {
		return
	}
	m.provisionRequests.WithLabelValues(operation, resultLabel(err == nil)).Inc()
}

// Serve starts the scrape endpoint in the background. It returns once the
// listener is bound.
func (m *Metrics) Serve(addr, path string) error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.server != nil {
		return nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("starting metrics endpoint: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	m.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			GetLogger().Named("metrics").Warn("metrics endpoint stopped")
		}
	}(m.server)
	return nil
}

// Shutdown stops the scrape endpoint if it is running.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.server == nil {
		return nil
	}
	err := m.server.Shutdown(ctx)
	m.server = nil
	return err
}
