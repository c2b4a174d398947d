// Package metrics holds the Prometheus collectors of the service on a dedicated registry.
package metrics

import (
	"database/sql"
	"net/http"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "storefront"

// Metrics contains every collector the service exports.
type Metrics struct {
	registry *prometheus.Registry
	enabled  bool

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	OrdersCreatedTotal *prometheus.CounterVec
	OrderRevenueTotal  *prometheus.CounterVec
	OrderRejectedTotal *prometheus.CounterVec
	OrderStatusChanges *prometheus.CounterVec
}

// New creates the collectors. With metrics disabled they still count, but nothing exposes them.
func New(cfg *config.Config) *Metrics {
	namespace := defaultNamespace
	enabled := false
	if cfg.Metrics != nil {
		enabled = cfg.Metrics.Enabled
		if cfg.Metrics.Namespace != "" {
			namespace = cfg.Metrics.Namespace
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		enabled:  enabled,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "HTTP requests currently being served.",
			},
		),
		OrdersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orders",
				Name:      "created_total",
				Help:      "Orders placed, by source.",
			},
			[]string{"source"},
		),
		OrderRevenueTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orders",
				Name:      "revenue_total",
				Help:      "Sum of order totals at placement, by source.",
			},
			[]string{"source"},
		),
		OrderRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orders",
				Name:      "rejected_total",
				Help:      "Order placements refused, by reason.",
			},
			[]string{"reason"},
		),
		OrderStatusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orders",
				Name:      "status_changes_total",
				Help:      "Order status transitions.",
			},
			[]string{"from", "to"},
		),
	}
}

// NewBusinessMetrics exposes the order counters to the use cases.
func NewBusinessMetrics(m *Metrics) service.BusinessMetrics {
	return m
}

// Enabled reports whether the collectors should be exposed over HTTP.
func (m *Metrics) Enabled() bool {
	return m.enabled
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBStats exports the connection pool statistics of db, labelled db_name=name.
func (m *Metrics) RegisterDBStats(db *sql.DB, name string) error {
	if err := m.registry.Register(collectors.NewDBStatsCollector(db, name)); err != nil {
		return errors.Wrapf(err, "failed to register pool collector for %s", name)
	}

	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) OrderCreated(source string, total float64) {
	m.OrdersCreatedTotal.WithLabelValues(source).Inc()
	m.OrderRevenueTotal.WithLabelValues(source).Add(total)
}

func (m *Metrics) OrderStatusChanged(from, to string) {
	m.OrderStatusChanges.WithLabelValues(from, to).Inc()
}

func (m *Metrics) OrderRejected(reason string) {
	m.OrderRejectedTotal.WithLabelValues(reason).Inc()
}
