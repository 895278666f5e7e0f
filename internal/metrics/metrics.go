// Package metrics owns the prometheus registry exposed on /metrics.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const importRowsMetric = "spendbook_import_rows_total"

// Metrics holds the application's collectors.
type Metrics struct {
	// Registry owns every collector below. A private registry lets tests
	// build as many Metrics as they like.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	reportDuration  *prometheus.HistogramVec
	importedRows    *prometheus.CounterVec
}

// New creates a registry and registers all collectors in it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spendbook_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendbook_http_requests_total",
				Help: "Total HTTP requests by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		reportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spendbook_report_build_duration_seconds",
				Help:    "Time spent composing a report.",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"view", "outcome"},
		),
		importedRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: importRowsMetric,
				Help: "CSV rows processed by the importer.",
			},
			[]string{"result"},
		),
	}
}

// ObserveReportBuild records how long one report took.
func (m *Metrics) ObserveReportBuild(view string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.reportDuration.WithLabelValues(view, outcome).Observe(d.Seconds())
}

// AddImportedRows counts importer rows; result is "imported" or "skipped".
func (m *Metrics) AddImportedRows(result string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.importedRows.WithLabelValues(result).Add(float64(n))
}

// ImportedRows reads the importer counters back from the registry, keyed by
// result label.
func (m *Metrics) ImportedRows() (map[string]float64, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	out := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() != importRowsMetric {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" {
					out[label.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}
	return out, nil
}

// Push sends the whole registry to a prometheus pushgateway under job.
// Short-lived commands use it since nothing scrapes them.
func (m *Metrics) Push(ctx context.Context, gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(m.Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}

// Middleware records duration and status for every request. Unmatched
// routes share a single label to keep cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
