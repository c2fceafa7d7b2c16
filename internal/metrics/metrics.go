// Package metrics collects and exposes Prometheus metrics for the solver:
// how often each dispatch rule runs, how long solves take, and what they
// produce. Scraped through the /metrics endpoint in serve mode.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the solver's Prometheus instruments.
type Collector struct {
	solvesTotal         *prometheus.CounterVec
	solveErrors         prometheus.Counter
	solveDuration       prometheus.Histogram
	lastMakespan        prometheus.Gauge
	operationsScheduled prometheus.Counter
	operationsUnplaced  prometheus.Counter
}

// NewCollector creates and registers the solver metrics on the default
// registerer.
func NewCollector() *Collector {
	c := &Collector{
		solvesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobshop_solves_total",
			Help: "Total number of solve calls, per dispatch rule",
		}, []string{"algorithm"}),
		solveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobshop_solve_errors_total",
			Help: "Total number of solve calls that returned an error",
		}),
		solveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobshop_solve_duration_seconds",
			Help:    "Wall-clock duration of solve calls in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		lastMakespan: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jobshop_last_makespan",
			Help: "Makespan of the most recent completed solve",
		}),
		operationsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobshop_operations_scheduled_total",
			Help: "Total number of operations placed by the solver",
		}),
		operationsUnplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobshop_operations_unplaced_total",
			Help: "Total number of operations the solver could not place",
		}),
	}

	prometheus.MustRegister(c.solvesTotal)
	prometheus.MustRegister(c.solveErrors)
	prometheus.MustRegister(c.solveDuration)
	prometheus.MustRegister(c.lastMakespan)
	prometheus.MustRegister(c.operationsScheduled)
	prometheus.MustRegister(c.operationsUnplaced)

	return c
}

// RecordSolve records one completed solve: which rule ran, how long it
// took, and what it produced.
func (c *Collector) RecordSolve(algorithm string, seconds float64, makespan, scheduled, unplaced int) {
	c.solvesTotal.WithLabelValues(algorithm).Inc()
	c.solveDuration.Observe(seconds)
	c.lastMakespan.Set(float64(makespan))
	c.operationsScheduled.Add(float64(scheduled))
	if unplaced > 0 {
		c.operationsUnplaced.Add(float64(unplaced))
	}
}

// RecordError records a solve call that failed before producing a result.
func (c *Collector) RecordError() {
	c.solveErrors.Inc()
}

// Handler returns the scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartServer exposes /metrics on its own listener at the given port and
// blocks. Used when scraping should not go through the API port.
func StartServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, mux)
}
