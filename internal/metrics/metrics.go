// Package metrics exposes Prometheus collectors for the insights service.
package metrics

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	insightsRunsTotal          *prometheus.CounterVec
	pagesFetchedTotal          *prometheus.CounterVec
	fetchDurationSeconds       *prometheus.HistogramVec
	productsFetchedTotal       prometheus.Counter
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		insightsRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_runs_total",
				Help: "Total pipeline runs, labeled by outcome.",
			},
			[]string{"status"},
		)

		pagesFetchedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_pages_fetched_total",
				Help: "Total pages fetched, labeled by site and outcome.",
			},
			[]string{"site", "status"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "insights_fetch_duration_seconds",
				Help:    "Histogram of outbound fetch latencies, labeled by site.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"site"},
		)

		productsFetchedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "insights_products_fetched_total",
				Help: "Total catalog products normalized across all runs.",
			},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of inbound HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60},
			},
			[]string{"method", "route"},
		)
	})
}

// SanitizeSite reduces a URL to a lowercase hostname label.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRun increments the run counter for the given outcome.
func ObserveRun(status string) {
	insightsRunsTotal.WithLabelValues(status).Inc()
}

// ObserveFetch records one outbound page fetch.
func ObserveFetch(site, status string, duration time.Duration) {
	sanitized := SanitizeSite(site)
	pagesFetchedTotal.WithLabelValues(sanitized, status).Inc()
	fetchDurationSeconds.WithLabelValues(sanitized).Observe(duration.Seconds())
}

// AddProducts increments the normalized product counter.
func AddProducts(n int) {
	if n > 0 {
		productsFetchedTotal.Add(float64(n))
	}
}

// ObserveHTTPRequest records one inbound API request.
func ObserveHTTPRequest(method, route string, duration time.Duration) {
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
