// Package metrics exposes Prometheus counters for classifications and the
// HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

// Recorder holds every collector. Build one per registry.
type Recorder struct {
	gatherer prometheus.Gatherer

	classificationsTotal *prometheus.CounterVec
	coercionsTotal       *prometheus.CounterVec
	invalidInputsTotal   *prometheus.CounterVec
	caseMixIndex         prometheus.Histogram

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge
}

// NewRecorder registers all collectors on reg.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		gatherer: reg,

		classificationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caremix_classifications_total",
				Help: "Total number of assessments classified",
			},
			[]string{"rug_category", "branch"},
		),
		coercionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caremix_item_coercions_total",
				Help: "Total number of item values coerced during scoring",
			},
			[]string{"section", "reason"},
		),
		invalidInputsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caremix_invalid_inputs_total",
				Help: "Total number of requests rejected at the engine boundary",
			},
			[]string{"field"},
		),
		caseMixIndex: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "caremix_case_mix_index",
				Help:    "Distribution of assigned case-mix indices",
				Buckets: []float64{1.0, 1.1, 1.2, 1.3, 1.5, 1.75, 2.0, 2.5, 3.0, 3.5},
			},
		),

		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		httpInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),
	}
}

// ObserveReport records one classification and its coercions.
func (r *Recorder) ObserveReport(rep *model.Report) {
	r.classificationsTotal.WithLabelValues(string(rep.Classification.RUGCategory), rep.Branch).Inc()
	r.caseMixIndex.Observe(rep.Classification.CaseMixIndex)
	for _, c := range rep.Coercions {
		r.coercionsTotal.WithLabelValues(string(c.Section), string(c.Reason)).Inc()
	}
}

// RecordInvalidInput counts a boundary rejection.
func (r *Recorder) RecordInvalidInput(field string) {
	r.invalidInputsTotal.WithLabelValues(field).Inc()
}

// RecordHTTPRequest records one finished HTTP request. path should be the
// route template, not the raw URL, to keep label cardinality bounded.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	r.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// InFlight returns the in-flight gauge.
func (r *Recorder) InFlight() prometheus.Gauge { return r.httpInFlight }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
