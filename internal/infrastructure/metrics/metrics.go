package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the HTTP and domain collectors of the service.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	goldMutations    *prometheus.CounterVec
	loanApplications *prometheus.CounterVec
	loanDecisions    *prometheus.CounterVec
}

// New registers all collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		goldMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gold_ledger_mutations_total",
			Help: "Gold holdings mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		loanApplications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_applications_total",
			Help: "Loan applications by outcome.",
		}, []string{"outcome"}),
		loanDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_decisions_total",
			Help: "Loan approve/reject decisions by outcome.",
		}, []string{"decision", "outcome"}),
	}
	reg.MustRegister(
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		m.goldMutations, m.loanApplications, m.loanDecisions,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RequestStarted bumps the in-flight gauge and returns the func that records
// the finished request.
func (m *Metrics) RequestStarted() func(method, path string, status int) {
	m.httpInFlight.Inc()
	start := time.Now()
	return func(method, path string, status int) {
		s := strconv.Itoa(status)
		m.httpRequestDuration.WithLabelValues(method, path, s).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(method, path, s).Inc()
		m.httpInFlight.Dec()
	}
}

// Domain counters are no-ops on a nil *Metrics.

func (m *Metrics) GoldMutation(op string, err error) {
	if m == nil {
		return
	}
	m.goldMutations.WithLabelValues(op, outcome(err)).Inc()
}

func (m *Metrics) LoanApplication(err error) {
	if m == nil {
		return
	}
	m.loanApplications.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) LoanDecision(decision string, err error) {
	if m == nil {
		return
	}
	m.loanDecisions.WithLabelValues(decision, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
