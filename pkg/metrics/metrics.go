// Package metrics provides Prometheus metrics for the role-play service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Turn outcomes.
const (
	OutcomeOpening  = "opening"
	OutcomeReply    = "reply"
	OutcomeDegraded = "degraded"
	OutcomeInvalid  = "invalid"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Dialogue metrics
	TurnsTotal         *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	ActiveSessions     prometheus.GaugeFunc

	// Evaluation metrics
	SessionsEndedTotal prometheus.Counter
	OverallScore       prometheus.Histogram

	// Speech metrics
	SpeechRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a dedicated registry.
// activeSessions is sampled on every scrape.
func NewMetrics(activeSessions func() int) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &Metrics{Registry: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roleplay_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roleplay_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.TurnsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roleplay_dialogue_turns_total",
			Help: "Dialogue turns by outcome",
		},
		[]string{"outcome"},
	)

	m.GenerationDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roleplay_generation_duration_seconds",
			Help:    "Latency of text-generation calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
	)

	m.ActiveSessions = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "roleplay_active_sessions",
			Help: "Number of sessions currently held in memory",
		},
		func() float64 {
			if activeSessions == nil {
				return 0
			}
			return float64(activeSessions())
		},
	)

	m.SessionsEndedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "roleplay_sessions_ended_total",
			Help: "Total number of ended sessions",
		},
	)

	m.OverallScore = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roleplay_overall_score",
			Help:    "Distribution of overall session scores",
			Buckets: prometheus.LinearBuckets(50, 5, 11),
		},
	)

	m.SpeechRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roleplay_speech_requests_total",
			Help: "Speech synthesis requests by result",
		},
		[]string{"result"},
	)

	return m
}

// ObserveTurn records one dialogue turn outcome.
func (m *Metrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.TurnsTotal.WithLabelValues(outcome).Inc()
}

// ObserveGeneration records the latency of one generation call.
func (m *Metrics) ObserveGeneration(d time.Duration) {
	if m == nil {
		return
	}
	m.GenerationDuration.Observe(d.Seconds())
}

// ObserveSessionEnded records an ended session and its overall score.
func (m *Metrics) ObserveSessionEnded(overall int) {
	if m == nil {
		return
	}
	m.SessionsEndedTotal.Inc()
	m.OverallScore.Observe(float64(overall))
}

// ObserveSpeech records a speech request result (hit, miss, error).
func (m *Metrics) ObserveSpeech(result string) {
	if m == nil {
		return
	}
	m.SpeechRequestsTotal.WithLabelValues(result).Inc()
}
