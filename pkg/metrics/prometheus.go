package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	passesTotal   *prometheus.CounterVec
	passDuration  *prometheus.HistogramVec
	fetchSymbols  prometheus.Gauge
	fetchDuration prometheus.Histogram
	alertsTotal   *prometheus.CounterVec
	impliedMove   *prometheus.GaugeVec
	errorsTotal   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		passesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navpull_passes_total",
				Help: "Total number of aggregation passes, by trigger",
			},
			[]string{"trigger"},
		),
		passDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "navpull_pass_duration_seconds",
				Help:    "Duration of aggregation passes in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"trigger"},
		),
		fetchSymbols: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "navpull_fetch_symbols",
				Help: "Symbols returned by the last price fetch",
			},
		),
		fetchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "navpull_fetch_duration_seconds",
				Help:    "Duration of price fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		alertsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navpull_alerts_total",
				Help: "Alert escalations sent, by fund and level",
			},
			[]string{"fund", "level"},
		),
		impliedMove: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "navpull_implied_move_percent",
				Help: "Latest implied NAV move per fund",
			},
			[]string{"fund"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navpull_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordPass records a completed aggregation pass.
func (r *Recorder) RecordPass(trigger string, seconds float64) {
	r.passesTotal.WithLabelValues(trigger).Inc()
	r.passDuration.WithLabelValues(trigger).Observe(seconds)
}

// RecordFetch records the outcome of a price fetch.
func (r *Recorder) RecordFetch(symbols int, seconds float64) {
	r.fetchSymbols.Set(float64(symbols))
	r.fetchDuration.Observe(seconds)
}

// RecordAlert records an alert escalation.
func (r *Recorder) RecordAlert(fund string, level int) {
	r.alertsTotal.WithLabelValues(fund, levelLabel(level)).Inc()
}

// RecordImpliedMove records the latest implied move for a fund.
func (r *Recorder) RecordImpliedMove(fund string, move float64) {
	r.impliedMove.WithLabelValues(fund).Set(move)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func levelLabel(level int) string {
	switch level {
	case 1:
		return "warning"
	case 2:
		return "critical"
	default:
		return "none"
	}
}
