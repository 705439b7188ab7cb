package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	balance        *prometheus.GaugeVec
	stage          *prometheus.GaugeVec
	transitions    *prometheus.CounterVec
	ruleViolations *prometheus.CounterVec
	signals        *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		balance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradestage_account_balance",
				Help: "Last reported balance per account",
			},
			[]string{"account_id"},
		),
		stage: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradestage_account_stage",
				Help: "Current stage ordinal per account (0=INITIAL .. 4=EXPERT)",
			},
			[]string{"account_id"},
		),
		transitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradestage_stage_transitions_total",
				Help: "Total stage transitions by direction",
			},
			[]string{"direction"},
		),
		ruleViolations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradestage_rule_violations_total",
				Help: "Total rejected operations by rule kind",
			},
			[]string{"rule"},
		),
		signals: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradestage_signals_total",
				Help: "Total trading signals built per symbol",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradestage_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradestage_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordBalance records the last reported balance for an account.
func (r *Recorder) RecordBalance(accountID string, balance float64) {
	r.balance.WithLabelValues(accountID).Set(balance)
}

// RecordStage records the current stage ordinal for an account.
func (r *Recorder) RecordStage(accountID string, ordinal int) {
	r.stage.WithLabelValues(accountID).Set(float64(ordinal))
}

// RecordTransition records a stage transition.
func (r *Recorder) RecordTransition(direction string) {
	r.transitions.WithLabelValues(direction).Inc()
}

// RecordRuleViolation records a rejected operation.
func (r *Recorder) RecordRuleViolation(rule string) {
	r.ruleViolations.WithLabelValues(rule).Inc()
}

// RecordSignal records a built trading signal.
func (r *Recorder) RecordSignal(symbol string) {
	r.signals.WithLabelValues(symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
