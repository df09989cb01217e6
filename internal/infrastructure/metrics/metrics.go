package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/usecase"
)

const namespace = "adbilling"

var _ usecase.Metrics = (*Metrics)(nil)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Billing metrics
	BillingAttempts *prometheus.CounterVec
	Transitions     *prometheus.CounterVec

	// Remote calls to the advertiser side
	RemoteCalls    *prometheus.CounterVec
	RemoteDuration *prometheus.HistogramVec

	// Reconciliation metrics
	Resolutions      *prometheus.CounterVec
	SweepDuration    prometheus.Histogram
	SweepErrors      prometheus.Counter
	MutationsPurged  prometheus.Counter
	GuardRestoreRows prometheus.Counter

	// Balance metrics
	BalanceMutations *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		BillingAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "billing_attempts_total",
				Help:      "Billing attempts by outcome",
			},
			[]string{"outcome"},
		),
		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transaction_transitions_total",
				Help:      "Ledger state transitions by target state",
			},
			[]string{"state"},
		),

		RemoteCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_calls_total",
				Help:      "Calls to the balance owner by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		RemoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "remote_call_duration_seconds",
				Help:      "Duration of calls to the balance owner",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),

		Resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconcile_resolutions_total",
				Help:      "Reconciliation resolutions by result",
			},
			[]string{"resolution"},
		),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Duration of reconciliation sweeps",
			Buckets:   prometheus.DefBuckets,
		}),
		SweepErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_errors_total",
			Help:      "Sweeps that could not complete",
		}),
		MutationsPurged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_purged_total",
			Help:      "Expired balance mutation dedupe records removed",
		}),
		GuardRestoreRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_restored_reservations_total",
			Help:      "Guard reservations restored from the ledger",
		}),

		BalanceMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "balance_mutations_total",
				Help:      "Balance mutations by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
	}
}

// ObserveBilling counts a finished billing attempt.
func (m *Metrics) ObserveBilling(outcome string) {
	m.BillingAttempts.WithLabelValues(outcome).Inc()
}

// ObserveTransition counts a ledger state change.
func (m *Metrics) ObserveTransition(to domain.TransactionState) {
	m.Transitions.WithLabelValues(string(to)).Inc()
}

// ObserveRemoteCall records a call to the balance owner.
func (m *Metrics) ObserveRemoteCall(operation, outcome string, duration time.Duration) {
	m.RemoteCalls.WithLabelValues(operation, outcome).Inc()
	m.RemoteDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveResolution counts a reconciliation result.
func (m *Metrics) ObserveResolution(resolution string) {
	m.Resolutions.WithLabelValues(resolution).Inc()
}

// ObserveBalanceMutation counts an advertiser-side mutation.
func (m *Metrics) ObserveBalanceMutation(kind domain.TransactionKind, outcome domain.MutationOutcome) {
	m.BalanceMutations.WithLabelValues(string(kind), string(outcome)).Inc()
}

// ObserveSweep records one sweep run.
func (m *Metrics) ObserveSweep(duration time.Duration, err error) {
	m.SweepDuration.Observe(duration.Seconds())
	if err != nil {
		m.SweepErrors.Inc()
	}
}

// ObservePurge counts removed dedupe records.
func (m *Metrics) ObservePurge(n int64) {
	m.MutationsPurged.Add(float64(n))
}

// ObserveGuardRestore counts reservations restored at startup.
func (m *Metrics) ObserveGuardRestore(n int) {
	m.GuardRestoreRows.Add(float64(n))
}
