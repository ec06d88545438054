package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/feral-file/ff-confirmator/internal/domain"
)

const (
	Namespace = "confirmator"

	// Status label values for success/error metrics
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"

	// Event outcome label values
	OutcomeEmitted     = "emitted"
	OutcomeProgress    = "progress"
	OutcomeInvalidated = "invalidated"
	OutcomeCollected   = "collected"
	OutcomeStuck       = "stuck"
)

// Metrics holds the Prometheus collectors of the confirmator.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	runs          *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	events        *prometheus.CounterVec
	pendingEvents *prometheus.GaugeVec
	trackedBlock  *prometheus.GaugeVec
	headBlock     prometheus.Gauge
	notifications *prometheus.CounterVec
	receipts      *prometheus.CounterVec
}

// New creates a new Metrics instance and registers all metrics with the provided registerer.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Total confirmation routine runs by contract and status",
		}, []string{"contract", "status"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Confirmation routine duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"contract"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "events_total",
			Help:      "Total pending events handled by contract and outcome",
		}, []string{"contract", "outcome"}),
		pendingEvents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "pending_events",
			Help:      "Number of events loaded by the last routine run",
		}, []string{"contract"}),
		trackedBlock: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "tracked_block",
			Help:      "Highest block number holding a finalized event",
		}, []string{"contract"}),
		headBlock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "head_block",
			Help:      "Latest chain head seen by the block emitter",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "notifications_total",
			Help:      "Total notifications dispatched by kind",
		}, []string{"kind"}),
		receipts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "receipts",
			Name:      "validated_total",
			Help:      "Total receipt validations by result",
		}, []string{"result"}),
	}

	err := errors.Join(
		reg.Register(m.runs),
		reg.Register(m.runDuration),
		reg.Register(m.events),
		reg.Register(m.pendingEvents),
		reg.Register(m.trackedBlock),
		reg.Register(m.headBlock),
		reg.Register(m.notifications),
		reg.Register(m.receipts),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRun records the outcome and duration of a routine run
func (m *Metrics) RecordRun(contract string, err error, durationSeconds float64) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.runs.WithLabelValues(contract, status).Inc()
	m.runDuration.WithLabelValues(contract).Observe(durationSeconds)
}

// RecordSkippedRun records a run skipped because the contract lock was held elsewhere
func (m *Metrics) RecordSkippedRun(contract string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(contract, StatusSkipped).Inc()
}

// AddEvents counts events handled with the given outcome
func (m *Metrics) AddEvents(contract string, outcome string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.events.WithLabelValues(contract, outcome).Add(float64(count))
}

// SetPendingEvents records the number of events loaded by a run
func (m *Metrics) SetPendingEvents(contract string, count int) {
	if m == nil {
		return
	}
	m.pendingEvents.WithLabelValues(contract).Set(float64(count))
}

// SetTrackedBlock records the block tracker position of a contract
func (m *Metrics) SetTrackedBlock(contract string, number uint64) {
	if m == nil {
		return
	}
	m.trackedBlock.WithLabelValues(contract).Set(float64(number))
}

// SetHeadBlock records the latest chain head
func (m *Metrics) SetHeadBlock(number uint64) {
	if m == nil {
		return
	}
	m.headBlock.Set(float64(number))
}

// RecordReceipt records a receipt validation result
func (m *Metrics) RecordReceipt(valid bool, err error) {
	if m == nil {
		return
	}
	result := "valid"
	switch {
	case err != nil:
		result = StatusError
	case !valid:
		result = "invalid"
	}
	m.receipts.WithLabelValues(result).Inc()
}

// CountNotification counts a dispatched notification.
// Its signature matches messaging.Handler so it can be subscribed to a registry.
func (m *Metrics) CountNotification(_ context.Context, notification *domain.Notification) error {
	if m == nil {
		return nil
	}
	m.notifications.WithLabelValues(string(notification.Kind)).Inc()
	return nil
}
