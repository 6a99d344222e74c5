// Package metrics exposes Prometheus metrics for the initialization
// sequence and the HTTP surface.
package metrics

import (
	"sync"
	"time"

	"fleetgate/internal/initseq"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// transitions counts state changes by the phase entered.
	// Labels: phase
	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fleetgate",
		Subsystem: "initialization",
		Name:      "transitions_total",
		Help:      "Initialization state transitions by the phase entered",
	}, []string{"phase"})

	// phaseDuration measures how long an attempt stayed in a phase.
	// Labels: phase
	phaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fleetgate",
		Subsystem: "initialization",
		Name:      "phase_duration_seconds",
		Help:      "Time spent in each initialization phase",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"phase"})

	// outcomes counts settled attempts.
	// Labels: outcome (ready, ready_with_error, permission_denied), reason
	outcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fleetgate",
		Subsystem: "initialization",
		Name:      "outcomes_total",
		Help:      "Settled initialization attempts by outcome",
	}, []string{"outcome", "reason"})

	// HTTPRequests counts requests served by the HTTP surface.
	// Labels: route, code
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fleetgate",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"route", "code"})
)

// Outcome labels.
const (
	OutcomeReady            = "ready"
	OutcomeReadyWithError   = "ready_with_error"
	OutcomePermissionDenied = "permission_denied"
)

// Recorder turns sequencer transitions into metrics.
type Recorder struct {
	mu      sync.Mutex
	entered map[string]time.Time
}

// NewRecorder creates a recorder. Attach it with seq.OnTransition(r.Observe).
func NewRecorder() *Recorder {
	return &Recorder{entered: make(map[string]time.Time)}
}

// Observe records one transition.
func (r *Recorder) Observe(t initseq.Transition) {
	transitions.WithLabelValues(string(t.To.Phase)).Inc()

	r.mu.Lock()
	if since, ok := r.entered[t.AttemptID]; ok && t.From.Phase != initseq.PhaseNotStarted {
		phaseDuration.WithLabelValues(string(t.From.Phase)).Observe(t.At.Sub(since).Seconds())
	}
	if t.To.Terminal() || t.To.Phase == initseq.PhaseNotStarted {
		delete(r.entered, t.AttemptID)
	} else {
		r.entered[t.AttemptID] = t.At
	}
	r.mu.Unlock()

	switch t.To.Phase {
	case initseq.PhaseReady:
		if t.To.Err != nil {
			outcomes.WithLabelValues(OutcomeReadyWithError, "").Inc()
		} else {
			outcomes.WithLabelValues(OutcomeReady, "").Inc()
		}
	case initseq.PhasePermissionDenied:
		outcomes.WithLabelValues(OutcomePermissionDenied, string(t.To.Reason)).Inc()
	}
}

// Pending reports how many attempts are being timed.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entered)
}
