// Package metrics records engine activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch outcomes.
const (
	OutcomeApplied  = "applied"  // the document changed
	OutcomeNoop     = "noop"     // valid command, nothing to change
	OutcomeRejected = "rejected" // token did not parse
)

// Recorder receives engine measurements. The engine only talks to this
// interface, so tests and embedders can run without a registry.
type Recorder interface {
	Dispatch(verb, outcome string, took time.Duration)
	History(op string)
	Depth(past, future int)
	Slides(n int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Dispatch(string, string, time.Duration) {}
func (Nop) History(string)                         {}
func (Nop) Depth(int, int)                         {}
func (Nop) Slides(int)                             {}

// Prometheus is a Recorder backed by client_golang collectors.
type Prometheus struct {
	dispatches *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	history    *prometheus.CounterVec
	past       prometheus.Gauge
	future     prometheus.Gauge
	slides     prometheus.Gauge
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "deck",
				Name:      "dispatch_total",
				Help:      "Action tokens dispatched, by verb and outcome.",
			},
			[]string{"verb", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "deck",
				Name:      "dispatch_duration_seconds",
				Help:      "Time spent applying an action token.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"verb"},
		),
		history: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "deck",
				Name:      "history_operations_total",
				Help:      "History operations: record, commit, undo, redo.",
			},
			[]string{"op"},
		),
		past: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "deck",
			Name:      "history_past_entries",
			Help:      "Entries on the undo stack.",
		}),
		future: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "deck",
			Name:      "history_future_entries",
			Help:      "Entries on the redo stack.",
		}),
		slides: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "deck",
			Name:      "document_slides",
			Help:      "Slides in the current document.",
		}),
	}
	for _, c := range []prometheus.Collector{p.dispatches, p.latency, p.history, p.past, p.future, p.slides} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) Dispatch(verb, outcome string, took time.Duration) {
	p.dispatches.WithLabelValues(verb, outcome).Inc()
	p.latency.WithLabelValues(verb).Observe(took.Seconds())
}

func (p *Prometheus) History(op string) {
	p.history.WithLabelValues(op).Inc()
}

func (p *Prometheus) Depth(past, future int) {
	p.past.Set(float64(past))
	p.future.Set(float64(future))
}

func (p *Prometheus) Slides(n int) {
	p.slides.Set(float64(n))
}
