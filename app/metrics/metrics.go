// Package metrics exposes the bot's Prometheus collectors.
//
// Label sets stay bounded: kind, route and outcome come from fixed
// dispatcher constants; backend ops are a closed set.
package metrics

import (
	"context"
	"time"

	"github.com/m3rciful/moviebot/app/dispatch"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "moviebot"

// Metrics holds the collectors registered for one bot instance.
type Metrics struct {
	reg prometheus.Registerer

	decisions   *prometheus.CounterVec
	decisionLat *prometheus.HistogramVec
	messages    prometheus.Counter
	backendReqs *prometheus.CounterVec
	backendLat  *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		reg: reg,
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "updates_total",
				Help:      "Updates handled, by kind, route and outcome.",
			},
			[]string{"kind", "route", "outcome"},
		),
		decisionLat: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "update_duration_seconds",
				Help:      "Time spent handling one update.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Chat messages sent in reply to updates.",
		}),
		backendReqs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_requests_total",
				Help:      "Catalog backend calls, by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		backendLat: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_request_duration_seconds",
				Help:      "Catalog backend call latency.",
				Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"op"},
		),
	}
	for _, c := range []prometheus.Collector{m.decisions, m.decisionLat, m.messages, m.backendReqs, m.backendLat} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe implements dispatch.Observer.
func (m *Metrics) Observe(_ context.Context, d dispatch.Decision) {
	m.decisions.WithLabelValues(d.Kind, d.Route, d.Outcome).Inc()
	m.decisionLat.WithLabelValues(d.Route).Observe(d.Duration.Seconds())
	if d.Messages > 0 {
		m.messages.Add(float64(d.Messages))
	}
}

// BackendCall records one backend request. Its signature matches backend.Options.OnCall.
func (m *Metrics) BackendCall(op, outcome string, took time.Duration) {
	m.backendReqs.WithLabelValues(op, outcome).Inc()
	m.backendLat.WithLabelValues(op).Observe(took.Seconds())
}

// Gauge registers a gauge sampled from fn at scrape time.
func (m *Metrics) Gauge(name, help string, fn func() float64) error {
	return m.reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

// CounterFunc registers a counter read from fn at scrape time. fn must never decrease.
func (m *Metrics) CounterFunc(name, help string, fn func() float64) error {
	return m.reg.Register(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

var _ dispatch.Observer = (*Metrics)(nil)
