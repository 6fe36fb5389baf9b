// Package monitor exposes game server metrics to Prometheus.
package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the game server's collectors.
type Metrics struct {
	OnlinePlayers      prometheus.Gauge
	ActiveRooms        prometheus.Gauge
	EventsReceived     *prometheus.CounterVec
	GesturesClassified *prometheus.CounterVec
	RoundsCompleted    *prometheus.CounterVec
	EventLatency       prometheus.Histogram
}

// NewMetrics creates the collectors under namespace. They are not registered.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of players registered in the lobby",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of live rooms",
		}),
		EventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_received_total",
			Help:      "Total number of client events received",
		}, []string{"event"}),
		GesturesClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gestures_classified_total",
			Help:      "Total number of captures classified, by verdict",
		}, []string{"gesture"}),
		RoundsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_completed_total",
			Help:      "Total number of rounds decided, by outcome",
		}, []string{"outcome"}),
		EventLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_latency_seconds",
			Help:      "Client event processing latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.OnlinePlayers,
		m.ActiveRooms,
		m.EventsReceived,
		m.GesturesClassified,
		m.RoundsCompleted,
		m.EventLatency,
	}
}

// Monitor records server metrics. A nil *Monitor records nothing, so
// components can be built without metrics in tests.
type Monitor struct {
	metrics   *Metrics
	registry  *prometheus.Registry
	startTime time.Time
}

// NewMonitor creates a Monitor with its own registry, including the Go
// runtime and process collectors.
func NewMonitor(namespace string) *Monitor {
	reg := prometheus.NewRegistry()
	m := &Monitor{
		metrics:   NewMetrics(namespace),
		registry:  reg,
		startTime: time.Now(),
	}

	reg.MustRegister(m.metrics.collectors()...)
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// Uptime returns how long the monitor has been running.
func (m *Monitor) Uptime() time.Duration {
	if m == nil {
		return 0
	}
	return time.Since(m.startTime)
}

// SetOnlinePlayers records the number of registered players.
func (m *Monitor) SetOnlinePlayers(count int) {
	if m == nil {
		return
	}
	m.metrics.OnlinePlayers.Set(float64(count))
}

// SetActiveRooms records the number of live rooms.
func (m *Monitor) SetActiveRooms(count int) {
	if m == nil {
		return
	}
	m.metrics.ActiveRooms.Set(float64(count))
}

// IncEventsReceived counts one client event by name.
func (m *Monitor) IncEventsReceived(event string) {
	if m == nil {
		return
	}
	m.metrics.EventsReceived.WithLabelValues(event).Inc()
}

// ObserveEventLatency records how long handling one client event took.
func (m *Monitor) ObserveEventLatency(duration time.Duration) {
	if m == nil {
		return
	}
	m.metrics.EventLatency.Observe(duration.Seconds())
}

// IncGesturesClassified counts one classified capture by label.
func (m *Monitor) IncGesturesClassified(gesture string) {
	if m == nil {
		return
	}
	m.metrics.GesturesClassified.WithLabelValues(gesture).Inc()
}

// IncRoundsCompleted counts one finished round by outcome.
func (m *Monitor) IncRoundsCompleted(outcome string) {
	if m == nil {
		return
	}
	m.metrics.RoundsCompleted.WithLabelValues(outcome).Inc()
}
