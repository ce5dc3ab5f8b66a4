// Package metrics exposes the dashboard's operational counters in the
// Prometheus text format.
//
// Metrics live in their own registry rather than the global default one, so
// tests can create as many instances as they like.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerrad567/homedash-core/internal/automation"
)

const namespace = "homedash"

// Push update results.
const (
	PushApplied  = "applied"
	PushRejected = "rejected"
)

// Metrics holds the collectors.
type Metrics struct {
	registry         *prometheus.Registry
	scenesExecuted   *prometheus.CounterVec
	pushUpdates      *prometheus.CounterVec
	storageFallbacks *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go
// runtime collectors, in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scenesExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scenes_executed_total",
				Help:      "Scenes applied to the device registry.",
			},
			[]string{"scope"},
		),
		pushUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "push_updates_total",
				Help:      "Device updates received from the home controller.",
			},
			[]string{"result"},
		),
		storageFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_fallbacks_total",
				Help:      "Remote storage operations served by the local fallback.",
			},
			[]string{"op"},
		),
	}

	m.registry.MustRegister(
		m.scenesExecuted,
		m.pushUpdates,
		m.storageFallbacks,
		collectors.NewGoCollector(),
	)
	return m
}

// SceneExecuted counts an executed scene.
func (m *Metrics) SceneExecuted(scope automation.Scope) {
	m.scenesExecuted.WithLabelValues(string(scope)).Inc()
}

// PushUpdate counts a device update from the home controller; result is
// PushApplied or PushRejected.
func (m *Metrics) PushUpdate(result string) {
	m.pushUpdates.WithLabelValues(result).Inc()
}

// StorageFallback counts a remote storage operation that fell back to the
// local store.
func (m *Metrics) StorageFallback(op string) {
	m.storageFallbacks.WithLabelValues(op).Inc()
}

// WatchBlindDrives exposes the number of running blind drives, read from
// fn at scrape time.
func (m *Metrics) WatchBlindDrives(fn func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "blind_drives_active",
			Help:      "Blind drives currently running.",
		},
		func() float64 { return float64(fn()) },
	))
}

// WatchWSClients exposes the number of connected WebSocket clients, read
// from fn at scrape time.
func (m *Metrics) WatchWSClients(fn func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected WebSocket clients.",
		},
		func() float64 { return float64(fn()) },
	))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
