package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/napolitain/hamlet/internal/models"
)

const namespace = "hamlet"

// Metrics exposes the game on its own registry
type Metrics struct {
	registry *prometheus.Registry
	actions  *prometheus.CounterVec
	stored   *prometheus.GaugeVec
	owned    *prometheus.GaugeVec
	level    prometheus.Gauge
	exp      prometheus.Gauge
}

// NewMetrics registers the game collectors. hub may be nil.
func NewMetrics(hub *Hub) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Player actions handled, by operation and result.",
		}, []string{"op", "result"}),
		stored: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resource_stored",
			Help:      "Current stock of each resource.",
		}, []string{"resource"}),
		owned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buildings_owned",
			Help:      "Units owned of each building.",
		}, []string{"building"}),
		level: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "player_level",
			Help:      "Current player level.",
		}),
		exp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "player_exp",
			Help:      "Experience towards the next level.",
		}),
	}
	m.registry.MustRegister(
		m.actions, m.stored, m.owned, m.level, m.exp,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if hub != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected websocket clients.",
		}, func() float64 { return float64(hub.Clients()) }))
	}
	return m
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Action counts one handled player action
func (m *Metrics) Action(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.actions.WithLabelValues(op, result).Inc()
}

// Observe mirrors a state into the gauges
func (m *Metrics) Observe(s *models.GameState) {
	for name, r := range s.Resources {
		m.stored.WithLabelValues(string(name)).Set(r.Stored)
	}
	for name, b := range s.Buildings {
		m.owned.WithLabelValues(string(name)).Set(float64(b.Amount))
	}
	m.level.Set(float64(s.Player.Level))
	m.exp.Set(s.Player.Exp)
}
