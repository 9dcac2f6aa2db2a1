package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the dashboard service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry       *prometheus.Registry
	widgetFetches  *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
	dashboardSaves *prometheus.CounterVec
	editorSessions prometheus.Gauge
	viewers        prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		widgetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "widget_fetch_total",
			Help: "Widget data fetches by data source and outcome.",
		}, []string{"source", "status"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "widget_fetch_duration_seconds",
			Help:    "Latency of widget data provider calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "widget_cache_lookups_total",
			Help: "Widget data cache lookups by result.",
		}, []string{"result"}),
		dashboardSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_saves_total",
			Help: "Editor session saves by result.",
		}, []string{"result"}),
		editorSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "editor_sessions_active",
			Help: "Open dashboard editor sessions.",
		}),
		viewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "runtime_viewers_active",
			Help: "Connected live dashboard viewers.",
		}),
	}

	m.Registry.MustRegister(
		m.widgetFetches,
		m.fetchDuration,
		m.cacheLookups,
		m.dashboardSaves,
		m.editorSessions,
		m.viewers,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveFetch(source string, started time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.widgetFetches.WithLabelValues(source, status).Inc()
	m.fetchDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSave(err error) {
	if m == nil {
		return
	}
	result := "saved"
	if err != nil {
		result = "failed"
	}
	m.dashboardSaves.WithLabelValues(result).Inc()
}

func (m *Metrics) SetEditorSessions(n int) {
	if m == nil {
		return
	}
	m.editorSessions.Set(float64(n))
}

func (m *Metrics) ViewerConnected() {
	if m != nil {
		m.viewers.Inc()
	}
}

func (m *Metrics) ViewerDisconnected() {
	if m != nil {
		m.viewers.Dec()
	}
}
