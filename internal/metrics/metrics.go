// Package metrics - счётчики Prometheus для генерации PDF и загрузок.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы генерации PDF.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeError    = "error"
)

type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	uploads        *prometheus.CounterVec
}

// New регистрирует метрики в registry. nil registry - метрики только в памяти.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "volvera_contract_renders_total",
			Help: "Total number of contract PDF renders by language and outcome",
		}, []string{"lang", "mode", "outcome"}),
		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "volvera_contract_render_duration_seconds",
			Help:    "Contract PDF render duration",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"lang"}),
		uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "volvera_document_uploads_total",
			Help: "Total number of document upload attempts by result",
		}, []string{"result"}),
	}
}

// ObserveRender вызывается на каждый запрос PDF. mode - template или contract.
func (m *Metrics) ObserveRender(lang, mode, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(lang, mode, outcome).Inc()
	m.renderDuration.WithLabelValues(lang).Observe(elapsed.Seconds())
}

// ObserveUpload: result - stored, rate_limited, rejected.
func (m *Metrics) ObserveUpload(result string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
}

// Default - метрики процесса, зарегистрированные в prometheus.DefaultRegisterer.
var Default = New(prometheus.DefaultRegisterer)
