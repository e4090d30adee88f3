// Package metrics publica en Prometheus las métricas del cálculo de existencias.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appstock "github.com/jhoicas/warehouse-qty-api/internal/application/stock"
)

const namespace = "warehouse_qty"

var _ appstock.Recorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder implementa appstock.Recorder sobre un registry propio
// (no el global, para que las pruebas puedan crear varios).
type PrometheusRecorder struct {
	registry     *prometheus.Registry
	ledger       *prometheus.CounterVec
	computations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	warehouses   prometheus.Gauge
}

// NewPrometheusRecorder registra los colectores del cálculo y los del runtime de Go.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		ledger: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_queries_total",
			Help:      "Consultas agrupadas al ledger de quants (una por bodega y cómputo).",
		}, []string{"scope"}),
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Cómputos de warehouse_qty_map por alcance y resultado.",
		}, []string{"scope", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "computation_seconds",
			Help:      "Duración de cada cómputo de warehouse_qty_map.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"scope"}),
		warehouses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "warehouses",
			Help:      "Bodegas enumeradas en el último cómputo.",
		}),
	}
	r.registry.MustRegister(
		r.ledger, r.computations, r.duration, r.warehouses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *PrometheusRecorder) LedgerQuery(scope string) {
	r.ledger.WithLabelValues(scope).Inc()
}

func (r *PrometheusRecorder) Computation(scope string, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.computations.WithLabelValues(scope, result).Inc()
	r.duration.WithLabelValues(scope).Observe(elapsed.Seconds())
}

func (r *PrometheusRecorder) Warehouses(n int) {
	r.warehouses.Set(float64(n))
}

// Registry expone el registry (pruebas y exportadores adicionales).
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler sirve el formato de exposición de Prometheus.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
