// Package metrics métricas Prometheus de emisión de comprobantes y del servidor HTTP.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/afip-mock/internal/application/billing"
)

var _ billing.Metrics = (*Metrics)(nil)

// Config etiquetas constantes de todas las series.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics implementa billing.Metrics y registra las métricas HTTP.
type Metrics struct {
	invoicesIssued   *prometheus.CounterVec
	invoicesRejected *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New crea y registra las métricas en registerer (DefaultRegisterer si es nil).
func New(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "afip-mock"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		invoicesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "afip_invoices_issued_total",
			Help:        "Comprobantes autorizados con CAE por tipo de comprobante.",
			ConstLabels: constLabels,
		}, []string{"invoice_type"}),
		invoicesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "afip_invoices_rejected_total",
			Help:        "Comprobantes rechazados por motivo (validation, sequence, internal).",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "afip_issuance_stage_duration_seconds",
			Help:        "Tiempo transcurrido desde el inicio de la emisión al cerrar cada etapa.",
			Buckets:     []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			ConstLabels: constLabels,
		}, []string{"stage"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "afip_http_requests_total",
			Help:        "Peticiones HTTP por método, ruta y código de estado.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "afip_http_request_duration_seconds",
			Help:        "Latencia de peticiones HTTP, incluidas las demoras simuladas.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
	}

	registerer.MustRegister(
		m.invoicesIssued,
		m.invoicesRejected,
		m.stageDuration,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// InvoiceIssued implementa billing.Metrics.
func (m *Metrics) InvoiceIssued(invoiceType int) {
	m.invoicesIssued.WithLabelValues(strconv.Itoa(invoiceType)).Inc()
}

// InvoiceRejected implementa billing.Metrics.
func (m *Metrics) InvoiceRejected(reason string) {
	m.invoicesRejected.WithLabelValues(reason).Inc()
}

// StageDuration implementa billing.Metrics.
func (m *Metrics) StageDuration(stage billing.Stage, d time.Duration) {
	m.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
}

// ObserveHTTP registra una petición. route es el patrón de la ruta, no la URL.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
