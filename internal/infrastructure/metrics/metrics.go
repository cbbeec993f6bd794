package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Ventas-api/internal/application/billing"
)

var _ billing.Metrics = (*BillingMetrics)(nil)

// Config etiquetas constantes de las series.
type Config struct {
	ServiceName string
	Environment string
}

// BillingMetrics contadores e histogramas del pipeline de facturación sobre Prometheus.
type BillingMetrics struct {
	created     *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	substituted prometheus.Counter
	duration    prometheus.Histogram
}

// NewBillingMetrics registra las series en registerer (nil = registro por defecto).
// Registrar dos veces en el mismo registro hace panic, como prometheus.MustRegister.
func NewBillingMetrics(registerer prometheus.Registerer, cfg Config) *BillingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "ventas-api"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &BillingMetrics{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ventas_invoices_created_total",
			Help:        "Invoices persisted by resulting status.",
			ConstLabels: constLabels,
		}, []string{"status"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ventas_invoices_rejected_total",
			Help:        "Invoice creations rejected by low-cardinality reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ventas_invoice_items_dropped_total",
			Help:        "Basket lines dropped during product resolution.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		substituted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ventas_customer_fallback_total",
			Help:        "Customer references replaced by the walk-in customer.",
			ConstLabels: constLabels,
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "ventas_invoice_create_duration_seconds",
			Help:        "End-to-end latency of invoice creation.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			ConstLabels: constLabels,
		}),
	}
	registerer.MustRegister(m.created, m.rejected, m.dropped, m.substituted, m.duration)
	return m
}

func (m *BillingMetrics) InvoiceCreated(status string) {
	m.created.WithLabelValues(status).Inc()
}

func (m *BillingMetrics) InvoiceRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *BillingMetrics) ItemDropped(reason string) {
	m.dropped.WithLabelValues(reason).Inc()
}

func (m *BillingMetrics) CustomerSubstituted() {
	m.substituted.Inc()
}

func (m *BillingMetrics) ObserveCreateDuration(d time.Duration) {
	m.duration.Observe(d.Seconds())
}
