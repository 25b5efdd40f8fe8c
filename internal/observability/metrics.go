package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics menyimpan semua metrik Prometheus aplikasi.
type Metrics struct {
	// Registry privat, dipakai oleh endpoint /metrics
	Registry *prometheus.Registry

	httpDuration       *prometheus.HistogramVec
	ruleEvaluations    *prometheus.CounterVec
	certificatesIssued *prometheus.CounterVec
	renderDuration     *prometheus.HistogramVec
	imageFetchFailures *prometheus.CounterVec
	emailsSent         *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
}

// NewMetrics membuat registry tersendiri supaya aman dipanggil berulang kali di test.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "museum_http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status"},
		),
		ruleEvaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_certificate_rule_evaluations_total",
				Help: "Total rule engine evaluations by trigger and outcome.",
			},
			[]string{"trigger", "outcome"},
		),
		certificatesIssued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_certificates_issued_total",
				Help: "Total certificates issued by source.",
			},
			[]string{"source"},
		),
		renderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "museum_certificate_render_duration_seconds",
				Help:    "Duration of certificate PDF rendering.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"layout"},
		),
		imageFetchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_image_fetch_failures_total",
				Help: "Total remote image fetch failures that fell back to a local layout.",
			},
			[]string{"kind"},
		),
		emailsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_certificate_emails_total",
				Help: "Total certificate emails by delivery mode.",
			},
			[]string{"mode"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_cache_lookups_total",
				Help: "Total cache lookups by cache and result.",
			},
			[]string{"cache", "result"},
		),
	}
}

// Handler mengekspos registry dalam format Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) IncrRuleEvaluation(trigger, outcome string) {
	m.ruleEvaluations.WithLabelValues(trigger, outcome).Inc()
}

func (m *Metrics) IncrCertificateIssued(source string) {
	m.certificatesIssued.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveRender(layout string, d time.Duration) {
	m.renderDuration.WithLabelValues(layout).Observe(d.Seconds())
}

func (m *Metrics) IncrImageFetchFailure(kind string) {
	m.imageFetchFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrEmail(mode string) {
	m.emailsSent.WithLabelValues(mode).Inc()
}

func (m *Metrics) IncrCacheLookup(cache, result string) {
	m.cacheLookups.WithLabelValues(cache, result).Inc()
}
