package service

import (
	"time"

	"go.opentelemetry.io/otel"
)

// Metrics adalah counter domain yang dicatat service (diimplementasikan observability.Metrics)
type Metrics interface {
	IncrRuleEvaluation(trigger, outcome string)
	IncrCertificateIssued(source string)
	ObserveRender(layout string, d time.Duration)
	IncrEmail(mode string)
}

type noopMetrics struct{}

func (noopMetrics) IncrRuleEvaluation(string, string)   {}
func (noopMetrics) IncrCertificateIssued(string)        {}
func (noopMetrics) ObserveRender(string, time.Duration) {}
func (noopMetrics) IncrEmail(string)                    {}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

var tracer = otel.Tracer("github.com/ahmadqo/museum-engagement-ledger/internal/service")
