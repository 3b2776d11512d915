package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "approval_service"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	ApprovalsCreatedTotal    prometheus.Counter
	ApprovalTransitionsTotal *prometheus.CounterVec
	ApprovalsByStatus        *prometheus.GaugeVec
	AttachmentsUploadedTotal prometheus.Counter
	AttachmentUploadBytes    prometheus.Counter
}

// New creates and registers all metrics with the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates and registers all metrics with a custom registry
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "endpoint"},
		),
		ApprovalsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "approvals_created_total",
				Help:      "Total number of approval creation events",
			},
		),
		ApprovalTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "approval_transitions_total",
				Help:      "Total number of approval status transitions",
			},
			[]string{"to_status"},
		),
		ApprovalsByStatus: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "approvals_by_status",
				Help:      "Current number of approvals per status",
			},
			[]string{"status"},
		),
		AttachmentsUploadedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attachments_uploaded_total",
				Help:      "Total number of uploaded attachment files",
			},
		),
		AttachmentUploadBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attachment_upload_bytes_total",
				Help:      "Total bytes of uploaded attachment files",
			},
		),
	}
}

// RecordHTTPRequest records one completed HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// IncrementApprovalCreated records one approval creation
func (m *Metrics) IncrementApprovalCreated() {
	if m == nil {
		return
	}
	m.ApprovalsCreatedTotal.Inc()
}

// IncrementTransition records one status transition
func (m *Metrics) IncrementTransition(toStatus string) {
	if m == nil {
		return
	}
	m.ApprovalTransitionsTotal.WithLabelValues(toStatus).Inc()
}

// RecordAttachmentUpload records one stored attachment file
func (m *Metrics) RecordAttachmentUpload(size int64) {
	if m == nil {
		return
	}
	m.AttachmentsUploadedTotal.Inc()
	m.AttachmentUploadBytes.Add(float64(size))
}

// SetApprovalsByStatus updates the per-status gauge
func (m *Metrics) SetApprovalsByStatus(status string, count int64) {
	if m == nil {
		return
	}
	m.ApprovalsByStatus.WithLabelValues(status).Set(float64(count))
}

// ShouldSkipEndpoint reports whether HTTP metrics should not be recorded for
// the given path
func ShouldSkipEndpoint(path string) bool {
	switch path {
	case "/metrics", "/health", "/ready":
		return true
	}
	return false
}
