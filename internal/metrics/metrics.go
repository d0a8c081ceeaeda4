package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcrm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymcrm_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	MembersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymcrm_members_created_total",
			Help: "Total number of members registered",
		},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcrm_payments_total",
			Help: "Total number of ledger payments recorded",
		},
		[]string{"type"},
	)

	PaymentAmountTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcrm_payment_amount_total",
			Help: "Total amount of ledger payments recorded",
		},
		[]string{"type"},
	)

	RequestsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcrm_change_requests_submitted_total",
			Help: "Total number of change requests submitted",
		},
		[]string{"type"},
	)

	RequestsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcrm_change_requests_processed_total",
			Help: "Total number of change requests processed",
		},
		[]string{"type", "outcome"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordMemberCreated() {
	MembersCreatedTotal.Inc()
}

func RecordPayment(paymentType string, amount float64) {
	PaymentsTotal.WithLabelValues(paymentType).Inc()
	PaymentAmountTotal.WithLabelValues(paymentType).Add(amount)
}

func RecordRequestSubmitted(requestType string) {
	RequestsSubmittedTotal.WithLabelValues(requestType).Inc()
}

func RecordRequestProcessed(requestType, outcome string) {
	RequestsProcessedTotal.WithLabelValues(requestType, outcome).Inc()
}
