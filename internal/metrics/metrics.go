package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhooksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callbridge_webhooks_received_total",
		Help: "Total number of inbound webhook requests, labelled by route.",
	}, []string{"route"})

	CRMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callbridge_crm_requests_total",
		Help: "Total number of outbound CRM requests, labelled by operation and status.",
	}, []string{"operation", "status"})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callbridge_notifications_sent_total",
		Help: "Total number of participant notifications attempted, labelled by status.",
	}, []string{"status"})

	CallsLogged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "callbridge_calls_logged_total",
		Help: "Total number of voice calls recorded in the CRM.",
	})

	NotifyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "callbridge_notify_duration_ms",
		Help:    "End-to-end latency of the notify webhook in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
)
