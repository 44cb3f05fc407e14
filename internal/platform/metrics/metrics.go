package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	SignupsTotal      *prometheus.CounterVec
	InboundCommands   *prometheus.CounterVec
	RepliesTotal      *prometheus.CounterVec
	RemindersSent     *prometheus.CounterVec
	DispatchRuns      prometheus.Counter
	DispatchFailures  prometheus.Counter
	LookupLatency     prometheus.Histogram
	LookupFailures    prometheus.Counter
	SendFailures      prometheus.Counter
	ActiveSubscribers prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		SignupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "curbside_signups_total",
			Help: "Total number of signup requests, labeled by outcome",
		}, []string{"outcome"}),
		InboundCommands: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "curbside_inbound_commands_total",
			Help: "Total number of inbound messages, labeled by command class",
		}, []string{"command"}),
		RepliesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "curbside_replies_total",
			Help: "Total number of composed replies, labeled by reply kind",
		}, []string{"kind"}),
		RemindersSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "curbside_reminders_sent_total",
			Help: "Total number of pickup reminders sent, labeled by service",
		}, []string{"service"}),
		DispatchRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "curbside_dispatch_runs_total",
			Help: "Total number of daily dispatch runs",
		}),
		DispatchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "curbside_dispatch_failures_total",
			Help: "Total number of per-subscriber failures during dispatch",
		}),
		LookupLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "curbside_schedule_lookup_latency_seconds",
			Help:    "Latency of schedule feed lookups in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		LookupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "curbside_schedule_lookup_failures_total",
			Help: "Total number of failed schedule feed lookups",
		}),
		SendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "curbside_sms_send_failures_total",
			Help: "Total number of failed SMS deliveries",
		}),
		ActiveSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "curbside_active_subscribers",
			Help: "Current number of active, verified subscribers",
		}),
	}
}
