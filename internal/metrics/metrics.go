package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Credit ledger
	CreditsEarnedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credits_earned_total",
			Help: "Credit points earned, by purpose",
		},
		[]string{"purpose"},
	)
	CreditsSpentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "credits_spent_total",
			Help: "Credit points spent on premium content",
		},
	)
	UnlocksDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unlocks_denied_total",
			Help: "Unlock attempts rejected, by reason",
		},
		[]string{"reason"},
	)

	// Aggregator
	ContentFetchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetched_total",
			Help: "Content items stored per source",
		},
		[]string{"source"},
	)
	FetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_errors_total",
			Help: "Failed source fetches",
		},
		[]string{"source"},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(CreditsEarnedTotal)
	prometheus.MustRegister(CreditsSpentTotal)
	prometheus.MustRegister(UnlocksDenied)
	prometheus.MustRegister(ContentFetchedTotal)
	prometheus.MustRegister(FetchErrors)
	prometheus.MustRegister(WorkerQueueDepth)
}
