// Package metrics expone métricas Prometheus del servicio.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LedgerReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_reads_total",
		Help: "Total number of ledger quantity reads",
	}, []string{"result"})

	LedgerReadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_read_duration_seconds",
		Help:    "Latency of ledger quantity reads",
		Buckets: prometheus.DefBuckets,
	})

	LedgerWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_writes_total",
		Help: "Total number of ledger transactions by action",
	}, []string{"action", "result"})

	SalesRecordsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_records_ingested_total",
		Help: "Total number of sales records appended to the history",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

const (
	resultOK    = "ok"
	resultError = "error"
)

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
