package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	metricPrefix = "hotel_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	reportRequests *prometheus.CounterVec
	reportLatency  *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	occupationDegraded prometheus.Counter
)

// Init registers report metrics and, when db is set, DB-backed gauges.
func Init(db *sql.DB, logger *zap.Logger) {
	registerOnce.Do(func() {
		reportRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_requests_total",
				Help: "Total report computations by report and result",
			},
			[]string{"report", "result"},
		)
		reportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_latency_seconds",
				Help:    "Report computation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"report", "result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		occupationDegraded = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "occupation_degraded_total",
				Help: "Reports served with occupation 0 because the room count failed",
			},
		)

		prometheus.MustRegister(
			reportRequests,
			reportLatency,
			exportTotal,
			exportLatency,
			occupationDegraded,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveReport records report latency and result.
func ObserveReport(report, result string, duration time.Duration) {
	if report == "" {
		report = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportRequests != nil {
		reportRequests.WithLabelValues(report, result).Inc()
	}
	if reportLatency != nil {
		reportLatency.WithLabelValues(report, result).Observe(duration.Seconds())
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncOccupationDegraded counts a report whose occupation fell back to 0.
func IncOccupationDegraded() {
	if occupationDegraded != nil {
		occupationDegraded.Inc()
	}
}

// ResultOf maps an error to a result label.
func ResultOf(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
