// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotationSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotation_submissions_total",
			Help: "Quotation submissions by outcome",
		},
		[]string{"status"},
	)

	QuotationDispatch = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotation_dispatch_total",
			Help: "Notification deliveries by audience and outcome",
		},
		[]string{"audience", "status"},
	)

	QuotationDispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quotation_dispatch_duration_seconds",
			Help:    "Duration of a single notification delivery",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"audience"},
	)

	QuotationDocumentPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quotation_document_pages",
			Help:    "Page count of generated proposal documents",
			Buckets: []float64{6, 8, 10, 12, 14, 16, 20, 30},
		},
	)

	QuotationStorageFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quotation_storage_failures_total",
			Help: "Submissions whose persistence failed after delivery",
		},
	)

	QuotationPartialFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quotation_partial_dispatch_total",
			Help: "Submissions where exactly one of the two notifications was delivered",
		},
	)

	QuotationPDFDownloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotation_pdf_downloads_total",
			Help: "Stand-alone proposal downloads by outcome",
		},
		[]string{"status"},
	)

	QuotationRateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotation_rate_limited_total",
			Help: "Requests rejected by the submission rate limiter",
		},
		[]string{"window"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)
