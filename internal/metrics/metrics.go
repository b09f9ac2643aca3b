package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LLM
	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miseai_llm_requests_total",
			Help: "Number of LLM requests by model and outcome",
		},
		[]string{"model", "outcome"}, // outcome: ok|error|timeout
	)
	LLMDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "miseai_llm_request_duration_seconds",
			Help:    "Duration of LLM requests",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 9), // 0.25s..64s
		},
		[]string{"model"},
	)

	// Generation
	GenerationRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "miseai_generation_retries_total",
			Help: "Completeness retries issued after an incomplete first response",
		},
	)
	GenerationValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miseai_generation_validation_total",
			Help: "Final completeness validation results",
		},
		[]string{"passed"},
	)

	// OCR
	OCRPages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "miseai_ocr_pages_total",
			Help: "Pages or images passed through OCR",
		},
	)

	// Errors
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miseai_errors_total",
			Help: "Errors encountered in components",
		},
		[]string{"component", "kind"},
	)
)

func init() {
	prometheus.MustRegister(
		LLMRequests,
		LLMDurationSeconds,
		GenerationRetries,
		GenerationValidations,
		OCRPages,
		Errors,
	)
}

// LLM
func ObserveLLMRequest(model, outcome string, d time.Duration) {
	LLMRequests.WithLabelValues(model, outcome).Inc()
	LLMDurationSeconds.WithLabelValues(model).Observe(d.Seconds())
}

// Generation
func IncGenerationRetry() {
	GenerationRetries.Inc()
}

func IncValidation(passed bool) {
	GenerationValidations.WithLabelValues(strconv.FormatBool(passed)).Inc()
}

// OCR
func AddOCRPages(n int) {
	OCRPages.Add(float64(n))
}

// Errors
func IncError(component, kind string) {
	Errors.WithLabelValues(component, kind).Inc()
}
