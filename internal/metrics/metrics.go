package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supportgpt_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supportgpt_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	ChatTurnsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "supportgpt_chat_turns_total",
			Help: "Total completed chat turns",
		},
	)

	SummariesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "supportgpt_summaries_total",
			Help: "Total conversation summaries generated",
		},
	)

	ModerationFlagged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "supportgpt_moderation_flagged_total",
			Help: "Total messages rejected by moderation",
		},
	)

	// Parse failures are recoverable: the turn proceeds with an empty record.
	ParseFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supportgpt_parse_failures_total",
			Help: "Total collected-data blocks that failed to parse",
		},
		[]string{"reason"}, // "missing_block" or "invalid_data"
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supportgpt_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)

	BlockedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supportgpt_blocked_requests_total",
			Help: "Total blocked requests",
		},
		[]string{"reason"},
	)

	// Infrastructure metrics
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supportgpt_llm_request_duration_seconds",
			Help:    "OpenAI API call duration",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"}, // "completion" or "moderation"
	)

	LLMRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "supportgpt_llm_retries_total",
			Help: "Total OpenAI rate-limit retries",
		},
	)

	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supportgpt_store_latency_seconds",
			Help:    "Conversation store operation latency",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"backend", "operation"},
	)
)
