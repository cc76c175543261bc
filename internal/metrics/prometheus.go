package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Agent metrics
	AgentAnalyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finagents_agent_analysis_total",
			Help: "Total number of agent analyses",
		},
		[]string{"agent", "status"}, // status: success|error
	)

	AgentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finagents_agent_analysis_duration_seconds",
			Help:    "Agent analysis duration in seconds",
			Buckets: []float64{0.05, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"agent"},
	)

	AgentDataPoints = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finagents_agent_analysis_data_points",
			Help:    "Number of structured data points supplied per analysis",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"agent"},
	)

	// Backend metrics
	BackendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finagents_backend_requests_total",
			Help: "Total number of generation requests sent to the text backend",
		},
		[]string{"provider", "model", "status"},
	)

	BackendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finagents_backend_latency_seconds",
			Help:    "Text backend latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "model"},
	)

	BackendTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finagents_backend_tokens_total",
			Help: "Tokens consumed by the text backend",
		},
		[]string{"provider", "model", "type"}, // type: prompt|completion
	)

	// HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finagents_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	// Pipeline metrics
	KafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finagents_kafka_messages_total",
			Help: "Kafka messages by topic and direction",
		},
		[]string{"topic", "direction", "status"}, // direction: produced|consumed
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finagents_cache_lookups_total",
			Help: "Cache lookups by result",
		},
		[]string{"cache", "result"}, // result: hit|miss|error
	)

	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finagents_db_queries_total",
			Help: "Total database queries",
		},
		[]string{"database", "operation", "status"},
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finagents_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"database", "operation"},
	)

	DroppedRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finagents_dropped_rows_total",
			Help: "Rows discarded after repeated write failures",
		},
		[]string{"table"},
	)
)

var initOnce sync.Once

// Init registers all metrics with Prometheus
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(AgentAnalyses)
		prometheus.MustRegister(AgentDuration)
		prometheus.MustRegister(AgentDataPoints)

		prometheus.MustRegister(BackendRequests)
		prometheus.MustRegister(BackendLatency)
		prometheus.MustRegister(BackendTokens)

		prometheus.MustRegister(HTTPRequests)
		prometheus.MustRegister(KafkaMessages)
		prometheus.MustRegister(CacheLookups)

		prometheus.MustRegister(DBQueries)
		prometheus.MustRegister(DBQueryDuration)
		prometheus.MustRegister(DroppedRows)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordAgentAnalysis records one orchestrated agent run
func RecordAgentAnalysis(agent string, duration time.Duration, dataPoints int, err error) {
	AgentAnalyses.WithLabelValues(agent, status(err)).Inc()
	AgentDuration.WithLabelValues(agent).Observe(duration.Seconds())

	if err == nil {
		AgentDataPoints.WithLabelValues(agent).Observe(float64(dataPoints))
	}
}

// RecordBackendRequest records a single call to the text backend
func RecordBackendRequest(provider, model string, latency time.Duration, promptTokens, completionTokens int, err error) {
	BackendRequests.WithLabelValues(provider, model, status(err)).Inc()
	BackendLatency.WithLabelValues(provider, model).Observe(latency.Seconds())

	if promptTokens > 0 {
		BackendTokens.WithLabelValues(provider, model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		BackendTokens.WithLabelValues(provider, model, "completion").Add(float64(completionTokens))
	}
}

// RecordHTTPRequest records a served HTTP request
func RecordHTTPRequest(route string, code int) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// RecordKafkaMessage records a produced or consumed Kafka message
func RecordKafkaMessage(topic, direction string, err error) {
	KafkaMessages.WithLabelValues(topic, direction, status(err)).Inc()
}

// RecordCacheLookup records a cache hit, miss or error
func RecordCacheLookup(cache, result string) {
	CacheLookups.WithLabelValues(cache, result).Inc()
}

// RecordDBQuery records a database query
func RecordDBQuery(database, operation string, duration time.Duration, err error) {
	DBQueries.WithLabelValues(database, operation, status(err)).Inc()
	DBQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
}

// RecordDroppedRows records rows a batch writer gave up on
func RecordDroppedRows(table string, rows int) {
	DroppedRows.WithLabelValues(table).Add(float64(rows))
}
