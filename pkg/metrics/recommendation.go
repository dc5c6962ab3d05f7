package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendation HTTP handlers, by endpoint
	RecommendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reco_recommend_latency_seconds",
		Help:    "Latency of recommendation handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// Responses served, labelled personalized/popular and the fallback reason
	RecommendResponses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_responses_total",
		Help: "Recommendation responses by source and reason",
	}, []string{"source", "reason"})

	// Candidates dropped in on-demand scoring because no estimate came back
	EstimateFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_estimate_failures_total",
		Help: "Per-candidate rating estimation failures",
	}, []string{"cause"})

	EstimateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reco_estimate_duration_seconds",
		Help:    "Duration of single rating estimate calls",
		Buckets: prometheus.DefBuckets,
	})

	// Estimate cache lookups: hit, miss or error
	EstimateCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_estimate_cache_total",
		Help: "Estimate cache lookups by result",
	}, []string{"result"})

	// 0 closed, 1 half-open, 2 open
	PredictorBreakerState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "reco_predictor_breaker_state",
		Help: "Circuit breaker state of the remote predictor",
	})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendResponses,
		EstimateFailures,
		EstimateDuration,
		EstimateCache,
		PredictorBreakerState,
	)
}
