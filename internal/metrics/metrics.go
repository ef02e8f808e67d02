package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "villa_predictions_total",
			Help: "Total number of price estimates by prediction method",
		},
		[]string{"method"},
	)
	modelFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "villa_model_fallbacks_total",
			Help: "Total number of estimates that fell back to the rule-based formula after a model failure",
		},
	)
	estimationErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "villa_estimation_errors_total",
			Help: "Total number of estimates rejected for an invalid feature vector",
		},
	)
	estimateLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "villa_estimate_duration_seconds",
			Help:    "Estimate duration",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
	)
	comparablesQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "villa_comparables_queries_total",
			Help: "Total number of comparable villa lookups by outcome",
		},
		[]string{"outcome"},
	)
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "villa_comparables_cache_total",
			Help: "Comparable villa cache lookups by result",
		},
		[]string{"result"},
	)
	modelLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "villa_model_loaded",
			Help: "1 when a trained model is loaded, 0 in rule-based-only mode",
		},
	)
)

func init() {
	prometheus.MustRegister(
		predictionsTotal,
		modelFallbacks,
		estimationErrors,
		estimateLatency,
		comparablesQueries,
		cacheLookups,
		modelLoaded,
	)
}

// ObserveEstimate records one successful estimate
func ObserveEstimate(method string, fellBack bool, took time.Duration) {
	predictionsTotal.WithLabelValues(method).Inc()
	if fellBack {
		modelFallbacks.Inc()
	}
	estimateLatency.Observe(took.Seconds())
}

// ObserveEstimationError records an estimate rejected for an invalid feature vector
func ObserveEstimationError() {
	estimationErrors.Inc()
}

// ObserveComparables records a comparable villa lookup outcome ("ok", "error", "disabled")
func ObserveComparables(outcome string) {
	comparablesQueries.WithLabelValues(outcome).Inc()
}

// ObserveCache records a comparable villa cache lookup ("hit", "miss", "error")
func ObserveCache(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

// SetModelLoaded records whether the trained model is available
func SetModelLoaded(loaded bool) {
	if loaded {
		modelLoaded.Set(1)
		return
	}
	modelLoaded.Set(0)
}

// Handler serves the Prometheus exposition format
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
