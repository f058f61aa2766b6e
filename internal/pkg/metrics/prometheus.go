// Package metrics 提供 Prometheus 指標
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 食材比對
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cart_matches_total",
			Help: "Ingredient match attempts by resolving strategy",
		},
		[]string{"strategy"},
	)

	UnmatchedIngredients = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_cart_unmatched_ingredients_total",
			Help: "Ingredients that resolved to no catalog product",
		},
	)

	// 計價
	PricingFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cart_pricing_fallbacks_total",
			Help: "Prices that fell back to the default price",
		},
		[]string{"reason"},
	)

	// 購物車
	CartOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cart_cart_operations_total",
			Help: "Cart operations by kind and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// AI 食材來源
	AIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_cart_ai_request_duration_seconds",
			Help:    "Latency of ingredient generation calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	AICacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cart_ai_cache_lookups_total",
			Help: "AI response cache lookups",
		},
		[]string{"result"},
	)

	// 訂單
	OrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_cart_orders_created_total",
			Help: "Orders created at checkout",
		},
	)
)

// RecordMatch 記錄一次比對結果
func RecordMatch(strategy string) {
	MatchesTotal.WithLabelValues(strategy).Inc()
}

// RecordPricingFallback 記錄一次預設價格回退
func RecordPricingFallback(reason string) {
	PricingFallbacks.WithLabelValues(reason).Inc()
}

// RecordCartOperation 記錄購物車操作
func RecordCartOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	CartOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordAIRequest 記錄 AI 請求耗時
func RecordAIRequest(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	AIRequestDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordAICacheLookup 記錄 AI 快取查詢
func RecordAICacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	AICacheLookups.WithLabelValues(result).Inc()
}
