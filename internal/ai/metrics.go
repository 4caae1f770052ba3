package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	completionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "todo_ai",
			Name:      "completion_requests_total",
			Help:      "Completion calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	completionTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "todo_ai",
			Name:      "completion_tokens_total",
			Help:      "Tokens billed by operation and direction (input/output).",
		},
		[]string{"operation", "direction"},
	)

	completionCostUSDTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "todo_ai",
			Name:      "completion_cost_usd_total",
			Help:      "Estimated completion spend in USD.",
		},
		[]string{"operation"},
	)
)
