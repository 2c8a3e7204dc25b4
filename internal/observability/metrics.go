package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pageza/foodgram/backend/internal/models"
)

var (
	// RelationOperations counts relation add/remove/list calls by outcome.
	RelationOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_relation_operations_total",
			Help: "Relation manager operations by kind, operation and result",
		},
		[]string{"kind", "operation", "result"},
	)

	// ShoppingListItems records how many aggregated lines each download produced.
	ShoppingListItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_items",
			Help:    "Number of aggregated lines per shopping list download",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	// RecipeMutations counts recipe create/update/delete calls by outcome.
	RecipeMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipe_mutations_total",
			Help: "Recipe mutations by operation and result",
		},
		[]string{"operation", "result"},
	)

	// RateLimitRejections counts requests refused by the rate limiter.
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"prefix"},
	)
)

// ResultLabel turns an operation error into a metric label: "ok" or the
// lower-cased error code.
func ResultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	switch models.CodeOf(err) {
	case models.CodeNotFound:
		return "not_found"
	case models.CodeRelationNotFound:
		return "relation_not_found"
	case models.CodeConflict:
		return "conflict"
	case models.CodeValidation:
		return "validation_error"
	case models.CodeForbidden:
		return "forbidden"
	case models.CodeUnauthorized:
		return "unauthorized"
	default:
		return "internal_error"
	}
}

func RecordRelationOperation(kind, operation string, err error) {
	RelationOperations.WithLabelValues(kind, operation, ResultLabel(err)).Inc()
}

func RecordRecipeMutation(operation string, err error) {
	RecipeMutations.WithLabelValues(operation, ResultLabel(err)).Inc()
}
