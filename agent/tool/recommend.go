package tool

import (
	"context"
	"fmt"

	catalogx "github.com/jakkaphatm/chatcart/agent/catalog"
	taskx "github.com/jakkaphatm/chatcart/agent/task"
)

const (
	NameRecommend        = "recommend"
	NameCheckStock       = "check_stock"
	NameAuthorizePayment = "authorize_payment"
)

// NewRecommend builds the recommendation capability: match products by
// query against the catalog, cap by budget when given, cheapest first.
func NewRecommend(repo catalogx.Repository, opts ...taskx.Option) *taskx.Worker {
	return taskx.NewWorker("recommendation", recommendFunc(repo), opts...)
}

func recommendFunc(repo catalogx.Repository) taskx.DomainFunc {
	return func(ctx context.Context, t *taskx.Task) (map[string]any, error) {
		query, err := stringArg(t.Payload, "query", true)
		if err != nil {
			return nil, err
		}
		budget, err := floatArg(t.Payload, "budget", false)
		if err != nil {
			return nil, err
		}
		limit, err := intArg(t.Payload, "limit", 5)
		if err != nil {
			return nil, err
		}

		products, err := repo.SearchProducts(ctx, query, budget, limit)
		if err != nil {
			return nil, err
		}

		items := make([]any, 0, len(products))
		for _, p := range products {
			items = append(items, map[string]any{
				"sku":   p.SKU,
				"name":  p.Name,
				"price": p.Price,
				"stock": p.Stock,
			})
		}

		message := fmt.Sprintf("Found %d products for %q", len(items), query)
		if budget > 0 {
			message = fmt.Sprintf("Found %d products for %q under %.0f", len(items), query, budget)
		}
		return map[string]any{
			"items":   items,
			"message": message,
		}, nil
	}
}
