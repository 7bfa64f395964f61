package tool

import (
	"context"
	"errors"

	catalogx "github.com/jakkaphatm/chatcart/agent/catalog"
	taskx "github.com/jakkaphatm/chatcart/agent/task"
)

// NewCheckStock builds the stock-check capability. A SKU that is not in
// the catalog is a found=false result, not a failure.
func NewCheckStock(repo catalogx.Repository, opts ...taskx.Option) *taskx.Worker {
	return taskx.NewWorker("inventory", checkStockFunc(repo), opts...)
}

func checkStockFunc(repo catalogx.Repository) taskx.DomainFunc {
	return func(ctx context.Context, t *taskx.Task) (map[string]any, error) {
		sku, err := stringArg(t.Payload, "sku", true)
		if err != nil {
			return nil, err
		}
		location, err := stringArg(t.Payload, "location", false)
		if err != nil {
			return nil, err
		}

		product, err := repo.ProductBySKU(ctx, sku)
		if errors.Is(err, catalogx.ErrProductNotFound) {
			return map[string]any{
				"sku":     sku,
				"found":   false,
				"message": "SKU not found",
				"stores":  []any{},
			}, nil
		}
		if err != nil {
			return nil, err
		}

		storeID := "STORE-CENTRAL"
		if location != "" {
			storeID = location
		}
		return map[string]any{
			"sku":           product.SKU,
			"found":         true,
			"total_stock":   product.Stock,
			"stores":        []any{map[string]any{"store_id": storeID, "qty": product.Stock}},
			"ship_eta_days": 2,
		}, nil
	}
}
