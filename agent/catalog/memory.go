package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository serves the catalog from seeded in-memory data. Demo
// mode and tests use it so the binary runs without PostgreSQL.
type MemoryRepository struct {
	mu       sync.RWMutex
	products []Product
	orders   map[string]*Order
}

func NewMemoryRepository(products []Product, orders []Order) *MemoryRepository {
	r := &MemoryRepository{
		products: append([]Product(nil), products...),
		orders:   make(map[string]*Order, len(orders)),
	}
	for i := range orders {
		o := orders[i]
		r.orders[o.ExternalID] = &o
	}
	return r
}

func (r *MemoryRepository) SearchProducts(ctx context.Context, query string, budget float64, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	needle := strings.ToLower(strings.TrimSpace(query))

	r.mu.RLock()
	matches := make([]Product, 0, limit)
	for _, p := range r.products {
		if budget > 0 && p.Price > budget {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Category), needle) &&
			!strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		matches = append(matches, p)
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].Price < matches[j].Price })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *MemoryRepository) ProductBySKU(ctx context.Context, sku string) (*Product, error) {
	sku = strings.TrimSpace(sku)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if strings.EqualFold(p.SKU, sku) {
			found := p
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: sku=%s", ErrProductNotFound, sku)
}

func (r *MemoryRepository) OrderByExternalID(ctx context.Context, orderID string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[strings.TrimSpace(orderID)]
	if !ok {
		return nil, fmt.Errorf("%w: order_id=%s", ErrOrderNotFound, orderID)
	}
	found := *o
	return &found, nil
}

func (r *MemoryRepository) AuthorizeOrder(ctx context.Context, orderID, authCode string, amount float64, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[strings.TrimSpace(orderID)]
	if !ok {
		return fmt.Errorf("%w: order_id=%s", ErrOrderNotFound, orderID)
	}
	o.Status = OrderAuthorized
	o.AuthCode = authCode
	o.TotalAmount = amount
	o.UpdatedAt = now.UTC()
	return nil
}
