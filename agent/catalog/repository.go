package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

const defaultSearchLimit = 5

// Repository is the catalog access the tool capabilities depend on. The
// schema behind it is out of scope for the orchestration core; tools only
// need these reads plus the payment authorization write.
type Repository interface {
	SearchProducts(ctx context.Context, query string, budget float64, limit int) ([]Product, error)
	ProductBySKU(ctx context.Context, sku string) (*Product, error)
	OrderByExternalID(ctx context.Context, orderID string) (*Order, error)
	AuthorizeOrder(ctx context.Context, orderID, authCode string, amount float64, now time.Time) error
}

// BunRepository serves the catalog from PostgreSQL via bun.
type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) (*BunRepository, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	return &BunRepository{db: db}, nil
}

// SearchProducts matches query against category or name, caps price at
// budget when budget > 0, and returns the cheapest matches first.
func (r *BunRepository) SearchProducts(ctx context.Context, query string, budget float64, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	products := make([]Product, 0, limit)
	q := r.db.NewSelect().Model(&products)

	pattern := "%" + strings.TrimSpace(query) + "%"
	if strings.TrimSpace(query) != "" {
		q = q.Where("(p.category ILIKE ? OR p.name ILIKE ?)", pattern, pattern)
	}
	if budget > 0 {
		q = q.Where("p.price <= ?", budget)
	}

	if err := q.OrderExpr("p.price ASC").Limit(limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

func (r *BunRepository) ProductBySKU(ctx context.Context, sku string) (*Product, error) {
	product := new(Product)
	err := r.db.NewSelect().Model(product).Where("p.sku = ?", strings.TrimSpace(sku)).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: sku=%s", ErrProductNotFound, sku)
	}
	if err != nil {
		return nil, fmt.Errorf("load product sku=%s: %w", sku, err)
	}
	return product, nil
}

func (r *BunRepository) OrderByExternalID(ctx context.Context, orderID string) (*Order, error) {
	order := new(Order)
	err := r.db.NewSelect().Model(order).Where("o.external_id = ?", strings.TrimSpace(orderID)).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order_id=%s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("load order order_id=%s: %w", orderID, err)
	}
	return order, nil
}

func (r *BunRepository) AuthorizeOrder(ctx context.Context, orderID, authCode string, amount float64, now time.Time) error {
	res, err := r.db.NewUpdate().
		Model((*Order)(nil)).
		Set("status = ?", OrderAuthorized).
		Set("auth_code = ?", authCode).
		Set("total_amount = ?", amount).
		Set("updated_at = ?", now.UTC()).
		Where("external_id = ?", strings.TrimSpace(orderID)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("authorize order order_id=%s: %w", orderID, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("%w: order_id=%s", ErrOrderNotFound, orderID)
	}
	return nil
}
