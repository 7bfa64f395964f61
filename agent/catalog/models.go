package catalog

import (
	"time"

	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID       int64   `bun:"id,pk,autoincrement" json:"-"`
	SKU      string  `bun:"sku,notnull,unique" json:"sku"`
	Name     string  `bun:"name,notnull" json:"name"`
	Category string  `bun:"category" json:"category"`
	Price    float64 `bun:"price,notnull" json:"price"`
	Stock    int     `bun:"stock,notnull,default:0" json:"stock"`
	ImageURL string  `bun:"image_url" json:"image_url,omitempty"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderAuthorized OrderStatus = "authorized"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderCancelled  OrderStatus = "cancelled"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID            int64       `bun:"id,pk,autoincrement" json:"-"`
	ExternalID    string      `bun:"external_id,notnull,unique" json:"order_id"`
	CustomerID    string      `bun:"customer_id" json:"customer_id"`
	TotalAmount   float64     `bun:"total_amount,notnull" json:"total_amount"`
	Status        OrderStatus `bun:"status,notnull,default:'pending'" json:"status"`
	PaymentMethod string      `bun:"payment_method" json:"payment_method,omitempty"`
	AuthCode      string      `bun:"auth_code" json:"auth_code,omitempty"`
	CreatedAt     time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time   `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
