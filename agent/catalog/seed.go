package catalog

import "time"

// DemoProducts is the catalog served in demo mode.
func DemoProducts() []Product {
	return []Product{
		{SKU: "LAP-1001", Name: "AeroBook 14", Category: "laptops", Price: 54990, Stock: 12},
		{SKU: "LAP-1002", Name: "AeroBook 14 Pro", Category: "laptops", Price: 74990, Stock: 5},
		{SKU: "LAP-2001", Name: "TuffBook Rugged 15", Category: "laptops", Price: 89990, Stock: 3},
		{SKU: "SHO-3001", Name: "StreetRunner Sneakers", Category: "shoes", Price: 1299, Stock: 48},
		{SKU: "SHO-3002", Name: "TrailBlazer Hiking Shoes", Category: "shoes", Price: 2499, Stock: 21},
		{SKU: "SHI-4001", Name: "Classic Oxford Shirt", Category: "shirts", Price: 899, Stock: 64},
		{SKU: "SHI-4002", Name: "Linen Summer Shirt", Category: "shirts", Price: 1199, Stock: 37},
		{SKU: "ACC-5001", Name: "Slim Leather Wallet", Category: "accessories", Price: 699, Stock: 80},
		{SKU: "ACC-5002", Name: "Canvas Messenger Bag", Category: "accessories", Price: 1899, Stock: 26},
	}
}

// DemoOrders seeds a couple of orders so payment authorization has
// something to act on out of the box.
func DemoOrders(now time.Time) []Order {
	return []Order{
		{
			ExternalID:    "ORD-90001",
			CustomerID:    "CUST-001",
			TotalAmount:   2198,
			Status:        OrderPending,
			PaymentMethod: "credit_card",
			CreatedAt:     now.UTC(),
			UpdatedAt:     now.UTC(),
		},
		{
			ExternalID:    "ORD-90002",
			CustomerID:    "CUST-002",
			TotalAmount:   54990,
			Status:        OrderPending,
			PaymentMethod: "upi",
			CreatedAt:     now.UTC(),
			UpdatedAt:     now.UTC(),
		},
	}
}
