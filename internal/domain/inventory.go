package domain

import "time"

// Product is a catalog entry. Stock arithmetic happens in the route layer's
// callers, not here.
type Product struct {
	ID             string
	Name           string
	Description    string
	Price          float64
	Stock          int
	StockThreshold int
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Store is a physical sales location.
type Store struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sale records a product sold at a store.
type Sale struct {
	ID        string
	StoreID   string
	ProductID string
	Quantity  int
	Total     float64
	SoldAt    time.Time
}
