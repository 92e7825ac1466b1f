package repository

import "time"

// OrderListFilter filter for order listings
type OrderListFilter struct {
	Page        int
	PageSize    int
	CustomerID  uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ClaimListFilter filter for claim listings
type ClaimListFilter struct {
	Page             int
	PageSize         int
	CustomerID       uint
	OrderID          uint
	Status           string
	ClaimType        string
	ManualReviewOnly bool
	CreatedFrom      *time.Time
	CreatedTo        *time.Time
}

// ProductListFilter filter for product listings
type ProductListFilter struct {
	Page       int
	PageSize   int
	Category   string
	Search     string
	OnlyActive bool
}
