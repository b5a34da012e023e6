package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a single inventory item
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Category    string          `json:"category" db:"category"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// FormatPrice renders the price with exactly two fractional digits
func FormatPrice(p *Product) string {
	return p.Price.StringFixed(2)
}

// FilterActive returns only products with IsActive set.
// The input slice is never modified.
func FilterActive(products []*Product) []*Product {
	filtered := []*Product{}
	for _, p := range products {
		if p.IsActive {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// FilterByCategory returns only products whose category matches exactly
func FilterByCategory(products []*Product, category string) []*Product {
	filtered := []*Product{}
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
