package service

import (
	"github.com/shopspring/decimal"

	"pharmstock/internal/domain"
)

// Reporting projections over the catalog. These are recomputed on every
// call so dashboards always see the latest stock; nothing here is cached
// or persisted.

// LowStock returns the products at or below their reorder threshold,
// preserving catalog order.
func LowStock(products []domain.Product) []domain.Product {
	low := []domain.Product{}
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low
}

// StockByCategory sums stock per category. Iteration order of the result
// is unspecified; consumers sort and label independently.
func StockByCategory(products []domain.Product) map[string]int {
	byCategory := make(map[string]int)
	for _, p := range products {
		byCategory[p.Category] += p.Stock
	}
	return byCategory
}

// Stats is the dashboard summary of the catalog.
type Stats struct {
	TotalProducts int             `json:"totalProducts"`
	TotalStock    int             `json:"totalStock"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	Categories    int             `json:"categories"`
	LowStockCount int             `json:"lowStockCount"`
}

// ComputeStats aggregates product counts, total stock value and the
// low-stock count in one pass.
func ComputeStats(products []domain.Product) Stats {
	stats := Stats{TotalValue: decimal.Zero}
	categories := make(map[string]struct{})

	for _, p := range products {
		stats.TotalProducts++
		stats.TotalStock += p.Stock
		stats.TotalValue = stats.TotalValue.Add(p.StockValue())
		categories[p.Category] = struct{}{}
		if p.IsLowStock() {
			stats.LowStockCount++
		}
	}
	stats.Categories = len(categories)
	return stats
}
