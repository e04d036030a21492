package domain

import (
	"github.com/shopspring/decimal"
)

// DateLayout is the day-granularity format used for product timestamps
// (lastUpdated, expiryDate) in persisted documents.
const DateLayout = "2006-01-02"

// Product represents a pharmacy product and its current stock level.
// Stock is a materialized view of the transaction ledger: the only writer
// is the ledger append path, and folding a product's transactions in
// ascending id order over its initial stock must reproduce this value.
type Product struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Supplier     string          `json:"supplier"`
	Unit         string          `json:"unit"`
	UnitCount    int             `json:"unitCount"`
	Stock        int             `json:"stock"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel int             `json:"reorderLevel"`
	ExpiryDate   string          `json:"expiryDate"`
	LastUpdated  string          `json:"lastUpdated"`
}

// IsLowStock reports whether the product has fallen to or below its
// reorder threshold.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.ReorderLevel
}

// StockValue returns price * stock.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}
