package service

import (
	"context"
	"errors"

	"pharmstock/internal/domain"
	"pharmstock/internal/repository"
	"pharmstock/internal/store"

	"github.com/shopspring/decimal"
)

// stubSeed is an in-memory seed source for tests.
type stubSeed struct {
	products     []domain.Product
	transactions []domain.Transaction
}

func (s stubSeed) Inventory() ([]domain.Product, error)      { return s.products, nil }
func (s stubSeed) Transactions() ([]domain.Transaction, error) { return s.transactions, nil }

// flakyStore wraps a store and fails writes to one key once armed, so
// tests can exercise the partial-commit window between the two writes
// of a ledger append.
type flakyStore struct {
	store.Store
	failKey string
	armed   bool
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.armed && key == f.failKey {
		return errors.New("simulated write failure")
	}
	return f.Store.Set(ctx, key, value)
}

// testFixture wires a full in-memory core around the given seed data.
type testFixture struct {
	store       *flakyStore
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	catalog     CatalogService
	ledger      LedgerService
}

func newFixture(products []domain.Product, transactions []domain.Transaction) *testFixture {
	seed := stubSeed{products: products, transactions: transactions}
	st := &flakyStore{Store: store.NewMemory()}

	productRepo := repository.NewProductRepository(st, seed)
	txRepo := repository.NewTransactionRepository(st, seed)

	return &testFixture{
		store:       st,
		productRepo: productRepo,
		txRepo:      txRepo,
		catalog:     NewCatalogService(productRepo),
		ledger:      NewLedgerService(txRepo, productRepo),
	}
}

func testProduct(id, stock, reorderLevel int) domain.Product {
	return domain.Product{
		ID:           id,
		Name:         "Paracetamol 500mg",
		Category:     "Pain Relief",
		Description:  "Analgesic tablets",
		Supplier:     "Johnson & Johnson",
		Unit:         "box",
		UnitCount:    20,
		Stock:        stock,
		Price:        decimal.NewFromFloat(4.99),
		ReorderLevel: reorderLevel,
		ExpiryDate:   "2026-08-01",
		LastUpdated:  "2025-04-02",
	}
}
