package transport

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"pharmstock/internal/domain"
	"pharmstock/internal/repository"
	"pharmstock/internal/service"
	"pharmstock/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// stubSeed supplies a fixed baseline for bootstrap, mirroring the seed
// files without touching the filesystem.
type stubSeed struct {
	products     []domain.Product
	transactions []domain.Transaction
}

func (s *stubSeed) Inventory() ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubSeed) Transactions() ([]domain.Transaction, error) {
	return s.transactions, nil
}

type apiFixture struct {
	router  chi.Router
	catalog service.CatalogService
	ledger  service.LedgerService
}

func newAPIFixture(t *testing.T, seed *stubSeed) *apiFixture {
	t.Helper()

	mem := store.NewMemory()
	t.Cleanup(func() { mem.Close() })

	productRepo := repository.NewProductRepository(mem, seed)
	txRepo := repository.NewTransactionRepository(mem, seed)
	catalog := service.NewCatalogService(productRepo)
	ledger := service.NewLedgerService(txRepo, productRepo)

	logger := zap.NewNop()
	router := chi.NewRouter()
	NewProductHandler(catalog, ledger, logger).RegisterRoutes(router)
	NewTransactionHandler(ledger, logger).RegisterRoutes(router)
	NewReportHandler(catalog, logger).RegisterRoutes(router)

	return &apiFixture{router: router, catalog: catalog, ledger: ledger}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func seedProduct(id, stock, reorderLevel int) domain.Product {
	return domain.Product{
		ID:           id,
		Name:         "Amoxicillin 500mg",
		Category:     "Antibiotics",
		Description:  "Broad-spectrum antibiotic capsules",
		Supplier:     "MedSupply Co",
		Unit:         "box",
		UnitCount:    20,
		Stock:        stock,
		Price:        decimal.NewFromFloat(12.50),
		ReorderLevel: reorderLevel,
		ExpiryDate:   "2027-06-30",
		LastUpdated:  "2026-01-15",
	}
}
