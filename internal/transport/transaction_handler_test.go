package transport

import (
	"net/http"
	"testing"

	"pharmstock/internal/domain"
	"pharmstock/internal/service"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionHandler_AppendMovesStock(t *testing.T) {
	f := newAPIFixture(t, &stubSeed{products: []domain.Product{seedProduct(1, 100, 10)}})

	w := f.do(t, http.MethodPost, "/api/transactions", TransactionRequest{
		ProductID: 1,
		Type:      "out",
		Quantity:  30,
		Notes:     "dispensed",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var tx domain.Transaction
	decodeBody(t, w, &tx)
	assert.Equal(t, 1, tx.ID)
	assert.Equal(t, 100, tx.PreviousStock)
	assert.Equal(t, 70, tx.NewStock)
	assert.Equal(t, domain.DefaultUserID, tx.UserID)
	assert.NotEmpty(t, tx.Date)

	w = f.do(t, http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var product domain.Product
	decodeBody(t, w, &product)
	assert.Equal(t, 70, product.Stock)
}

func TestTransactionHandler_InsufficientStockConflict(t *testing.T) {
	f := newAPIFixture(t, &stubSeed{products: []domain.Product{seedProduct(1, 70, 10)}})

	w := f.do(t, http.MethodPost, "/api/transactions", TransactionRequest{
		ProductID: 1,
		Type:      "out",
		Quantity:  80,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	require.Contains(t, resp, "error")
	detail := resp["error"].(map[string]interface{})
	require.Contains(t, detail, "details")
	details := detail["details"].(map[string]interface{})
	assert.Equal(t, float64(70), details["available"])
	assert.Equal(t, float64(80), details["requested"])

	// the rejected movement left both collections untouched
	w = f.do(t, http.MethodGet, "/api/products/1", nil)
	var product domain.Product
	decodeBody(t, w, &product)
	assert.Equal(t, 70, product.Stock)

	w = f.do(t, http.MethodGet, "/api/transactions", nil)
	var page service.Page
	decodeBody(t, w, &page)
	assert.Equal(t, 0, page.Total)
}

func TestTransactionHandler_AppendUnknownProduct(t *testing.T) {
	f := newAPIFixture(t, &stubSeed{})

	w := f.do(t, http.MethodPost, "/api/transactions", TransactionRequest{
		ProductID: 42,
		Type:      "in",
		Quantity:  10,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionHandler_ListFiltersSortsAndPaginates(t *testing.T) {
	f := newAPIFixture(t, &stubSeed{
		products: []domain.Product{seedProduct(1, 100, 10)},
		transactions: []domain.Transaction{
			{ID: 1, ProductID: 1, Type: domain.TxIn, Quantity: 50, NewStock: 50, Date: "2026-01-10T09:00:00Z", UserID: 1},
			{ID: 2, ProductID: 1, Type: domain.TxIn, Quantity: 50, PreviousStock: 50, NewStock: 100, Date: "2026-02-01T12:00:00Z", UserID: 1},
			{ID: 3, ProductID: 1, Type: domain.TxOut, Quantity: 5, PreviousStock: 100, NewStock: 95, Date: "2026-02-01T12:00:00Z", UserID: 2},
		},
	})

	// newest first, same-date ties broken by higher id
	w := f.do(t, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page service.Page
	decodeBody(t, w, &page)
	require.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Items[0].ID)
	assert.Equal(t, 2, page.Items[1].ID)
	assert.Equal(t, 1, page.Items[2].ID)

	// type filter
	w = f.do(t, http.MethodGet, "/api/transactions?type=out", nil)
	decodeBody(t, w, &page)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, 3, page.Items[0].ID)

	// inclusive date range keeps the boundary day
	w = f.do(t, http.MethodGet, "/api/transactions?dateFrom=2026-02-01&dateTo=2026-02-01", nil)
	decodeBody(t, w, &page)
	assert.Equal(t, 2, page.Total)

	// page beyond the end clamps to the last page
	w = f.do(t, http.MethodGet, "/api/transactions?page=99&pageSize=2", nil)
	decodeBody(t, w, &page)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Items[0].ID)
}

func TestTransactionHandler_ListRejectsBadQueryParam(t *testing.T) {
	f := newAPIFixture(t, &stubSeed{})

	w := f.do(t, http.MethodGet, "/api/transactions?productId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionHandler_GetByID(t *testing.T) {
	f := newAPIFixture(t, &stubSeed{
		transactions: []domain.Transaction{
			{ID: 7, ProductID: 1, Type: domain.TxIn, Quantity: 10, Date: "2026-03-01T08:00:00Z", UserID: 1},
		},
	})

	w := f.do(t, http.MethodGet, "/api/transactions/7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tx domain.Transaction
	decodeBody(t, w, &tx)
	assert.Equal(t, 7, tx.ID)

	w = f.do(t, http.MethodGet, "/api/transactions/8", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Feature: inventory-ledger, Property 13: Invalid stock movement payloads are rejected
func TestProperty_InvalidStockMovementPayloadsAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("movement with invalid data returns validation errors", prop.ForAll(
		func(invalidCase int) bool {
			f := newAPIFixture(t, &stubSeed{products: []domain.Product{seedProduct(1, 100, 10)}})

			var reqBody TransactionRequest
			switch invalidCase % 4 {
			case 0:
				// missing product id
				reqBody = TransactionRequest{Type: "in", Quantity: 5}
			case 1:
				// unknown movement type
				reqBody = TransactionRequest{ProductID: 1, Type: "transfer", Quantity: 5}
			case 2:
				// zero quantity
				reqBody = TransactionRequest{ProductID: 1, Type: "in", Quantity: 0}
			case 3:
				// negative quantity
				reqBody = TransactionRequest{ProductID: 1, Type: "out", Quantity: -4}
			}

			w := f.do(t, http.MethodPost, "/api/transactions", reqBody)
			if w.Code != http.StatusBadRequest {
				t.Logf("FAIL: Expected 400 status code, got %d", w.Code)
				return false
			}

			// no entry was appended
			w = f.do(t, http.MethodGet, "/api/transactions", nil)
			var page service.Page
			decodeBody(t, w, &page)
			if page.Total != 0 {
				t.Logf("FAIL: Expected empty ledger, got %d entries", page.Total)
				return false
			}

			return true
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
