package repository

import (
	"context"
	"encoding/json"
	"testing"

	"pharmstock/internal/domain"
	"pharmstock/internal/store"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSeed struct {
	products     []domain.Product
	transactions []domain.Transaction
	inventoryErr error
	calls        int
}

func (s *stubSeed) Inventory() ([]domain.Product, error) {
	s.calls++
	return s.products, s.inventoryErr
}

func (s *stubSeed) Transactions() ([]domain.Transaction, error) {
	return s.transactions, nil
}

func TestProductRepository_BootstrapsOnAbsentKey(t *testing.T) {
	mem := store.NewMemory()
	seeder := &stubSeed{products: []domain.Product{{ID: 1, Name: "Amoxicillin 500mg", Stock: 100}}}
	repo := NewProductRepository(mem, seeder)
	ctx := context.Background()

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, seeder.calls)

	// the baseline is now persisted; later reads do not reseed
	_, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, seeder.calls)

	doc, err := mem.Get(ctx, InventoryKey)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "Amoxicillin 500mg")
}

func TestProductRepository_EmptySeedPersistsEmptyCollection(t *testing.T) {
	mem := store.NewMemory()
	repo := NewProductRepository(mem, &stubSeed{})
	ctx := context.Background()

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	doc, err := mem.Get(ctx, InventoryKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[]}`, string(doc))
}

func TestProductRepository_InsertAssignsNextID(t *testing.T) {
	mem := store.NewMemory()
	repo := NewProductRepository(mem, &stubSeed{products: []domain.Product{{ID: 3}, {ID: 9}, {ID: 5}}})
	ctx := context.Background()

	p := &domain.Product{Name: "Cetirizine 10mg"}
	require.NoError(t, repo.Insert(ctx, p))
	assert.Equal(t, 10, p.ID)

	// empty catalog starts at 1
	mem2 := store.NewMemory()
	repo2 := NewProductRepository(mem2, &stubSeed{})
	p2 := &domain.Product{Name: "First"}
	require.NoError(t, repo2.Insert(ctx, p2))
	assert.Equal(t, 1, p2.ID)
}

func TestProductRepository_UpdateStockTouchesOnlyStockAndDate(t *testing.T) {
	mem := store.NewMemory()
	repo := NewProductRepository(mem, &stubSeed{products: []domain.Product{
		{ID: 1, Name: "Amoxicillin 500mg", Stock: 100, ReorderLevel: 20, LastUpdated: "2026-01-01"},
	}})
	ctx := context.Background()

	require.NoError(t, repo.UpdateStock(ctx, 1, 70, "2026-02-01"))

	p, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 70, p.Stock)
	assert.Equal(t, "2026-02-01", p.LastUpdated)
	assert.Equal(t, "Amoxicillin 500mg", p.Name)
	assert.Equal(t, 20, p.ReorderLevel)
}

func TestProductRepository_NotFound(t *testing.T) {
	mem := store.NewMemory()
	repo := NewProductRepository(mem, &stubSeed{})
	ctx := context.Background()

	var nferr *domain.NotFoundError

	_, err := repo.FindByID(ctx, 42)
	require.ErrorAs(t, err, &nferr)
	assert.Equal(t, "product", nferr.Entity)

	assert.ErrorAs(t, repo.Update(ctx, &domain.Product{ID: 42}), &nferr)
	assert.ErrorAs(t, repo.Delete(ctx, 42), &nferr)
	assert.ErrorAs(t, repo.UpdateStock(ctx, 42, 10, "2026-02-01"), &nferr)
}

func TestProductRepository_CorruptDocumentIsAPersistenceError(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, InventoryKey, []byte(`{"products": [`)))

	repo := NewProductRepository(mem, &stubSeed{})

	_, err := repo.FindAll(ctx)
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "decode", perr.Op)
	assert.Equal(t, InventoryKey, perr.Key)
}

func TestProductRepository_SeedFailureIsAPersistenceError(t *testing.T) {
	mem := store.NewMemory()
	repo := NewProductRepository(mem, &stubSeed{inventoryErr: assert.AnError})

	_, err := repo.FindAll(context.Background())
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "seed", perr.Op)
}

// Feature: inventory-ledger, Property 11: Product round-trip preserves attributes
func TestProperty_ProductRoundTripPreservesAttributes(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("inserting and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, category string, stock int, reorderLevel int, priceCents int) bool {
			mem := store.NewMemory()
			repo := NewProductRepository(mem, &stubSeed{})
			ctx := context.Background()

			product := &domain.Product{
				Name:         name,
				Category:     category,
				Description:  "generated",
				Supplier:     "MedSupply Co",
				Unit:         "box",
				Stock:        stock,
				Price:        decimal.New(int64(priceCents), -2),
				ReorderLevel: reorderLevel,
			}

			if err := repo.Insert(ctx, product); err != nil {
				t.Logf("FAIL: Failed to insert product: %v", err)
				return false
			}

			retrieved, err := repo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.Name != name {
				t.Logf("FAIL: Name mismatch. Expected %s, got %s", name, retrieved.Name)
				return false
			}
			if retrieved.Category != category {
				t.Logf("FAIL: Category mismatch. Expected %s, got %s", category, retrieved.Category)
				return false
			}
			if retrieved.Stock != stock {
				t.Logf("FAIL: Stock mismatch. Expected %d, got %d", stock, retrieved.Stock)
				return false
			}
			if !retrieved.Price.Equal(product.Price) {
				t.Logf("FAIL: Price mismatch. Expected %s, got %s", product.Price, retrieved.Price)
				return false
			}

			// the stored document round-trips as JSON
			raw, err := mem.Get(ctx, InventoryKey)
			if err != nil {
				t.Logf("FAIL: Failed to read stored document: %v", err)
				return false
			}
			var doc struct {
				Products []domain.Product `json:"products"`
			}
			if err := json.Unmarshal(raw, &doc); err != nil {
				t.Logf("FAIL: Stored document is not valid JSON: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{2,15} [0-9]{1,3}mg`),
		gen.RegexMatch(`[A-Z][a-z]{3,12}`),
		gen.IntRange(0, 10000),
		gen.IntRange(0, 500),
		gen.IntRange(0, 100000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
