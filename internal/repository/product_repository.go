package repository

import (
	"context"
	"encoding/json"
	"errors"

	"pharmstock/internal/domain"
	"pharmstock/internal/store"
)

// InventoryKey is the store key holding the full product catalog.
const InventoryKey = "pharmacy_inventory"

// inventoryDocument is the persisted shape of the catalog collection.
type inventoryDocument struct {
	Products []domain.Product `json:"products"`
}

// InventorySeeder supplies the baseline product set used to bootstrap an
// absent collection.
type InventorySeeder interface {
	Inventory() ([]domain.Product, error)
}

// ProductRepository is the data access layer for the product catalog.
// Every mutation reads the whole collection, applies the change and
// writes the whole collection back; the store has no partial updates.
//
// UpdateStock is the privileged entry point reserved for the ledger
// append path. Nothing above the repository layer may write stock
// directly, which keeps the catalog's stock field derivable from the
// ledger by replay.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	Insert(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int) error
	UpdateStock(ctx context.Context, id, newStock int, lastUpdated string) error
}

type productRepository struct {
	store  store.Store
	seeder InventorySeeder
}

// NewProductRepository creates a catalog repository over the given store.
func NewProductRepository(s store.Store, seeder InventorySeeder) ProductRepository {
	return &productRepository{store: s, seeder: seeder}
}

// load reads the catalog collection, bootstrapping it from the seed
// source the first time the key is absent.
func (r *productRepository) load(ctx context.Context) (*inventoryDocument, error) {
	data, err := r.store.Get(ctx, InventoryKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return r.bootstrap(ctx)
		}
		return nil, &domain.PersistenceError{Op: "get", Key: InventoryKey, Err: err}
	}

	var doc inventoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &domain.PersistenceError{Op: "decode", Key: InventoryKey, Err: err}
	}
	return &doc, nil
}

func (r *productRepository) bootstrap(ctx context.Context) (*inventoryDocument, error) {
	products, err := r.seeder.Inventory()
	if err != nil {
		return nil, &domain.PersistenceError{Op: "seed", Key: InventoryKey, Err: err}
	}
	doc := &inventoryDocument{Products: products}
	if doc.Products == nil {
		doc.Products = []domain.Product{}
	}
	if err := r.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *productRepository) save(ctx context.Context, doc *inventoryDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Key: InventoryKey, Err: err}
	}
	if err := r.store.Set(ctx, InventoryKey, data); err != nil {
		return &domain.PersistenceError{Op: "set", Key: InventoryKey, Err: err}
	}
	return nil
}

func (r *productRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Products {
		if doc.Products[i].ID == id {
			p := doc.Products[i]
			return &p, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "product", ID: id}
}

// Insert assigns the next id (max existing + 1, or 1 for an empty
// catalog) and appends the product in insertion order.
func (r *productRepository) Insert(ctx context.Context, product *domain.Product) error {
	doc, err := r.load(ctx)
	if err != nil {
		return err
	}

	maxID := 0
	for i := range doc.Products {
		if doc.Products[i].ID > maxID {
			maxID = doc.Products[i].ID
		}
	}
	product.ID = maxID + 1

	doc.Products = append(doc.Products, *product)
	return r.save(ctx, doc)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	doc, err := r.load(ctx)
	if err != nil {
		return err
	}

	for i := range doc.Products {
		if doc.Products[i].ID == product.ID {
			doc.Products[i] = *product
			return r.save(ctx, doc)
		}
	}
	return &domain.NotFoundError{Entity: "product", ID: product.ID}
}

func (r *productRepository) Delete(ctx context.Context, id int) error {
	doc, err := r.load(ctx)
	if err != nil {
		return err
	}

	for i := range doc.Products {
		if doc.Products[i].ID == id {
			doc.Products = append(doc.Products[:i], doc.Products[i+1:]...)
			return r.save(ctx, doc)
		}
	}
	return &domain.NotFoundError{Entity: "product", ID: id}
}

func (r *productRepository) UpdateStock(ctx context.Context, id, newStock int, lastUpdated string) error {
	doc, err := r.load(ctx)
	if err != nil {
		return err
	}

	for i := range doc.Products {
		if doc.Products[i].ID == id {
			doc.Products[i].Stock = newStock
			doc.Products[i].LastUpdated = lastUpdated
			return r.save(ctx, doc)
		}
	}
	return &domain.NotFoundError{Entity: "product", ID: id}
}
