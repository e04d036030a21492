package service

import (
	"context"
	"strings"
	"time"

	"pharmstock/internal/domain"
	"pharmstock/internal/repository"
)

// CatalogService owns the product records and their descriptive fields.
// It never writes stock: the ledger append path is the only stock
// writer, so the catalog's stock column stays derivable from the ledger.
type CatalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	GetByID(ctx context.Context, id int) (*domain.Product, error)
	Create(ctx context.Context, req *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int, req *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int) error
}

type catalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

// List returns all products in insertion order.
func (s *catalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.FindAll(ctx)
}

// Search returns products whose name or category contains the query,
// case-insensitively, preserving catalog order. An empty query returns
// the full catalog.
func (s *catalogService) Search(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products, nil
	}

	matched := []domain.Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Category), query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (s *catalogService) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Create validates the request, assigns an id and lastUpdated, and
// persists the new product.
func (s *catalogService) Create(ctx context.Context, req *domain.Product) (*domain.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := *req
	product.LastUpdated = time.Now().Format(domain.DateLayout)

	if err := s.productRepo.Insert(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update replaces every mutable field of an existing product. The id is
// immutable and the stock field is preserved as-is: a direct stock edit
// would bypass the ledger, so stock only moves through the append path.
func (s *catalogService) Update(ctx context.Context, id int, req *domain.Product) (*domain.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product := *req
	product.ID = existing.ID
	product.Stock = existing.Stock
	product.LastUpdated = time.Now().Format(domain.DateLayout)

	if err := s.productRepo.Update(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes the product. Ledger entries that reference it are left
// untouched and become orphaned references, which readers tolerate.
func (s *catalogService) Delete(ctx context.Context, id int) error {
	return s.productRepo.Delete(ctx, id)
}

func validateProduct(p *domain.Product) error {
	required := []struct {
		field string
		value string
	}{
		{"name", p.Name},
		{"category", p.Category},
		{"description", p.Description},
		{"supplier", p.Supplier},
		{"unit", p.Unit},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &domain.ValidationError{Field: f.field, Reason: "is required"}
		}
	}

	if p.Stock < 0 {
		return &domain.ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	if p.Price.IsNegative() {
		return &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.ReorderLevel < 0 {
		return &domain.ValidationError{Field: "reorderLevel", Reason: "must not be negative"}
	}
	if p.UnitCount < 0 {
		return &domain.ValidationError{Field: "unitCount", Reason: "must not be negative"}
	}
	return nil
}
