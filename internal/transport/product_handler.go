package transport

import (
	"net/http"
	"strconv"

	"pharmstock/internal/domain"
	"pharmstock/internal/middleware"
	"pharmstock/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents the create/update product payload
type ProductRequest struct {
	Name         string          `json:"name" validate:"required"`
	Category     string          `json:"category" validate:"required"`
	Description  string          `json:"description" validate:"required"`
	Supplier     string          `json:"supplier" validate:"required"`
	Unit         string          `json:"unit" validate:"required"`
	UnitCount    int             `json:"unitCount" validate:"gte=0"`
	Stock        int             `json:"stock" validate:"gte=0"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel int             `json:"reorderLevel" validate:"gte=0"`
	ExpiryDate   string          `json:"expiryDate"`
}

func (r ProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		Name:         r.Name,
		Category:     r.Category,
		Description:  r.Description,
		Supplier:     r.Supplier,
		Unit:         r.Unit,
		UnitCount:    r.UnitCount,
		Stock:        r.Stock,
		Price:        r.Price,
		ReorderLevel: r.ReorderLevel,
		ExpiryDate:   r.ExpiryDate,
	}
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalog service.CatalogService
	ledger  service.LedgerService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, ledger service.LedgerService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		ledger:  ledger,
		logger:  logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/low-stock", h.LowStock)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/replay", h.Replay)
	})
}

// List returns the catalog, optionally narrowed by a search query
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetByID returns a single product
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create adds a new product to the catalog
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.Create(r.Context(), req.toDomain())
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created", zap.Int("product_id", product.ID), zap.String("name", product.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update replaces the mutable fields of an existing product
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.Update(r.Context(), id, req.toDomain())
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product updated", zap.Int("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product; historical ledger entries survive
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product deleted", zap.Int("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// LowStock returns the products at or below their reorder threshold
func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, service.LowStock(products))
}

// ReplayResponse reports ledger-derived stock next to the catalog value
// so callers can detect drift after a partial commit.
type ReplayResponse struct {
	ProductID    int  `json:"productId"`
	LedgerStock  int  `json:"ledgerStock"`
	CatalogStock int  `json:"catalogStock"`
	InSync       bool `json:"inSync"`
}

// Replay folds the product's ledger entries and compares the result
// with the catalog's materialized stock
func (h *ProductHandler) Replay(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	baseline := 0
	if raw := r.URL.Query().Get("baseline"); raw != "" {
		baseline, err = strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "baseline must be an integer")
			return
		}
	}

	ledgerStock, err := h.ledger.ReplayStockFor(r.Context(), id, baseline)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ReplayResponse{
		ProductID:    id,
		LedgerStock:  ledgerStock,
		CatalogStock: product.Stock,
		InSync:       ledgerStock == product.Stock,
	})
}

// parseIDParam extracts the positive integer id path parameter.
func parseIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
