package transport

import (
	"net/http"

	"pharmstock/internal/middleware"
	"pharmstock/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportHandler serves inventory summary reports
type ReportHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(catalog service.CatalogService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/stats", h.Stats)
		r.Get("/stock-by-category", h.StockByCategory)
	})
}

// Stats returns aggregate inventory statistics
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, service.ComputeStats(products))
}

// StockByCategory returns total stock grouped by product category
func (h *ReportHandler) StockByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, service.StockByCategory(products))
}
