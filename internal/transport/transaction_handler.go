package transport

import (
	"net/http"
	"strconv"

	"pharmstock/internal/domain"
	"pharmstock/internal/middleware"
	"pharmstock/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TransactionRequest represents the stock movement payload
type TransactionRequest struct {
	ProductID int    `json:"productId" validate:"required,gt=0"`
	Type      string `json:"type" validate:"required,oneof=in out"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Notes     string `json:"notes"`
	UserID    int    `json:"userId" validate:"gte=0"`
}

// TransactionHandler handles HTTP requests for ledger operations
type TransactionHandler struct {
	ledger service.LedgerService
	logger *zap.Logger
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(ledger service.LedgerService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		ledger: ledger,
		logger: logger,
	}
}

// RegisterRoutes registers all transaction routes
func (h *TransactionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/transactions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Append)
		r.Get("/{id}", h.GetByID)
	})
}

// Append records a stock movement
func (h *TransactionHandler) Append(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.ledger.Append(r.Context(), service.AppendRequest{
		ProductID: req.ProductID,
		Type:      domain.TransactionType(req.Type),
		Quantity:  req.Quantity,
		Notes:     req.Notes,
		UserID:    req.UserID,
	})
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Transaction recorded",
		zap.Int("transaction_id", tx.ID),
		zap.Int("product_id", tx.ProductID),
		zap.String("type", string(tx.Type)),
		zap.Int("quantity", tx.Quantity),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, tx)
}

// List returns the filtered, date-descending, paginated transaction history
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.ledger.List(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "pageSize", service.DefaultPageSize)

	view := service.Paginate(service.SortByDateDesc(service.Filter(transactions, criteria)), page, pageSize)
	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// GetByID returns a single transaction
func (h *TransactionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	tx, err := h.ledger.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, tx)
}

func criteriaFromQuery(r *http.Request) (service.Criteria, error) {
	criteria := service.Criteria{
		Type:     domain.TransactionType(r.URL.Query().Get("type")),
		DateFrom: r.URL.Query().Get("dateFrom"),
		DateTo:   r.URL.Query().Get("dateTo"),
	}

	var err error
	if criteria.ID, err = queryIntPtr(r, "id"); err != nil {
		return service.Criteria{}, err
	}
	if criteria.ProductID, err = queryIntPtr(r, "productId"); err != nil {
		return service.Criteria{}, err
	}
	if criteria.UserID, err = queryIntPtr(r, "userId"); err != nil {
		return service.Criteria{}, err
	}
	return criteria, nil
}

func queryIntPtr(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &queryParamError{name: name}
	}
	return &v, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

type queryParamError struct {
	name string
}

func (e *queryParamError) Error() string {
	return e.name + " must be an integer"
}
