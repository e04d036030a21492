package transport

import (
	"errors"
	"net/http"

	"pharmstock/internal/domain"
	"pharmstock/internal/middleware"

	"go.uber.org/zap"
)

// respondDomainError maps the core's error kinds onto HTTP status codes.
// The core reports errors as structured values; turning them into
// user-facing text happens only here, at the presentation boundary.
func respondDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, verr.Error(), map[string]interface{}{
			"field": verr.Field,
		})
		return
	}

	var nferr *domain.NotFoundError
	if errors.As(err, &nferr) {
		middleware.RespondWithError(w, http.StatusNotFound, nferr.Error())
		return
	}

	var iserr *domain.InsufficientStockError
	if errors.As(err, &iserr) {
		middleware.RespondWithErrorDetails(w, http.StatusConflict, iserr.Error(), map[string]interface{}{
			"productId": iserr.ProductID,
			"available": iserr.Available,
			"requested": iserr.Requested,
		})
		return
	}

	var pcerr *domain.PartialCommitError
	if errors.As(err, &pcerr) {
		logger.Error("Partial commit: ledger and catalog disagree", zap.Error(err),
			zap.Int("transaction_id", pcerr.Transaction.ID))
		middleware.RespondWithErrorDetails(w, http.StatusInternalServerError,
			"transaction recorded but stock update failed", map[string]interface{}{
				"transaction": pcerr.Transaction,
			})
		return
	}

	logger.Error("Unhandled service error", zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}
