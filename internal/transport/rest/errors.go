package rest

import (
	"errors"
	"net/http"

	inverrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/pkg/web"
)

// respondServiceError maps a service error onto its status code and client message.
// Anything unrecognised is logged in full and answered with the generic 500 body.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound   *inverrors.NotFoundError
		outOfStock *inverrors.OutOfStockError
		violation  *inverrors.ConstraintViolationError
	)
	switch {
	case errors.As(err, &notFound):
		h.logger.WarnContext(r.Context(), "Product not found", "ID", notFound.ID)
		web.RespondError(w, h.logger, http.StatusNotFound, notFound.Error())
	case errors.As(err, &outOfStock):
		h.logger.WarnContext(r.Context(), "Not enough stock", "ID", outOfStock.ID,
			"available", outOfStock.Available, "requested", outOfStock.Requested)
		web.RespondError(w, h.logger, http.StatusBadRequest, outOfStock.Error())
	case errors.As(err, &violation):
		h.logger.WarnContext(r.Context(), "Constraint violation", "error", err)
		web.RespondError(w, h.logger, http.StatusConflict, violation.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Unexpected error", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, web.UnexpectedErrorMessage)
	}
}
