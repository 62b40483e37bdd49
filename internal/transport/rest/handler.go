// Package rest provides HTTP handlers for product and stock operations.
package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/abgdnv/inventory/internal/service"
	"github.com/abgdnv/inventory/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const (
	msgDeleted   = "Product deleted successfully!"
	msgReduced   = "Stock reduced!"
	msgIncreased = "Stock increased!"
	msgMalformed = "Malformed request body"
)

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler backed by the given service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: web.NewValidator(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the product routes and the liveness check on r.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/products", h.Create)
	r.Get("/products", h.FindAll)
	r.Get("/products/{id}", h.FindByID)
	r.Put("/products/{id}", h.Update)
	r.Delete("/products/{id}", h.DeleteByID)
	r.Put("/products/{id}/reduceStock/{qty}", h.ReduceStock)
	r.Put("/products/{id}/increaseStock/{qty}", h.IncreaseStock)

	r.Get("/healthz", h.HealthCheck)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAndValidate(w, r)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create product", "name", req.Name)

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Update overwrites every mutable field of a product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	req, ok := h.decodeAndValidate(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondText(w, http.StatusOK, msgDeleted)
}

func (h *Handler) ReduceStock(w http.ResponseWriter, r *http.Request) {
	id, qty, ok := h.parseStockChange(w, r)
	if !ok {
		return
	}
	if err := h.service.ReduceStock(r.Context(), id, qty); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Stock reduced", "ID", id, "qty", qty)
	web.RespondText(w, http.StatusOK, msgReduced)
}

func (h *Handler) IncreaseStock(w http.ResponseWriter, r *http.Request) {
	id, qty, ok := h.parseStockChange(w, r)
	if !ok {
		return
	}
	if err := h.service.IncreaseStock(r.Context(), id, qty); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Stock increased", "ID", id, "qty", qty)
	web.RespondText(w, http.StatusOK, msgIncreased)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// parseStockChange reads {id} and {qty}; both must be positive.
func (h *Handler) parseStockChange(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return 0, 0, false
	}
	qty, ok := web.ParsePathInt(w, r, h.logger, "qty", 64, web.Gt(0))
	if !ok {
		return 0, 0, false
	}
	return id, qty, true
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request) (service.ProductRequestDto, bool) {
	var req service.ProductRequestDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, msgMalformed)
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		fieldErrors, ok := web.ValidationMessages(err)
		if !ok {
			h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
			web.RespondError(w, h.logger, http.StatusBadRequest, msgMalformed)
			return req, false
		}
		h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", fieldErrors)
		web.RespondValidationError(w, h.logger, fieldErrors)
		return req, false
	}
	return req, true
}
