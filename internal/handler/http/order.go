package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eleven-jw/ecom-lab/pkg/middleware"
	"github.com/eleven-jw/ecom-lab/pkg/pagination"
	"github.com/eleven-jw/ecom-lab/pkg/validator"

	"github.com/eleven-jw/ecom-lab/internal/service"
)

// OrderHandler handles HTTP requests for order and checkout endpoints.
type OrderHandler struct {
	orders   *service.OrderService
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(orders *service.OrderService, checkout *service.CheckoutService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		checkout: checkout,
		logger:   logger,
	}
}

// CheckoutRequest is the JSON request body for placing an order.
type CheckoutRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=wechat alipay card"`
}

// AdvanceStatusRequest is the JSON request body for a status move.
type AdvanceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Checkout handles POST /api/v1/checkout
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	order, err := h.checkout.Checkout(r.Context(), userID, req.PaymentMethod)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: order})
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	writeJSON(w, http.StatusOK, response{Data: h.orders.List(params)})
}

// Get handles GET /api/v1/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.orders.Get(id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: order})
}

// AdvanceStatus handles POST /api/v1/orders/{id}/status
func (h *OrderHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AdvanceStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	order, err := h.orders.Advance(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: order})
}

// Cancel handles POST /api/v1/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.orders.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: order})
}
