package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"
	"github.com/eleven-jw/ecom-lab/pkg/middleware"
	"github.com/eleven-jw/ecom-lab/pkg/validator"

	"github.com/eleven-jw/ecom-lab/internal/service"
)

// AfterSaleHandler handles HTTP requests for after-sale endpoints.
type AfterSaleHandler struct {
	service *service.AfterSaleService
	orders  *service.OrderService
	logger  *slog.Logger
}

// NewAfterSaleHandler creates a new after-sale HTTP handler.
func NewAfterSaleHandler(svc *service.AfterSaleService, orders *service.OrderService, logger *slog.Logger) *AfterSaleHandler {
	return &AfterSaleHandler{
		service: svc,
		orders:  orders,
		logger:  logger,
	}
}

// SubmitRequest is the JSON request body for opening a service request.
type SubmitRequest struct {
	OrderID     string   `json:"orderId" validate:"required"`
	Type        string   `json:"type" validate:"required,oneof=refund exchange support"`
	Reason      string   `json:"reason" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Contact     string   `json:"contact" validate:"max=200"`
	Attachments []string `json:"attachments" validate:"max=10"`
}

// List handles GET /api/v1/aftersale
func (h *AfterSaleHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: h.service.List()})
}

// Submit handles POST /api/v1/aftersale. Ownership is verified here, at the
// boundary: the order must belong to the requester and contain at least one
// purchased line item.
func (h *AfterSaleHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	order, err := h.orders.Get(req.OrderID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if order.UserID != middleware.UserIDFromContext(r.Context()) {
		writeError(w, r, h.logger, apperrors.Forbidden("order does not belong to the requester"))
		return
	}
	if len(order.Items) == 0 {
		writeError(w, r, h.logger, apperrors.InvalidInput("order has no purchased items"))
		return
	}

	request, err := h.service.Submit(r.Context(), service.SubmitAfterSaleInput{
		OrderID:     req.OrderID,
		Type:        req.Type,
		Reason:      req.Reason,
		Description: req.Description,
		Contact:     req.Contact,
		Attachments: req.Attachments,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: request})
}

// AdvanceStatus handles POST /api/v1/aftersale/{id}/status
func (h *AfterSaleHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AdvanceStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	request, err := h.service.Advance(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: request})
}
