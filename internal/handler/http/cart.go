package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eleven-jw/ecom-lab/pkg/validator"

	"github.com/eleven-jw/ecom-lab/internal/service"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ProductID    string `json:"productId" validate:"required"`
	VariantID    string `json:"variantId" validate:"required"`
	VariantLabel string `json:"variantLabel"`
	Name         string `json:"name" validate:"required,min=1,max=500"`
	ImageURL     string `json:"imageUrl"`
	UnitPrice    int64  `json:"unitPrice" validate:"gte=0"`
	Currency     string `json:"currency" validate:"required,len=3"`
	Quantity     int    `json:"quantity" validate:"required,gte=1"`
}

// SetQuantityRequest is the JSON request body for changing a row's quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"items":            h.service.Snapshot(),
		"totalQuantity":    h.service.TotalQuantity(),
		"totalAmount":      h.service.TotalAmount(),
		"totalsByCurrency": h.service.TotalsByCurrency(),
	}})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.service.AddItem(r.Context(), service.AddItemInput{
		ProductID:    req.ProductID,
		VariantID:    req.VariantID,
		VariantLabel: req.VariantLabel,
		Name:         req.Name,
		ImageURL:     req.ImageURL,
		UnitPrice:    req.UnitPrice,
		Currency:     req.Currency,
		Quantity:     req.Quantity,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: result})
}

// SetQuantity handles PATCH /api/v1/cart/items/{id}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	rowID := chi.URLParam(r, "id")

	var req SetQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.service.SetQuantity(r.Context(), rowID, req.Quantity)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: result})
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	rowID := chi.URLParam(r, "id")

	if err := h.service.RemoveItem(r.Context(), rowID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "removed"}})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}
