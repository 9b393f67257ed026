package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eleven-jw/ecom-lab/pkg/validator"

	"github.com/eleven-jw/ecom-lab/internal/domain"
	"github.com/eleven-jw/ecom-lab/internal/service"
)

// AddressHandler handles HTTP requests for address book endpoints.
type AddressHandler struct {
	service *service.AddressService
	logger  *slog.Logger
}

// NewAddressHandler creates a new address HTTP handler.
func NewAddressHandler(svc *service.AddressService, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{
		service: svc,
		logger:  logger,
	}
}

// AddAddressRequest is the JSON request body for adding an address.
type AddAddressRequest struct {
	Label      string `json:"label" validate:"required,max=50"`
	Recipient  string `json:"recipient" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"required,max=30"`
	Line1      string `json:"line1" validate:"required,max=300"`
	City       string `json:"city" validate:"required,max=100"`
	Region     string `json:"region" validate:"required,max=100"`
	District   string `json:"district" validate:"max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	IsDefault  bool   `json:"isDefault"`
}

// List handles GET /api/v1/addresses
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	addresses, selectedID := h.service.List()
	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"addresses":         addresses,
		"selectedAddressId": selectedID,
	}})
}

// Add handles POST /api/v1/addresses
func (h *AddressHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddAddressRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	addr, err := h.service.Add(r.Context(), service.AddAddressInput{
		Label:      req.Label,
		Recipient:  req.Recipient,
		Phone:      req.Phone,
		Line1:      req.Line1,
		City:       req.City,
		Region:     req.Region,
		District:   req.District,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: addr})
}

// Update handles PUT /api/v1/addresses/{id}
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update domain.AddressUpdate
	if !decodeBody(w, r, &update) {
		return
	}

	addr, err := h.service.Update(r.Context(), id, update)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: addr})
}

// Remove handles DELETE /api/v1/addresses/{id}
func (h *AddressHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Remove(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "removed"}})
}

// SetDefault handles POST /api/v1/addresses/{id}/default
func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.SetDefault(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "default_set"}})
}

// Select handles POST /api/v1/addresses/{id}/select
func (h *AddressHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Select(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "selected"}})
}
