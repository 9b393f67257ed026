package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eleven-jw/ecom-lab/internal/client"
)

// CatalogHandler proxies read-only catalog endpoints. The catalog carries no
// invariant logic; bodies pass through as raw JSON.
type CatalogHandler struct {
	catalog *client.CatalogClient
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(catalog *client.CatalogClient, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// Banners handles GET /api/v1/catalog/banners
func (h *CatalogHandler) Banners(w http.ResponseWriter, r *http.Request) {
	data, err := h.catalog.Banners(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Data: data})
}

// Categories handles GET /api/v1/catalog/categories
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	data, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Data: data})
}

// Products handles GET /api/v1/catalog/products
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	data, err := h.catalog.Products(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Data: data})
}

// Product handles GET /api/v1/catalog/products/{id}
func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	data, err := h.catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Data: data})
}
