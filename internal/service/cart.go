package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"

	"github.com/eleven-jw/ecom-lab/internal/domain"
)

// AddItemInput holds the parameters for adding an item to the cart.
type AddItemInput struct {
	ProductID    string `json:"productId" validate:"required"`
	VariantID    string `json:"variantId" validate:"required"`
	VariantLabel string `json:"variantLabel"`
	Name         string `json:"name" validate:"required"`
	ImageURL     string `json:"imageUrl"`
	UnitPrice    int64  `json:"unitPrice" validate:"required,gte=0"`
	Currency     string `json:"currency" validate:"required,len=3"`
	Quantity     int    `json:"quantity" validate:"required,gte=1"`
}

// AddResult reports the outcome of a capacity-clamped cart mutation. Applied
// below requested is partial fulfillment; zero is total rejection. Neither is
// an error.
type AddResult struct {
	Applied   int             `json:"applied"`
	Requested int             `json:"requested"`
	Item      domain.CartItem `json:"item"`
}

// CartService is the cart ledger: an in-memory ordered list of rows bounded
// by a system-wide unit capacity. Rows merge by (productId, variantId). The
// invariant sum(quantities) <= MaxCartUnits holds after every operation.
type CartService struct {
	logger *slog.Logger

	mu   sync.Mutex
	cart domain.Cart
}

// NewCartService creates an empty cart ledger.
func NewCartService(logger *slog.Logger) *CartService {
	return &CartService{
		logger: logger,
		cart:   domain.Cart{Items: []domain.CartItem{}},
	}
}

// AddItem admits up to the requested quantity against the remaining capacity.
// A row matching (productId, variantId) absorbs the applied amount; otherwise
// a new row is created. The applied quantity is returned so the caller can
// surface partial fulfillment distinctly from rejection.
func (s *CartService) AddItem(ctx context.Context, input AddItemInput) (*AddResult, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.VariantID == "" {
		return nil, apperrors.InvalidInput("variant id is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}
	if input.UnitPrice < 0 {
		return nil, apperrors.InvalidInput("unit price must not be negative")
	}
	if input.Currency == "" {
		return nil, apperrors.InvalidInput("currency is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.cart.FindItemIndex(input.ProductID, input.VariantID)
	existing := 0
	if idx >= 0 {
		existing = s.cart.Items[idx].Quantity
	}

	// Capacity left for this pairing: everything not held by other rows.
	available := domain.MaxCartUnits - (s.cart.TotalQuantity() - existing)

	newQty := existing + input.Quantity
	if newQty > available {
		newQty = available
	}
	applied := newQty - existing

	var item domain.CartItem
	switch {
	case applied == 0 && idx < 0:
		// Rejected outright; no row to create.
		item = domain.CartItem{
			ProductID:    input.ProductID,
			VariantID:    input.VariantID,
			VariantLabel: input.VariantLabel,
			Name:         input.Name,
			ImageURL:     input.ImageURL,
			UnitPrice:    input.UnitPrice,
			Currency:     input.Currency,
		}
	case idx >= 0:
		s.cart.Items[idx].Quantity = newQty
		item = s.cart.Items[idx]
	default:
		item = domain.CartItem{
			ID:           uuid.New().String(),
			ProductID:    input.ProductID,
			VariantID:    input.VariantID,
			VariantLabel: input.VariantLabel,
			Name:         input.Name,
			ImageURL:     input.ImageURL,
			UnitPrice:    input.UnitPrice,
			Currency:     input.Currency,
			Quantity:     applied,
		}
		s.cart.Items = append(s.cart.Items, item)
	}

	s.logger.InfoContext(ctx, "cart item added",
		slog.String("product_id", input.ProductID),
		slog.String("variant_id", input.VariantID),
		slog.Int("requested", input.Quantity),
		slog.Int("applied", applied),
	)

	return &AddResult{Applied: applied, Requested: input.Quantity, Item: item}, nil
}

// SetQuantity sets a row's quantity, clamped to [1, available] where available
// excludes the row's own current holding. Zero is not reachable; use
// RemoveItem to drop a row.
func (s *CartService) SetQuantity(ctx context.Context, rowID string, desired int) (*AddResult, error) {
	if desired < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.cart.FindRowIndex(rowID)
	if idx < 0 {
		return nil, apperrors.NotFound("cart item", rowID)
	}

	row := &s.cart.Items[idx]
	available := domain.MaxCartUnits - (s.cart.TotalQuantity() - row.Quantity)

	applied := desired
	if applied > available {
		applied = available
	}
	if applied < 1 {
		applied = 1
	}
	row.Quantity = applied

	s.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("row_id", rowID),
		slog.Int("requested", desired),
		slog.Int("applied", applied),
	)

	return &AddResult{Applied: applied, Requested: desired, Item: *row}, nil
}

// RemoveItem drops a row from the ledger.
func (s *CartService) RemoveItem(ctx context.Context, rowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.cart.FindRowIndex(rowID)
	if idx < 0 {
		return apperrors.NotFound("cart item", rowID)
	}

	s.cart.Items = append(s.cart.Items[:idx], s.cart.Items[idx+1:]...)

	s.logger.InfoContext(ctx, "cart item removed", slog.String("row_id", rowID))
	return nil
}

// Clear empties the ledger.
func (s *CartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.cart.Items = []domain.CartItem{}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "cart cleared")
	return nil
}

// Snapshot returns a deep copy of the rows, detached from the ledger.
func (s *CartService) Snapshot() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// TotalQuantity returns the number of units across all rows.
func (s *CartService) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalQuantity()
}

// TotalAmount returns the scalar total; meaningful only for single-currency
// carts.
func (s *CartService) TotalAmount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalAmount()
}

// TotalsByCurrency returns per-currency subtotals.
func (s *CartService) TotalsByCurrency() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalsByCurrency()
}
