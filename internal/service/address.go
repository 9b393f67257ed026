package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"

	"github.com/eleven-jw/ecom-lab/internal/domain"
)

// AddAddressInput holds the parameters for adding an address.
type AddAddressInput struct {
	Label      string `json:"label" validate:"required"`
	Recipient  string `json:"recipient" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	City       string `json:"city" validate:"required"`
	Region     string `json:"region" validate:"required"`
	District   string `json:"district"`
	PostalCode string `json:"postalCode" validate:"required"`
	IsDefault  bool   `json:"isDefault"`
}

// AddressService is the address book ledger. It maintains two invariants:
// at most MaxAddresses rows, and exactly one default whenever the book is
// non-empty. A separate selection pointer marks the address for the next
// checkout without touching default status.
type AddressService struct {
	logger *slog.Logger

	mu         sync.Mutex
	addresses  []domain.Address
	selectedID string
}

// NewAddressService creates an empty address book.
func NewAddressService(logger *slog.Logger) *AddressService {
	return &AddressService{
		logger:    logger,
		addresses: []domain.Address{},
	}
}

// Add appends an address. The first address is forced to default regardless
// of the caller's flag; an explicit default clears every other row first.
// The new row becomes the checkout selection.
func (s *AddressService) Add(ctx context.Context, input AddAddressInput) (*domain.Address, error) {
	if input.Recipient == "" {
		return nil, apperrors.InvalidInput("recipient is required")
	}
	if input.Phone == "" {
		return nil, apperrors.InvalidInput("phone is required")
	}
	if input.Line1 == "" {
		return nil, apperrors.InvalidInput("line1 is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.addresses) >= domain.MaxAddresses {
		return nil, apperrors.CapacityExceeded("address book", domain.MaxAddresses)
	}

	addr := domain.Address{
		ID:         uuid.New().String(),
		Label:      input.Label,
		Recipient:  input.Recipient,
		Phone:      input.Phone,
		Line1:      input.Line1,
		City:       input.City,
		Region:     input.Region,
		District:   input.District,
		PostalCode: input.PostalCode,
		IsDefault:  input.IsDefault || len(s.addresses) == 0,
	}

	if addr.IsDefault {
		s.clearDefaultLocked()
	}

	s.addresses = append(s.addresses, addr)
	s.selectedID = addr.ID

	s.logger.InfoContext(ctx, "address added",
		slog.String("address_id", addr.ID),
		slog.Bool("default", addr.IsDefault),
	)

	result := addr
	return &result, nil
}

// Update merges fields into an existing address. Default status is preserved
// unless the caller explicitly sets it; an explicit true clears every other
// row, an explicit false is honored only if another row stays default.
func (s *AddressService) Update(ctx context.Context, id string, update domain.AddressUpdate) (*domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findLocked(id)
	if idx < 0 {
		return nil, apperrors.NotFound("address", id)
	}

	addr := &s.addresses[idx]
	addr.Apply(update)

	if update.IsDefault != nil {
		if *update.IsDefault {
			s.clearDefaultLocked()
			addr.IsDefault = true
		} else if addr.IsDefault && len(s.addresses) > 1 {
			// Demoting the only default hands it to the first other row.
			addr.IsDefault = false
			for i := range s.addresses {
				if s.addresses[i].ID != id {
					s.addresses[i].IsDefault = true
					break
				}
			}
		}
	}

	s.logger.InfoContext(ctx, "address updated", slog.String("address_id", id))

	result := *addr
	return &result, nil
}

// Remove deletes an address. A removed selection falls back to the first
// remaining row; a removed default promotes the first remaining row so the
// book never lacks a default while non-empty.
func (s *AddressService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findLocked(id)
	if idx < 0 {
		return apperrors.NotFound("address", id)
	}

	wasDefault := s.addresses[idx].IsDefault
	s.addresses = append(s.addresses[:idx], s.addresses[idx+1:]...)

	if len(s.addresses) > 0 && wasDefault {
		s.addresses[0].IsDefault = true
	}

	if s.selectedID == id {
		s.selectedID = ""
		if len(s.addresses) > 0 {
			s.selectedID = s.addresses[0].ID
		}
	}

	s.logger.InfoContext(ctx, "address removed",
		slog.String("address_id", id),
		slog.Bool("was_default", wasDefault),
	)
	return nil
}

// SetDefault marks the given address as the single default.
func (s *AddressService) SetDefault(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findLocked(id)
	if idx < 0 {
		return apperrors.NotFound("address", id)
	}

	s.clearDefaultLocked()
	s.addresses[idx].IsDefault = true

	s.logger.InfoContext(ctx, "default address set", slog.String("address_id", id))
	return nil
}

// Select moves the transient checkout pointer without touching defaults.
func (s *AddressService) Select(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) < 0 {
		return apperrors.NotFound("address", id)
	}
	s.selectedID = id
	return nil
}

// List returns a copy of the book and the current selection.
func (s *AddressService) List() ([]domain.Address, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	addresses := make([]domain.Address, len(s.addresses))
	copy(addresses, s.addresses)
	return addresses, s.selectedID
}

// CheckoutAddress returns the address checkout should ship to: the selection
// if one is set, otherwise the default, otherwise nil.
func (s *AddressService) CheckoutAddress() *domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedID != "" {
		if idx := s.findLocked(s.selectedID); idx >= 0 {
			addr := s.addresses[idx]
			return &addr
		}
	}
	for i := range s.addresses {
		if s.addresses[i].IsDefault {
			addr := s.addresses[i]
			return &addr
		}
	}
	return nil
}

func (s *AddressService) findLocked(id string) int {
	for i := range s.addresses {
		if s.addresses[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *AddressService) clearDefaultLocked() {
	for i := range s.addresses {
		s.addresses[i].IsDefault = false
	}
}
