package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"
	"github.com/eleven-jw/ecom-lab/pkg/pagination"

	"github.com/eleven-jw/ecom-lab/internal/domain"
	"github.com/eleven-jw/ecom-lab/internal/event"
)

// OrderService is the order ledger. Orders are created once, never deleted,
// and only their status moves through the transition lattice. Line items and
// the shipping address are deep copies taken at creation; later cart or
// address edits never reach a placed order.
type OrderService struct {
	producer *event.Producer
	logger   *slog.Logger

	mu     sync.Mutex
	orders []*domain.Order
}

// NewOrderService creates an empty order ledger.
func NewOrderService(producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		producer: producer,
		logger:   logger,
		orders:   []*domain.Order{},
	}
}

// Create materializes an order from a cart snapshot and an address copy.
// Initial status is processing: the confirmed flow has no separate awaiting-
// payment step because payment is simulated upstream. Creation does not clear
// the cart; the checkout coordinator owns that sequencing.
func (s *OrderService) Create(ctx context.Context, userID string, items []domain.CartItem, address domain.Address, paymentMethod, currency string, totalAmount int64) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, apperrors.InvalidInput("order requires at least one item")
	}

	orderItems := make([]domain.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = domain.OrderItem{
			ProductID:    item.ProductID,
			Name:         item.Name,
			ImageURL:     item.ImageURL,
			VariantLabel: item.VariantLabel,
			Quantity:     item.Quantity,
			Price:        item.UnitPrice,
			Currency:     item.Currency,
		}
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:            uuid.New().String(),
		UserID:        userID,
		Status:        domain.OrderStatusProcessing,
		TotalAmount:   totalAmount,
		Currency:      currency,
		PaymentMethod: paymentMethod,
		Address:       address,
		Items:         orderItems,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.mu.Unlock()

	if err := s.producer.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int64("total_amount", totalAmount),
	)

	return order.Clone(), nil
}

// Advance moves an order to the next status. Only single forward edges of the
// lattice are accepted.
func (s *OrderService) Advance(ctx context.Context, orderID, nextStatus string) (*domain.Order, error) {
	if !domain.IsValidOrderStatus(nextStatus) {
		return nil, apperrors.InvalidInput("unknown order status: " + nextStatus)
	}

	s.mu.Lock()
	order := s.findLocked(orderID)
	if order == nil {
		s.mu.Unlock()
		return nil, apperrors.NotFound("order", orderID)
	}

	from := order.Status
	if !order.CanTransitionTo(nextStatus) {
		s.mu.Unlock()
		return nil, apperrors.IllegalTransition("order", from, nextStatus)
	}

	order.Status = nextStatus
	order.UpdatedAt = time.Now().UTC()
	clone := order.Clone()
	s.mu.Unlock()

	if err := s.producer.PublishOrderStatusChanged(ctx, orderID, from, nextStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status advanced",
		slog.String("order_id", orderID),
		slog.String("from", from),
		slog.String("to", nextStatus),
	)

	return clone, nil
}

// Cancel moves an order to cancelled. Terminal orders reject the move.
func (s *OrderService) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.Advance(ctx, orderID, domain.OrderStatusCancelled)
}

// Get returns a copy of an order.
func (s *OrderService) Get(orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.findLocked(orderID)
	if order == nil {
		return nil, apperrors.NotFound("order", orderID)
	}
	return order.Clone(), nil
}

// List returns orders newest-first, paginated.
func (s *OrderService) List(params pagination.Params) pagination.Result[*domain.Order] {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.orders)
	newest := make([]*domain.Order, 0, params.PerPage)
	for i := total - 1 - params.Offset; i >= 0 && len(newest) < params.PerPage; i-- {
		newest = append(newest, s.orders[i].Clone())
	}

	return pagination.NewResult(newest, total, params)
}

// Drop removes an order outright. Only the checkout coordinator uses this, to
// roll back an order whose cart clear could not be confirmed.
func (s *OrderService) Drop(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			s.logger.WarnContext(ctx, "order rolled back", slog.String("order_id", orderID))
			return nil
		}
	}
	return apperrors.NotFound("order", orderID)
}

func (s *OrderService) findLocked(orderID string) *domain.Order {
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			return s.orders[i]
		}
	}
	return nil
}
