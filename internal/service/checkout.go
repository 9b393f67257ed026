package service

import (
	"context"
	"log/slog"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"

	"github.com/eleven-jw/ecom-lab/internal/domain"
)

// CheckoutService coordinates the cross-ledger checkout step: it reads the
// cart and the shipping address, creates the order, and clears the cart, as
// one operation. If the clear cannot be confirmed the order is rolled back so
// the two ledgers never drift apart.
type CheckoutService struct {
	cart      *CartService
	addresses *AddressService
	orders    *OrderService
	logger    *slog.Logger
}

// NewCheckoutService creates a checkout coordinator.
func NewCheckoutService(cart *CartService, addresses *AddressService, orders *OrderService, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		cart:      cart,
		addresses: addresses,
		orders:    orders,
		logger:    logger,
	}
}

// Checkout places an order from the current cart and shipping address.
func (s *CheckoutService) Checkout(ctx context.Context, userID, paymentMethod string) (*domain.Order, error) {
	switch paymentMethod {
	case domain.PaymentMethodWechat, domain.PaymentMethodAlipay, domain.PaymentMethodCard:
	default:
		return nil, apperrors.InvalidInput("unknown payment method: " + paymentMethod)
	}

	items := s.cart.Snapshot()
	if len(items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	totals := s.cart.TotalsByCurrency()
	if len(totals) > 1 {
		return nil, apperrors.InvalidInput("cart holds multiple currencies and cannot be checked out as one order")
	}
	var currency string
	var totalAmount int64
	for c, t := range totals {
		currency, totalAmount = c, t
	}

	address := s.addresses.CheckoutAddress()
	if address == nil {
		return nil, apperrors.InvalidInput("no shipping address available")
	}

	order, err := s.orders.Create(ctx, userID, items, *address, paymentMethod, currency, totalAmount)
	if err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		// The order must not survive a cart that failed to clear.
		if dropErr := s.orders.Drop(ctx, order.ID); dropErr != nil {
			s.logger.ErrorContext(ctx, "order rollback failed after cart clear error",
				slog.String("order_id", order.ID),
				slog.String("error", dropErr.Error()),
			)
		}
		return nil, apperrors.Wrap(err, "clear cart after checkout")
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int64("total_amount", totalAmount),
	)

	return order, nil
}
