package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"
	"github.com/eleven-jw/ecom-lab/pkg/pagination"

	"github.com/eleven-jw/ecom-lab/internal/domain"
)

func newCheckoutFixture(t *testing.T) (*CheckoutService, *CartService, *AddressService, *OrderService) {
	t.Helper()
	logger := newTestLogger()
	cart := NewCartService(logger)
	addresses := NewAddressService(logger)
	orders := NewOrderService(newTestProducer(), logger)
	checkout := NewCheckoutService(cart, addresses, orders, logger)
	return checkout, cart, addresses, orders
}

func TestCheckout_PlacesOrderAndClearsCart(t *testing.T) {
	checkout, cart, addresses, orders := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := cart.AddItem(ctx, newAddInput("prod-1", "var-1", 2))
	require.NoError(t, err)
	addr, err := addresses.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)

	order, err := checkout.Checkout(ctx, "user-1", domain.PaymentMethodWechat)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	assert.Equal(t, addr.ID, order.Address.ID)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, int64(3998), order.TotalAmount)
	assert.Len(t, order.Items, 1)

	// The cart is empty and the order is on the ledger.
	assert.Empty(t, cart.Snapshot())
	stored, err := orders.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)
}

func TestCheckout_EmptyCart(t *testing.T) {
	checkout, _, addresses, _ := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := addresses.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)

	_, err = checkout.Checkout(ctx, "user-1", domain.PaymentMethodCard)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCheckout_NoAddress(t *testing.T) {
	checkout, cart, _, _ := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := cart.AddItem(ctx, newAddInput("prod-1", "var-1", 1))
	require.NoError(t, err)

	_, err = checkout.Checkout(ctx, "user-1", domain.PaymentMethodAlipay)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Len(t, cart.Snapshot(), 1, "cart untouched on rejection")
}

func TestCheckout_UnknownPaymentMethod(t *testing.T) {
	checkout, cart, addresses, _ := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := cart.AddItem(ctx, newAddInput("prod-1", "var-1", 1))
	require.NoError(t, err)
	_, err = addresses.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)

	_, err = checkout.Checkout(ctx, "user-1", "cash")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCheckout_MixedCurrencyCart(t *testing.T) {
	checkout, cart, addresses, orders := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := cart.AddItem(ctx, newAddInput("prod-1", "var-1", 1))
	require.NoError(t, err)
	eur := newAddInput("prod-2", "var-1", 1)
	eur.Currency = "EUR"
	_, err = cart.AddItem(ctx, eur)
	require.NoError(t, err)
	_, err = addresses.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)

	_, err = checkout.Checkout(ctx, "user-1", domain.PaymentMethodWechat)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Len(t, cart.Snapshot(), 2)
	assert.Equal(t, 0, orders.List(pagination.DefaultParams()).TotalCount)
}

func TestCheckout_UsesSelectedAddressOverDefault(t *testing.T) {
	checkout, cart, addresses, _ := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := cart.AddItem(ctx, newAddInput("prod-1", "var-1", 1))
	require.NoError(t, err)

	first, err := addresses.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)
	_, err = addresses.Add(ctx, newAddressInput("office"))
	require.NoError(t, err)
	require.NoError(t, addresses.Select(ctx, first.ID))

	order, err := checkout.Checkout(ctx, "user-1", domain.PaymentMethodCard)

	require.NoError(t, err)
	assert.Equal(t, first.ID, order.Address.ID)
}
