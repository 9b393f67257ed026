package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"

	"github.com/eleven-jw/ecom-lab/internal/domain"
)

func newAddressInput(label string) AddAddressInput {
	return AddAddressInput{
		Label:      label,
		Recipient:  "Jane Doe",
		Phone:      "555-0100",
		Line1:      "1 Main St",
		City:       "Springfield",
		Region:     "IL",
		PostalCode: "62701",
	}
}

func countDefaults(addresses []domain.Address) int {
	n := 0
	for _, a := range addresses {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func TestAddAddress_FirstIsForcedDefault(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	input := newAddressInput("home")
	input.IsDefault = false

	addr, err := svc.Add(ctx, input)

	require.NoError(t, err)
	assert.True(t, addr.IsDefault)

	addresses, selected := svc.List()
	assert.Len(t, addresses, 1)
	assert.Equal(t, addr.ID, selected)
}

func TestAddAddress_ExplicitDefaultDisplacesPrevious(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	first, err := svc.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)

	second := newAddressInput("office")
	second.IsDefault = true
	added, err := svc.Add(ctx, second)
	require.NoError(t, err)
	assert.True(t, added.IsDefault)

	addresses, _ := svc.List()
	assert.Equal(t, 1, countDefaults(addresses))
	for _, a := range addresses {
		if a.ID == first.ID {
			assert.False(t, a.IsDefault)
		}
	}
}

func TestAddAddress_NonDefaultKeepsExistingDefault(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	first, err := svc.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)

	second, err := svc.Add(ctx, newAddressInput("office"))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	addresses, selected := svc.List()
	assert.Equal(t, 1, countDefaults(addresses))
	assert.Equal(t, second.ID, selected, "newest address becomes the checkout selection")

	_ = first
}

func TestAddAddress_CapacityLimit(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	for i := 0; i < domain.MaxAddresses; i++ {
		_, err := svc.Add(ctx, newAddressInput(fmt.Sprintf("addr-%d", i)))
		require.NoError(t, err)
	}

	_, err := svc.Add(ctx, newAddressInput("one-too-many"))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCapacityReached)

	addresses, _ := svc.List()
	assert.Len(t, addresses, domain.MaxAddresses)
}

func TestUpdateAddress_MergesFields(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	addr, err := svc.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)

	city := "Shelbyville"
	updated, err := svc.Update(ctx, addr.ID, domain.AddressUpdate{City: &city})

	require.NoError(t, err)
	assert.Equal(t, "Shelbyville", updated.City)
	assert.Equal(t, addr.Recipient, updated.Recipient)
	assert.True(t, updated.IsDefault, "default status untouched when not in the update")
}

func TestUpdateAddress_PromoteToDefault(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	_, err := svc.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)
	second, err := svc.Add(ctx, newAddressInput("office"))
	require.NoError(t, err)

	isDefault := true
	updated, err := svc.Update(ctx, second.ID, domain.AddressUpdate{IsDefault: &isDefault})

	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	addresses, _ := svc.List()
	assert.Equal(t, 1, countDefaults(addresses))
}

func TestUpdateAddress_DemotingOnlyDefaultHandsItOff(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	first, err := svc.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)
	second, err := svc.Add(ctx, newAddressInput("office"))
	require.NoError(t, err)

	isDefault := false
	updated, err := svc.Update(ctx, first.ID, domain.AddressUpdate{IsDefault: &isDefault})

	require.NoError(t, err)
	assert.False(t, updated.IsDefault)

	addresses, _ := svc.List()
	assert.Equal(t, 1, countDefaults(addresses))
	for _, a := range addresses {
		if a.ID == second.ID {
			assert.True(t, a.IsDefault)
		}
	}
}

func TestUpdateAddress_NotFound(t *testing.T) {
	svc := NewAddressService(newTestLogger())

	_, err := svc.Update(context.Background(), "missing", domain.AddressUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRemoveAddress_PromotesNewDefault(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	first, err := svc.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)
	_, err = svc.Add(ctx, newAddressInput("office"))
	require.NoError(t, err)
	_, err = svc.Add(ctx, newAddressInput("parents"))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, first.ID))

	addresses, _ := svc.List()
	assert.Len(t, addresses, 2)
	assert.Equal(t, 1, countDefaults(addresses))
	assert.True(t, addresses[0].IsDefault, "first remaining row inherits default")
}

func TestRemoveAddress_SelectionFallsBack(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	first, err := svc.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)
	second, err := svc.Add(ctx, newAddressInput("office"))
	require.NoError(t, err)

	// The second add moved the selection to it; removing it falls back.
	require.NoError(t, svc.Remove(ctx, second.ID))

	_, selected := svc.List()
	assert.Equal(t, first.ID, selected)
}

func TestRemoveAddress_LastLeavesEmptyBook(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	addr, err := svc.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, addr.ID))

	addresses, selected := svc.List()
	assert.Empty(t, addresses)
	assert.Empty(t, selected)
	assert.Nil(t, svc.CheckoutAddress())
}

func TestSetDefault_SingleDefaultInvariant(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	_, err := svc.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)
	second, err := svc.Add(ctx, newAddressInput("office"))
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(ctx, second.ID))

	addresses, _ := svc.List()
	assert.Equal(t, 1, countDefaults(addresses))
	for _, a := range addresses {
		assert.Equal(t, a.ID == second.ID, a.IsDefault)
	}
}

func TestSelect_DoesNotTouchDefault(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	first, err := svc.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)
	second, err := svc.Add(ctx, newAddressInput("office"))
	require.NoError(t, err)

	require.NoError(t, svc.Select(ctx, first.ID))

	addresses, selected := svc.List()
	assert.Equal(t, first.ID, selected)
	assert.Equal(t, 1, countDefaults(addresses))

	checkout := svc.CheckoutAddress()
	require.NotNil(t, checkout)
	assert.Equal(t, first.ID, checkout.ID)

	_ = second
}

func TestCheckoutAddress_FallsBackToDefault(t *testing.T) {
	svc := NewAddressService(newTestLogger())
	ctx := context.Background()

	first, err := svc.Add(ctx, newAddressInput("home"))
	require.NoError(t, err)
	second, err := svc.Add(ctx, newAddressInput("office"))
	require.NoError(t, err)

	// Remove the selected row; the default (first) should win.
	require.NoError(t, svc.Remove(ctx, second.ID))

	checkout := svc.CheckoutAddress()
	require.NotNil(t, checkout)
	assert.Equal(t, first.ID, checkout.ID)
}
