package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"

	"github.com/eleven-jw/ecom-lab/internal/domain"
)

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newAddInput(productID, variantID string, qty int) AddItemInput {
	return AddItemInput{
		ProductID: productID,
		VariantID: variantID,
		Name:      "Test Product",
		UnitPrice: 1999,
		Currency:  "USD",
		Quantity:  qty,
	}
}

// --- Tests ---

func TestAddItem_NewRow(t *testing.T) {
	svc := NewCartService(newTestLogger())
	ctx := context.Background()

	result, err := svc.AddItem(ctx, newAddInput("prod-1", "var-1", 3))

	require.NoError(t, err)
	assert.Equal(t, 3, result.Applied)
	assert.Equal(t, 3, result.Requested)
	assert.NotEmpty(t, result.Item.ID)
	assert.Equal(t, 3, result.Item.Quantity)
	assert.Equal(t, 3, svc.TotalQuantity())
}

func TestAddItem_MergesByProductAndVariant(t *testing.T) {
	svc := NewCartService(newTestLogger())
	ctx := context.Background()

	first, err := svc.AddItem(ctx, newAddInput("prod-1", "var-1", 2))
	require.NoError(t, err)

	second, err := svc.AddItem(ctx, newAddInput("prod-1", "var-1", 3))
	require.NoError(t, err)

	assert.Equal(t, first.Item.ID, second.Item.ID)
	assert.Equal(t, 5, second.Item.Quantity)
	assert.Len(t, svc.Snapshot(), 1)
}

func TestAddItem_DistinctVariantsStaySeparate(t *testing.T) {
	svc := NewCartService(newTestLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, newAddInput("prod-1", "var-red", 1))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, newAddInput("prod-1", "var-blue", 1))
	require.NoError(t, err)

	assert.Len(t, svc.Snapshot(), 2)
	assert.Equal(t, 2, svc.TotalQuantity())
}

func TestAddItem_ClampsToCapacity(t *testing.T) {
	svc := NewCartService(newTestLogger())
	ctx := context.Background()

	// Fill the cart to 98 units across two rows.
	_, err := svc.AddItem(ctx, newAddInput("prod-1", "var-1", 50))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, newAddInput("prod-2", "var-1", 48))
	require.NoError(t, err)
	require.Equal(t, 98, svc.TotalQuantity())

	// Requesting 5 more only admits the 2 remaining units.
	result, err := svc.AddItem(ctx, newAddInput("prod-3", "var-1", 5))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, 5, result.Requested)
	assert.Equal(t, 2, result.Item.Quantity)
	assert.Equal(t, domain.MaxCartUnits, svc.TotalQuantity())
}

func TestAddItem_FullCartRejectsWithoutRow(t *testing.T) {
	svc := NewCartService(newTestLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, newAddInput("prod-1", "var-1", domain.MaxCartUnits))
	require.NoError(t, err)

	result, err := svc.AddItem(ctx, newAddInput("prod-2", "var-1", 1))

	require.NoError(t, err)
	assert.Equal(t, 0, result.Applied)
	assert.Equal(t, 1, result.Requested)
	assert.Empty(t, result.Item.ID)
	assert.Len(t, svc.Snapshot(), 1)
}

func TestAddItem_ValidatesInput(t *testing.T) {
	svc := NewCartService(newTestLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, newAddInput("", "var-1", 1))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.AddItem(ctx, newAddInput("prod-1", "var-1", 0))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSetQuantity_ClampsToAvailable(t *testing.T) {
	svc := NewCartService(newTestLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, newAddInput("prod-1", "var-1", 90))
	require.NoError(t, err)
	row, err := svc.AddItem(ctx, newAddInput("prod-2", "var-1", 5))
	require.NoError(t, err)

	// Only 10 units are free for this row once the other row holds 90.
	result, err := svc.SetQuantity(ctx, row.Item.ID, 50)

	require.NoError(t, err)
	assert.Equal(t, 10, result.Applied)
	assert.Equal(t, 50, result.Requested)
	assert.Equal(t, domain.MaxCartUnits, svc.TotalQuantity())
}

func TestSetQuantity_RejectsBelowOne(t *testing.T) {
	svc := NewCartService(newTestLogger())
	ctx := context.Background()

	row, err := svc.AddItem(ctx, newAddInput("prod-1", "var-1", 2))
	require.NoError(t, err)

	_, err = svc.SetQuantity(ctx, row.Item.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSetQuantity_UnknownRow(t *testing.T) {
	svc := NewCartService(newTestLogger())

	_, err := svc.SetQuantity(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRemoveItem_RoundTrip(t *testing.T) {
	svc := NewCartService(newTestLogger())
	ctx := context.Background()

	row, err := svc.AddItem(ctx, newAddInput("prod-1", "var-1", 4))
	require.NoError(t, err)
	require.Equal(t, 4, svc.TotalQuantity())

	require.NoError(t, svc.RemoveItem(ctx, row.Item.ID))

	assert.Empty(t, svc.Snapshot())
	assert.Equal(t, 0, svc.TotalQuantity())

	// Removed capacity is reusable immediately.
	result, err := svc.AddItem(ctx, newAddInput("prod-1", "var-1", domain.MaxCartUnits))
	require.NoError(t, err)
	assert.Equal(t, domain.MaxCartUnits, result.Applied)
}

func TestRemoveItem_Unknown(t *testing.T) {
	svc := NewCartService(newTestLogger())

	err := svc.RemoveItem(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClear_EmptiesCart(t *testing.T) {
	svc := NewCartService(newTestLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, newAddInput("prod-1", "var-1", 3))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, newAddInput("prod-2", "var-1", 7))
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))

	assert.Empty(t, svc.Snapshot())
	assert.Equal(t, 0, svc.TotalQuantity())
}

func TestTotalsByCurrency(t *testing.T) {
	svc := NewCartService(newTestLogger())
	ctx := context.Background()

	usd := newAddInput("prod-1", "var-1", 2)
	_, err := svc.AddItem(ctx, usd)
	require.NoError(t, err)

	eur := newAddInput("prod-2", "var-1", 1)
	eur.Currency = "EUR"
	eur.UnitPrice = 500
	_, err = svc.AddItem(ctx, eur)
	require.NoError(t, err)

	totals := svc.TotalsByCurrency()
	assert.Equal(t, int64(3998), totals["USD"])
	assert.Equal(t, int64(500), totals["EUR"])
}

func TestSnapshot_IsDetached(t *testing.T) {
	svc := NewCartService(newTestLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, newAddInput("prod-1", "var-1", 2))
	require.NoError(t, err)

	snapshot := svc.Snapshot()
	snapshot[0].Quantity = 99

	assert.Equal(t, 2, svc.TotalQuantity())
}
