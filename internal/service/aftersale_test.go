package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"

	"github.com/eleven-jw/ecom-lab/internal/domain"
)

func submitRequest(t *testing.T, svc *AfterSaleService) *domain.AfterSaleRequest {
	t.Helper()
	req, err := svc.Submit(context.Background(), SubmitAfterSaleInput{
		OrderID: "order-1",
		Type:    domain.AfterSaleTypeRefund,
		Reason:  "damaged on arrival",
	})
	require.NoError(t, err)
	return req
}

func TestSubmitAfterSale_StartsPending(t *testing.T) {
	svc := NewAfterSaleService(newTestProducer(), newTestLogger())

	req := submitRequest(t, svc)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, "order-1", req.OrderID)
	assert.Equal(t, domain.AfterSaleStatusPending, req.Status)
	assert.NotZero(t, req.CreatedAt)
}

func TestSubmitAfterSale_ValidatesInput(t *testing.T) {
	svc := NewAfterSaleService(newTestProducer(), newTestLogger())
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitAfterSaleInput{Type: domain.AfterSaleTypeRefund, Reason: "r"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Submit(ctx, SubmitAfterSaleInput{OrderID: "order-1", Type: "replacement", Reason: "r"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Submit(ctx, SubmitAfterSaleInput{OrderID: "order-1", Type: domain.AfterSaleTypeSupport})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAdvanceAfterSale_ReviewPath(t *testing.T) {
	svc := NewAfterSaleService(newTestProducer(), newTestLogger())
	ctx := context.Background()

	req := submitRequest(t, svc)

	inReview, err := svc.Advance(ctx, req.ID, domain.AfterSaleStatusInReview)
	require.NoError(t, err)
	assert.Equal(t, domain.AfterSaleStatusInReview, inReview.Status)

	approved, err := svc.Advance(ctx, req.ID, domain.AfterSaleStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.AfterSaleStatusApproved, approved.Status)

	completed, err := svc.Advance(ctx, req.ID, domain.AfterSaleStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.AfterSaleStatusCompleted, completed.Status)
}

func TestAdvanceAfterSale_CompleteFromPending(t *testing.T) {
	svc := NewAfterSaleService(newTestProducer(), newTestLogger())

	req := submitRequest(t, svc)

	completed, err := svc.Advance(context.Background(), req.ID, domain.AfterSaleStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.AfterSaleStatusCompleted, completed.Status)
}

func TestAdvanceAfterSale_RejectsBackwardMove(t *testing.T) {
	svc := NewAfterSaleService(newTestProducer(), newTestLogger())
	ctx := context.Background()

	req := submitRequest(t, svc)
	_, err := svc.Advance(ctx, req.ID, domain.AfterSaleStatusInReview)
	require.NoError(t, err)
	_, err = svc.Advance(ctx, req.ID, domain.AfterSaleStatusRejected)
	require.NoError(t, err)

	_, err = svc.Advance(ctx, req.ID, domain.AfterSaleStatusInReview)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAdvanceAfterSale_TerminalRejectsEverything(t *testing.T) {
	svc := NewAfterSaleService(newTestProducer(), newTestLogger())
	ctx := context.Background()

	req := submitRequest(t, svc)
	_, err := svc.Advance(ctx, req.ID, domain.AfterSaleStatusCompleted)
	require.NoError(t, err)

	for _, next := range []string{
		domain.AfterSaleStatusPending,
		domain.AfterSaleStatusInReview,
		domain.AfterSaleStatusApproved,
		domain.AfterSaleStatusRejected,
	} {
		_, err := svc.Advance(ctx, req.ID, next)
		assert.ErrorIs(t, err, apperrors.ErrConflict, "completed -> %s must be rejected", next)
	}
}

func TestAdvanceAfterSale_UnknownRequest(t *testing.T) {
	svc := NewAfterSaleService(newTestProducer(), newTestLogger())

	_, err := svc.Advance(context.Background(), "missing", domain.AfterSaleStatusInReview)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListAfterSale_NewestFirst(t *testing.T) {
	svc := NewAfterSaleService(newTestProducer(), newTestLogger())

	first := submitRequest(t, svc)
	second := submitRequest(t, svc)

	requests := svc.List()

	require.Len(t, requests, 2)
	assert.Equal(t, second.ID, requests[0].ID)
	assert.Equal(t, first.ID, requests[1].ID)
}
