package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending to processing", OrderStatusPending, OrderStatusProcessing, true},
		{"processing to fulfilled", OrderStatusProcessing, OrderStatusFulfilled, true},
		{"fulfilled to delivered", OrderStatusFulfilled, OrderStatusDelivered, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"processing to cancelled", OrderStatusProcessing, OrderStatusCancelled, true},
		{"fulfilled to cancelled", OrderStatusFulfilled, OrderStatusCancelled, true},
		{"pending to fulfilled skips a step", OrderStatusPending, OrderStatusFulfilled, false},
		{"fulfilled to pending moves backward", OrderStatusFulfilled, OrderStatusPending, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusCancelled, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusPending, false},
		{"same status is not a move", OrderStatusProcessing, OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{Status: tt.from}
			assert.Equal(t, tt.allowed, order.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderIsTerminal(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusDelivered}).IsTerminal())
	assert.True(t, (&Order{Status: OrderStatusCancelled}).IsTerminal())
	assert.False(t, (&Order{Status: OrderStatusPending}).IsTerminal())
	assert.False(t, (&Order{Status: OrderStatusFulfilled}).IsTerminal())
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range ValidOrderStatuses() {
		assert.True(t, IsValidOrderStatus(status), status)
	}
	assert.False(t, IsValidOrderStatus("shipped"))
	assert.False(t, IsValidOrderStatus(""))
}

func TestOrderClone_DeepCopiesItems(t *testing.T) {
	order := &Order{
		ID:     "order-1",
		Status: OrderStatusProcessing,
		Items:  []OrderItem{{ProductID: "prod-1", Quantity: 2}},
	}

	clone := order.Clone()
	clone.Items[0].Quantity = 99
	clone.Status = OrderStatusCancelled

	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, OrderStatusProcessing, order.Status)
}
