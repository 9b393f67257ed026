package domain

import "time"

// Order status constants.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusFulfilled  = "fulfilled"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment method constants.
const (
	PaymentMethodWechat = "wechat"
	PaymentMethodAlipay = "alipay"
	PaymentMethodCard   = "card"
)

// OrderItem is a purchased line item, snapshotted from the cart at checkout.
type OrderItem struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	ImageURL     string `json:"imageUrl"`
	VariantLabel string `json:"variantLabel"`
	Quantity     int    `json:"quantity"`
	Price        int64  `json:"price"`
	Currency     string `json:"currency"`
}

// Order represents a placed order. The address and items are copies taken at
// creation time; later cart or address edits never reach past orders.
// Orders are immutable except for Status.
type Order struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	Status        string      `json:"status"`
	TotalAmount   int64       `json:"totalAmount"`
	Currency      string      `json:"currency"`
	PaymentMethod string      `json:"paymentMethod"`
	Address       Address     `json:"address"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// ValidOrderStatuses returns all valid order statuses.
func ValidOrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusFulfilled,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// IsValidOrderStatus checks if a status string is valid.
func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// OrderTransitions defines which status transitions are valid. The chain is
// forward-only; cancelled is reachable from any non-terminal state, never
// from delivered. Delivered and cancelled are terminal.
func OrderTransitions() map[string][]string {
	return map[string][]string{
		OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
		OrderStatusProcessing: {OrderStatusFulfilled, OrderStatusCancelled},
		OrderStatusFulfilled:  {OrderStatusDelivered, OrderStatusCancelled},
		OrderStatusDelivered:  {},
		OrderStatusCancelled:  {},
	}
}

// CanTransitionTo checks if the order can transition to the target status.
func (o *Order) CanTransitionTo(target string) bool {
	allowed, ok := OrderTransitions()[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order has reached a terminal status.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	clone := *o
	clone.Items = make([]OrderItem, len(o.Items))
	copy(clone.Items, o.Items)
	return &clone
}
