package domain

import "time"

// After-sale request types.
const (
	AfterSaleTypeRefund   = "refund"
	AfterSaleTypeExchange = "exchange"
	AfterSaleTypeSupport  = "support"
)

// After-sale request statuses.
const (
	AfterSaleStatusPending   = "pending"
	AfterSaleStatusInReview  = "in_review"
	AfterSaleStatusApproved  = "approved"
	AfterSaleStatusRejected  = "rejected"
	AfterSaleStatusCompleted = "completed"
)

// AfterSaleRequest represents a service request against a placed order.
type AfterSaleRequest struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	Type        string    `json:"type"`
	Reason      string    `json:"reason"`
	Description string    `json:"description,omitempty"`
	Contact     string    `json:"contact,omitempty"`
	Attachments []string  `json:"attachments,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsValidAfterSaleType checks if a request type string is valid.
func IsValidAfterSaleType(t string) bool {
	return t == AfterSaleTypeRefund || t == AfterSaleTypeExchange || t == AfterSaleTypeSupport
}

// IsValidAfterSaleStatus checks if a status string is valid.
func IsValidAfterSaleStatus(status string) bool {
	switch status {
	case AfterSaleStatusPending, AfterSaleStatusInReview, AfterSaleStatusApproved,
		AfterSaleStatusRejected, AfterSaleStatusCompleted:
		return true
	}
	return false
}

// AfterSaleTransitions defines which status transitions are valid. Review
// moves forward only; completion is reachable from any non-terminal state so
// an operator can close out a request at any stage.
func AfterSaleTransitions() map[string][]string {
	return map[string][]string{
		AfterSaleStatusPending:   {AfterSaleStatusInReview, AfterSaleStatusCompleted},
		AfterSaleStatusInReview:  {AfterSaleStatusApproved, AfterSaleStatusRejected, AfterSaleStatusCompleted},
		AfterSaleStatusApproved:  {AfterSaleStatusCompleted},
		AfterSaleStatusRejected:  {AfterSaleStatusCompleted},
		AfterSaleStatusCompleted: {},
	}
}

// CanTransitionTo checks if the request can transition to the target status.
func (r *AfterSaleRequest) CanTransitionTo(target string) bool {
	allowed, ok := AfterSaleTransitions()[r.Status]
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
