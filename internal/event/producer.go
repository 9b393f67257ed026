package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/eleven-jw/ecom-lab/pkg/kafka"
	"github.com/eleven-jw/ecom-lab/pkg/logger"
	"github.com/eleven-jw/ecom-lab/pkg/middleware"

	"github.com/eleven-jw/ecom-lab/internal/domain"
)

// Kafka topic constants for storefront domain events.
const (
	TopicSessionStarted    = "storefront.session.started"
	TopicSessionEnded      = "storefront.session.ended"
	TopicOrderPlaced       = "storefront.order.placed"
	TopicOrderStatusMoved  = "storefront.order.status_changed"
	TopicAfterSaleOpened   = "storefront.aftersale.opened"
	TopicAfterSaleAdvanced = "storefront.aftersale.status_changed"
)

// Aggregate type constants.
const (
	AggregateTypeSession   = "session"
	AggregateTypeOrder     = "order"
	AggregateTypeAfterSale = "aftersale"
)

// Source identifier for events originating from this service.
const SourceStorefrontCore = "storefront-core"

// SessionStartedData is the payload for a session.started event.
type SessionStartedData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Tier   string `json:"tier"`
}

// SessionEndedData is the payload for a session.ended event.
type SessionEndedData struct {
	UserID string `json:"user_id"`
	Forced bool   `json:"forced"`
}

// OrderPlacedData is the payload for an order.placed event. MemberTier and
// VIP are filled from the authenticated request context when present, for
// downstream analytics.
type OrderPlacedData struct {
	OrderID     string `json:"order_id"`
	UserID      string `json:"user_id"`
	ItemCount   int    `json:"item_count"`
	TotalAmount int64  `json:"total_amount"`
	Currency    string `json:"currency"`
	MemberTier  string `json:"member_tier,omitempty"`
	VIP         bool   `json:"vip"`
}

// OrderStatusData is the payload for an order.status_changed event.
type OrderStatusData struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// AfterSaleOpenedData is the payload for an aftersale.opened event.
type AfterSaleOpenedData struct {
	RequestID string `json:"request_id"`
	OrderID   string `json:"order_id"`
	Type      string `json:"type"`
}

// AfterSaleStatusData is the payload for an aftersale.status_changed event.
type AfterSaleStatusData struct {
	RequestID string `json:"request_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishSessionStarted publishes a session.started event after login or register.
func (p *Producer) PublishSessionStarted(ctx context.Context, user *domain.UserProfile) error {
	data := SessionStartedData{
		UserID: user.ID,
		Email:  user.Email,
		Tier:   user.Tier,
	}
	return p.publish(ctx, TopicSessionStarted, user.ID, AggregateTypeSession, data)
}

// PublishSessionEnded publishes a session.ended event. Forced marks a logout
// triggered by a failed refresh rather than an explicit user action.
func (p *Producer) PublishSessionEnded(ctx context.Context, userID string, forced bool) error {
	data := SessionEndedData{UserID: userID, Forced: forced}
	return p.publish(ctx, TopicSessionEnded, userID, AggregateTypeSession, data)
}

// PublishOrderPlaced publishes an order.placed event after checkout.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	data := orderPlacedData(ctx, order)
	return p.publish(ctx, TopicOrderPlaced, order.ID, AggregateTypeOrder, data)
}

func orderPlacedData(ctx context.Context, order *domain.Order) OrderPlacedData {
	data := OrderPlacedData{
		OrderID:     order.ID,
		UserID:      order.UserID,
		ItemCount:   len(order.Items),
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
	}
	if tier := middleware.TierFromContext(ctx); tier != "" {
		data.MemberTier = tier
		data.VIP = domain.TierAtLeast(tier, domain.TierVIP)
	}
	return data
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, orderID, from, to string) error {
	data := OrderStatusData{OrderID: orderID, From: from, To: to}
	return p.publish(ctx, TopicOrderStatusMoved, orderID, AggregateTypeOrder, data)
}

// PublishAfterSaleOpened publishes an aftersale.opened event.
func (p *Producer) PublishAfterSaleOpened(ctx context.Context, req *domain.AfterSaleRequest) error {
	data := AfterSaleOpenedData{
		RequestID: req.ID,
		OrderID:   req.OrderID,
		Type:      req.Type,
	}
	return p.publish(ctx, TopicAfterSaleOpened, req.ID, AggregateTypeAfterSale, data)
}

// PublishAfterSaleStatusChanged publishes an aftersale.status_changed event.
func (p *Producer) PublishAfterSaleStatusChanged(ctx context.Context, requestID, from, to string) error {
	data := AfterSaleStatusData{RequestID: requestID, From: from, To: to}
	return p.publish(ctx, TopicAfterSaleAdvanced, requestID, AggregateTypeAfterSale, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStorefrontCore, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published domain event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
