package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"

	"github.com/eleven-jw/ecom-lab/internal/domain"
	"github.com/eleven-jw/ecom-lab/internal/event"
)

// SubmitAfterSaleInput holds the parameters for opening a service request.
type SubmitAfterSaleInput struct {
	OrderID     string   `json:"orderId" validate:"required"`
	Type        string   `json:"type" validate:"required,oneof=refund exchange support"`
	Reason      string   `json:"reason" validate:"required"`
	Description string   `json:"description"`
	Contact     string   `json:"contact"`
	Attachments []string `json:"attachments"`
}

// AfterSaleService is the service-request ledger. Requests are created once
// and advance through a fixed lattice; review moves forward only and
// completion closes a request from any non-terminal state. Order ownership is
// verified at the boundary before Submit is called, not here.
type AfterSaleService struct {
	producer *event.Producer
	logger   *slog.Logger

	mu       sync.Mutex
	requests []*domain.AfterSaleRequest
}

// NewAfterSaleService creates an empty after-sale ledger.
func NewAfterSaleService(producer *event.Producer, logger *slog.Logger) *AfterSaleService {
	return &AfterSaleService{
		producer: producer,
		logger:   logger,
		requests: []*domain.AfterSaleRequest{},
	}
}

// Submit opens a request against an order in pending status.
func (s *AfterSaleService) Submit(ctx context.Context, input SubmitAfterSaleInput) (*domain.AfterSaleRequest, error) {
	if input.OrderID == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}
	if !domain.IsValidAfterSaleType(input.Type) {
		return nil, apperrors.InvalidInput("unknown after-sale type: " + input.Type)
	}
	if input.Reason == "" {
		return nil, apperrors.InvalidInput("reason is required")
	}

	now := time.Now().UTC()
	req := &domain.AfterSaleRequest{
		ID:          uuid.New().String(),
		OrderID:     input.OrderID,
		Type:        input.Type,
		Reason:      input.Reason,
		Description: input.Description,
		Contact:     input.Contact,
		Attachments: append([]string(nil), input.Attachments...),
		Status:      domain.AfterSaleStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if err := s.producer.PublishAfterSaleOpened(ctx, req); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish aftersale.opened event",
			slog.String("request_id", req.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "after-sale request submitted",
		slog.String("request_id", req.ID),
		slog.String("order_id", input.OrderID),
		slog.String("type", input.Type),
	)

	return cloneRequest(req), nil
}

// Advance moves a request to the next status per the lattice.
func (s *AfterSaleService) Advance(ctx context.Context, requestID, nextStatus string) (*domain.AfterSaleRequest, error) {
	if !domain.IsValidAfterSaleStatus(nextStatus) {
		return nil, apperrors.InvalidInput("unknown after-sale status: " + nextStatus)
	}

	s.mu.Lock()
	req := s.findLocked(requestID)
	if req == nil {
		s.mu.Unlock()
		return nil, apperrors.NotFound("after-sale request", requestID)
	}

	from := req.Status
	if !req.CanTransitionTo(nextStatus) {
		s.mu.Unlock()
		return nil, apperrors.IllegalTransition("after-sale request", from, nextStatus)
	}

	req.Status = nextStatus
	req.UpdatedAt = time.Now().UTC()
	clone := cloneRequest(req)
	s.mu.Unlock()

	if err := s.producer.PublishAfterSaleStatusChanged(ctx, requestID, from, nextStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish aftersale.status_changed event",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "after-sale status advanced",
		slog.String("request_id", requestID),
		slog.String("from", from),
		slog.String("to", nextStatus),
	)

	return clone, nil
}

// Get returns a copy of a request.
func (s *AfterSaleService) Get(requestID string) (*domain.AfterSaleRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := s.findLocked(requestID)
	if req == nil {
		return nil, apperrors.NotFound("after-sale request", requestID)
	}
	return cloneRequest(req), nil
}

// List returns all requests, newest-first.
func (s *AfterSaleService) List() []*domain.AfterSaleRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.AfterSaleRequest, 0, len(s.requests))
	for i := len(s.requests) - 1; i >= 0; i-- {
		result = append(result, cloneRequest(s.requests[i]))
	}
	return result
}

func (s *AfterSaleService) findLocked(requestID string) *domain.AfterSaleRequest {
	for i := range s.requests {
		if s.requests[i].ID == requestID {
			return s.requests[i]
		}
	}
	return nil
}

func cloneRequest(req *domain.AfterSaleRequest) *domain.AfterSaleRequest {
	clone := *req
	clone.Attachments = append([]string(nil), req.Attachments...)
	return &clone
}
