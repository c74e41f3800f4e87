package refund

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// ErrRefundNotFound is returned when the refund does not exist.
var ErrRefundNotFound = errors.New("refund not found")

// Service defines the refund domain operations invoked by the API
// layer.
type Service interface {
	// SettleRefund marks a pending refund as settled, optionally
	// recording the gateway transaction that completed it.
	SettleRefund(ctx context.Context, order *model.Order, refundID uuid.UUID, transactionID string) (*model.Refund, error)

	// FailRefund marks a pending refund as failed.
	FailRefund(ctx context.Context, order *model.Order, refundID uuid.UUID) (*model.Refund, error)

	// TransitionToState runs the refund state machine toward target and
	// persists the result.
	TransitionToState(ctx context.Context, order *model.Order, refundID uuid.UUID, target model.RefundState) (*model.Refund, error)

	// NextStates lists the valid next states for a refund.
	NextStates(ctx context.Context, refundID uuid.UUID) ([]model.RefundState, error)
}

type service struct {
	machine  *StateMachine
	refundDB outbound.RefundDatabasePort
	logger   *zap.Logger
}

// NewService creates a refund domain service.
func NewService(machine *StateMachine, refundDB outbound.RefundDatabasePort, logger *zap.Logger) Service {
	return &service{machine: machine, refundDB: refundDB, logger: logger}
}

func (s *service) SettleRefund(ctx context.Context, order *model.Order, refundID uuid.UUID, transactionID string) (*model.Refund, error) {
	r, err := s.get(ctx, refundID)
	if err != nil {
		return nil, err
	}
	if transactionID != "" {
		r.TransactionID = transactionID
	}
	return s.transition(ctx, order, r, model.RefundStateSettled)
}

func (s *service) FailRefund(ctx context.Context, order *model.Order, refundID uuid.UUID) (*model.Refund, error) {
	r, err := s.get(ctx, refundID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, order, r, model.RefundStateFailed)
}

func (s *service) TransitionToState(ctx context.Context, order *model.Order, refundID uuid.UUID, target model.RefundState) (*model.Refund, error) {
	r, err := s.get(ctx, refundID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, order, r, target)
}

func (s *service) NextStates(ctx context.Context, refundID uuid.UUID) ([]model.RefundState, error) {
	r, err := s.get(ctx, refundID)
	if err != nil {
		return nil, err
	}
	return s.machine.NextStates(r), nil
}

func (s *service) get(ctx context.Context, refundID uuid.UUID) (*model.Refund, error) {
	r, err := s.refundDB.GetByID(ctx, refundID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrRefundNotFound
	}
	return r, nil
}

func (s *service) transition(ctx context.Context, order *model.Order, r *model.Refund, target model.RefundState) (*model.Refund, error) {
	if err := s.machine.Transition(ctx, order, r, target); err != nil {
		return nil, err
	}
	if err := s.refundDB.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("persist refund: %w", err)
	}
	s.logger.Info("refund transitioned",
		zap.String("refund_id", r.ID.String()),
		zap.String("state", r.State.String()),
	)
	return r, nil
}
