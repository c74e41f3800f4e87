package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// Service defines the order domain operations invoked by the API
// layer.
type Service interface {
	// GetOrder loads an order with its lines and payments.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	// TransitionToState runs the order state machine toward target and
	// persists the result.
	TransitionToState(ctx context.Context, orderID uuid.UUID, target model.OrderState) (*model.Order, error)

	// NextStates lists the valid next states for an order.
	NextStates(ctx context.Context, orderID uuid.UUID) ([]model.OrderState, error)

	// MergeWithExisting reconciles a guest order with the customer's
	// active order, persisting inserted lines and deleting the redundant
	// order.
	MergeWithExisting(ctx context.Context, guestOrderID, customerID uuid.UUID) (*model.Order, error)
}

type service struct {
	machine *StateMachine
	merger  *Merger
	orderDB outbound.OrderDatabasePort
	history outbound.HistoryServicePort
	logger  *zap.Logger
}

// NewService creates an order domain service.
func NewService(
	machine *StateMachine,
	merger *Merger,
	orderDB outbound.OrderDatabasePort,
	history outbound.HistoryServicePort,
	logger *zap.Logger,
) Service {
	return &service{
		machine: machine,
		merger:  merger,
		orderDB: orderDB,
		history: history,
		logger:  logger,
	}
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	o, err := s.orderDB.GetByIDFull(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) TransitionToState(ctx context.Context, orderID uuid.UUID, target model.OrderState) (*model.Order, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.machine.Transition(ctx, o, target); err != nil {
		return nil, err
	}
	if err := s.orderDB.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	return o, nil
}

func (s *service) NextStates(ctx context.Context, orderID uuid.UUID) ([]model.OrderState, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.machine.NextStates(o), nil
}

func (s *service) MergeWithExisting(ctx context.Context, guestOrderID, customerID uuid.UUID) (*model.Order, error) {
	guest, err := s.GetOrder(ctx, guestOrderID)
	if err != nil {
		return nil, err
	}
	existing, err := s.orderDB.GetActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	result := s.merger.Merge(ctx, guest, existing)
	if result.Order == nil {
		// Both orders empty. Keep the guest order as the customer's cart
		// so login never leaves them without one.
		result.Order = guest
		result.OrderToDelete = existing
	}

	result.Order.CustomerID = &customerID
	if len(result.LinesToInsert) > 0 {
		if err := s.orderDB.InsertLines(ctx, result.Order.ID, result.LinesToInsert); err != nil {
			return nil, fmt.Errorf("insert merged lines: %w", err)
		}
	}
	if err := s.orderDB.Update(ctx, result.Order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	if result.OrderToDelete != nil {
		if err := s.orderDB.Delete(ctx, result.OrderToDelete.ID); err != nil {
			return nil, fmt.Errorf("delete merged-away order: %w", err)
		}
	}

	if err := s.history.CreateHistoryEntryForOrder(ctx, result.Order.ID, model.HistoryOrderMerged, map[string]any{
		"guestOrderId":  guestOrderID.String(),
		"linesInserted": len(result.LinesToInsert),
	}); err != nil {
		return nil, err
	}

	s.logger.Info("guest order merged",
		zap.String("guest_order_id", guestOrderID.String()),
		zap.String("kept_order_id", result.Order.ID.String()),
		zap.String("customer_id", customerID.String()),
	)
	return s.GetOrder(ctx, result.Order.ID)
}
