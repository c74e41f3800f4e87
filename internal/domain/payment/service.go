package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// Service defines the payment domain operations invoked by the API
// layer.
type Service interface {
	// AddPaymentToOrder creates a payment for the order through the
	// handler registered for method and persists it.
	AddPaymentToOrder(ctx context.Context, order *model.Order, method string, metadata map[string]string) (*model.Payment, error)

	// SettlePayment captures the payment at its gateway and transitions
	// it to Settled.
	SettlePayment(ctx context.Context, order *model.Order, paymentID uuid.UUID) (*model.Payment, error)

	// CreateRefund creates a Pending refund for a settled payment
	// through its handler.
	CreateRefund(ctx context.Context, order *model.Order, paymentID uuid.UUID, amount int64, reason string) (*model.Refund, error)

	// TransitionToState runs the payment state machine toward target
	// and persists the result.
	TransitionToState(ctx context.Context, order *model.Order, paymentID uuid.UUID, target model.PaymentState) (*model.Payment, error)

	// NextStates lists the valid next states for a payment.
	NextStates(ctx context.Context, paymentID uuid.UUID) ([]model.PaymentState, error)
}

// service implements Service.
type service struct {
	machine   *StateMachine
	handlers  *HandlerRegistry
	paymentDB outbound.PaymentDatabasePort
	refundDB  outbound.RefundDatabasePort
	logger    *zap.Logger
}

// NewService creates a payment domain service.
func NewService(
	machine *StateMachine,
	handlers *HandlerRegistry,
	paymentDB outbound.PaymentDatabasePort,
	refundDB outbound.RefundDatabasePort,
	logger *zap.Logger,
) Service {
	return &service{
		machine:   machine,
		handlers:  handlers,
		paymentDB: paymentDB,
		refundDB:  refundDB,
		logger:    logger,
	}
}

func (s *service) AddPaymentToOrder(ctx context.Context, order *model.Order, method string, metadata map[string]string) (*model.Payment, error) {
	if order.State != model.OrderStateArrangingPayment {
		return nil, fmt.Errorf("%w: order %s is in state %s", ErrOrderNotPayable, order.Code, order.State)
	}

	handler, err := s.handlers.Get(method)
	if err != nil {
		return nil, err
	}

	outstanding := order.Total - order.CoveredPaymentTotal()
	result, err := handler.CreatePayment(ctx, order, outstanding, metadata)
	if err != nil {
		return nil, fmt.Errorf("create payment with %q: %w", method, err)
	}

	now := time.Now()
	p := &model.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		Method:        method,
		State:         model.PaymentStateCreated,
		Amount:        result.Amount,
		TransactionID: result.TransactionID,
		ErrorMessage:  result.ErrorMessage,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.paymentDB.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("persist payment: %w", err)
	}
	order.Payments = append(order.Payments, p)

	// Advance the payment to the state the gateway reported.
	if result.State != model.PaymentStateCreated {
		if err := s.machine.Transition(ctx, order, p, result.State); err != nil {
			return nil, err
		}
		if err := s.paymentDB.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("persist payment: %w", err)
		}
	}

	s.logger.Info("payment added to order",
		zap.String("order_code", order.Code),
		zap.String("payment_id", p.ID.String()),
		zap.String("method", method),
		zap.String("state", p.State.String()),
	)
	return p, nil
}

func (s *service) SettlePayment(ctx context.Context, order *model.Order, paymentID uuid.UUID) (*model.Payment, error) {
	p, err := s.paymentDB.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}

	handler, err := s.handlers.Get(p.Method)
	if err != nil {
		return nil, err
	}

	result, err := handler.SettlePayment(ctx, order, p)
	if err != nil {
		return nil, fmt.Errorf("settle payment with %q: %w", p.Method, err)
	}

	target := model.PaymentStateSettled
	if !result.Success {
		target = model.PaymentStateError
		p.ErrorMessage = result.ErrorMessage
	}
	if result.TransactionID != "" {
		p.TransactionID = result.TransactionID
	}

	if err := s.machine.Transition(ctx, order, p, target); err != nil {
		return nil, err
	}
	if err := s.paymentDB.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("persist payment: %w", err)
	}
	return p, nil
}

func (s *service) CreateRefund(ctx context.Context, order *model.Order, paymentID uuid.UUID, amount int64, reason string) (*model.Refund, error) {
	p, err := s.paymentDB.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	if p.State != model.PaymentStateSettled {
		return nil, ErrPaymentNotRefundable
	}
	if amount > p.Amount {
		return nil, ErrRefundExceedsSettled
	}

	handler, err := s.handlers.Get(p.Method)
	if err != nil {
		return nil, err
	}
	refunding, ok := handler.(RefundingHandler)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRefundNotSupported, p.Method)
	}

	result, err := refunding.CreateRefund(ctx, p, amount, reason)
	if err != nil {
		return nil, fmt.Errorf("create refund with %q: %w", p.Method, err)
	}

	now := time.Now()
	refund := &model.Refund{
		ID:            uuid.New(),
		PaymentID:     p.ID,
		OrderID:       order.ID,
		State:         model.RefundStatePending,
		Reason:        reason,
		Amount:        amount,
		Method:        p.Method,
		TransactionID: result.TransactionID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.refundDB.Create(ctx, refund); err != nil {
		return nil, fmt.Errorf("persist refund: %w", err)
	}
	return refund, nil
}

func (s *service) TransitionToState(ctx context.Context, order *model.Order, paymentID uuid.UUID, target model.PaymentState) (*model.Payment, error) {
	p, err := s.paymentDB.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}

	if err := s.machine.Transition(ctx, order, p, target); err != nil {
		return nil, err
	}
	if err := s.paymentDB.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("persist payment: %w", err)
	}
	return p, nil
}

func (s *service) NextStates(ctx context.Context, paymentID uuid.UUID) ([]model.PaymentState, error) {
	p, err := s.paymentDB.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return s.machine.NextStates(p), nil
}
