// Package payment implements the payment lifecycle: the payment state
// machine and the pluggable payment method handlers that connect
// transitions to external gateways.
package payment

import (
	"context"

	"github.com/commercekit/server/internal/fsm"
	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
)

// TransitionData is the context bundle passed to payment transition
// hooks. It is created fresh per transition call and discarded after.
type TransitionData struct {
	Ctx     context.Context
	Order   *model.Order
	Payment *model.Payment
}

// CreatePaymentResult is what a handler returns when creating a
// payment against its gateway.
type CreatePaymentResult struct {
	Amount        int64
	State         model.PaymentState
	TransactionID string
	ErrorMessage  string
}

// SettlePaymentResult is what a handler returns when settling a
// payment.
type SettlePaymentResult struct {
	Success       bool
	TransactionID string
	ErrorMessage  string
}

// CreateRefundResult is what a handler returns when creating a refund.
type CreateRefundResult struct {
	State         model.RefundState
	TransactionID string
}

// MethodHandler owns the gateway interaction for one payment method
// code. The payment state machine dispatches to the handler matching
// the payment's method before every transition.
type MethodHandler interface {
	operation.Operation

	// OnStateTransitionStart may veto a payment transition.
	OnStateTransitionStart(from, to model.PaymentState, data *TransitionData) fsm.Outcome

	// CreatePayment creates a payment for the order at the gateway.
	CreatePayment(ctx context.Context, order *model.Order, amount int64, metadata map[string]string) (*CreatePaymentResult, error)

	// SettlePayment captures a previously authorized payment.
	SettlePayment(ctx context.Context, order *model.Order, payment *model.Payment) (*SettlePaymentResult, error)
}

// RefundingHandler is implemented by handlers whose gateway supports
// refunds.
type RefundingHandler interface {
	MethodHandler

	// CreateRefund refunds (part of) a settled payment.
	CreateRefund(ctx context.Context, payment *model.Payment, amount int64, reason string) (*CreateRefundResult, error)
}

// HandlerRegistry is the immutable code-keyed registry of payment
// method handlers, resolved once at startup.
type HandlerRegistry = operation.Registry[MethodHandler]

// NewHandlerRegistry builds the handler registry, rejecting duplicate
// method codes.
func NewHandlerRegistry(handlers ...MethodHandler) (*HandlerRegistry, error) {
	return operation.NewRegistry(handlers...)
}
