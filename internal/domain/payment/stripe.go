package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"

	"github.com/commercekit/server/internal/fsm"
	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
)

// StripeConfig holds Stripe handler configuration.
type StripeConfig struct {
	APIKey           string
	FailureThreshold uint32
	BreakerTimeout   int // seconds; zero uses the gobreaker default
}

// StripeHandler is the payment method handler backed by Stripe
// PaymentIntents. Gateway calls run behind a circuit breaker so a
// degraded gateway fails fast instead of stalling checkout.
type StripeHandler struct {
	operation.BaseOperation

	breaker *gobreaker.CircuitBreaker[any]
}

// NewStripeHandler creates the Stripe payment method handler.
func NewStripeHandler(cfg *StripeConfig) *StripeHandler {
	stripe.Key = cfg.APIKey

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:        "stripe",
		MaxRequests: 1,
		Timeout:     time.Duration(cfg.BreakerTimeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	}

	return &StripeHandler{
		BaseOperation: operation.NewBaseOperation(
			"stripe",
			"Stripe payments via PaymentIntents",
			0,
			operation.ArgSpec{
				"automaticCapture": {Type: operation.ArgTypeBoolean, Label: "Capture automatically"},
			},
		),
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// OnStateTransitionStart vetoes settling a payment that has no gateway
// transaction to capture.
func (h *StripeHandler) OnStateTransitionStart(from, to model.PaymentState, data *TransitionData) fsm.Outcome {
	if to == model.PaymentStateSettled && data != nil && data.Payment.TransactionID == "" {
		return fsm.DenyWithReason("payment %s has no transaction to settle", data.Payment.ID)
	}
	return fsm.Proceed()
}

// CreatePayment creates a PaymentIntent for the outstanding amount.
func (h *StripeHandler) CreatePayment(ctx context.Context, order *model.Order, amount int64, metadata map[string]string) (*CreatePaymentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(order.Currency),
		CaptureMethod: stripe.String(
			string(stripe.PaymentIntentCaptureMethodManual),
		),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	params.AddMetadata("order_code", order.Code)

	res, err := h.breaker.Execute(func() (any, error) {
		return paymentintent.New(params)
	})
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}
	pi := res.(*stripe.PaymentIntent)

	return &CreatePaymentResult{
		Amount:        amount,
		State:         model.PaymentStateAuthorized,
		TransactionID: pi.ID,
	}, nil
}

// SettlePayment captures the PaymentIntent.
func (h *StripeHandler) SettlePayment(ctx context.Context, order *model.Order, p *model.Payment) (*SettlePaymentResult, error) {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx

	res, err := h.breaker.Execute(func() (any, error) {
		return paymentintent.Capture(p.TransactionID, params)
	})
	if err != nil {
		return &SettlePaymentResult{Success: false, ErrorMessage: err.Error()}, nil
	}
	pi := res.(*stripe.PaymentIntent)

	return &SettlePaymentResult{
		Success:       pi.Status == stripe.PaymentIntentStatusSucceeded,
		TransactionID: pi.ID,
	}, nil
}

// CreateRefund refunds part of the captured PaymentIntent.
func (h *StripeHandler) CreateRefund(ctx context.Context, p *model.Payment, amount int64, reason string) (*CreateRefundResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(p.TransactionID),
		Amount:        stripe.Int64(amount),
	}
	params.Context = ctx
	if reason != "" {
		params.AddMetadata("reason", reason)
	}

	res, err := h.breaker.Execute(func() (any, error) {
		return refund.New(params)
	})
	if err != nil {
		return nil, fmt.Errorf("stripe create refund: %w", err)
	}
	r := res.(*stripe.Refund)

	return &CreateRefundResult{
		State:         model.RefundStatePending,
		TransactionID: r.ID,
	}, nil
}
