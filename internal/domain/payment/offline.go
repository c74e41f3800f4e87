package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/commercekit/server/internal/fsm"
	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
)

// OfflineHandler handles payments collected outside the system, such
// as bank transfer or cash on delivery. There is no gateway: payments
// are created as Authorized and settled by an operator once the money
// arrives.
type OfflineHandler struct {
	operation.BaseOperation
}

// NewOfflineHandler creates the offline payment method handler.
func NewOfflineHandler() *OfflineHandler {
	return &OfflineHandler{
		BaseOperation: operation.NewBaseOperation(
			"offline",
			"Manually settled offline payments",
			0,
			operation.ArgSpec{},
		),
	}
}

// OnStateTransitionStart permits every transition the table allows.
func (h *OfflineHandler) OnStateTransitionStart(from, to model.PaymentState, data *TransitionData) fsm.Outcome {
	return fsm.Proceed()
}

// CreatePayment records an authorized payment awaiting manual
// settlement.
func (h *OfflineHandler) CreatePayment(ctx context.Context, order *model.Order, amount int64, metadata map[string]string) (*CreatePaymentResult, error) {
	return &CreatePaymentResult{
		Amount:        amount,
		State:         model.PaymentStateAuthorized,
		TransactionID: fmt.Sprintf("offline-%s", uuid.New()),
	}, nil
}

// SettlePayment always succeeds; the operator settling the payment is
// the confirmation.
func (h *OfflineHandler) SettlePayment(ctx context.Context, order *model.Order, p *model.Payment) (*SettlePaymentResult, error) {
	return &SettlePaymentResult{Success: true, TransactionID: p.TransactionID}, nil
}
