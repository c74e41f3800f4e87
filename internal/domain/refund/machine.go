// Package refund implements the refund lifecycle. Refunds are created
// Pending by the payment domain and move to Settled or Failed once the
// gateway reports the outcome.
package refund

import (
	"context"

	"go.uber.org/zap"

	"github.com/commercekit/server/internal/fsm"
	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
	"github.com/commercekit/server/internal/shared/errors"
	"github.com/commercekit/server/internal/shared/metrics"
)

// transitions defines the refund state transition table.
var transitions = fsm.Table[model.RefundState]{
	model.RefundStatePending: {
		model.RefundStateSettled,
		model.RefundStateFailed,
	},
	model.RefundStateSettled: {},
	model.RefundStateFailed:  {},
}

// TransitionData is the context bundle passed to refund transition
// hooks.
type TransitionData struct {
	Ctx    context.Context
	Order  *model.Order
	Refund *model.Refund
}

// StateMachine drives refund state transitions. Refunds have no
// per-method veto hooks: the table alone decides, and every completed
// transition is recorded on the order's history.
type StateMachine struct {
	history outbound.HistoryServicePort
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewStateMachine creates a refund state machine.
func NewStateMachine(history outbound.HistoryServicePort, m *metrics.Metrics, logger *zap.Logger) *StateMachine {
	return &StateMachine{history: history, metrics: m, logger: logger}
}

// NextStates lists the valid next states for the refund's current
// state.
func (sm *StateMachine) NextStates(r *model.Refund) []model.RefundState {
	machine := fsm.New(fsm.Config[model.RefundState, *TransitionData]{Transitions: transitions}, r.State)
	return machine.NextStates()
}

// Transition runs the refund state machine once against target and, on
// success, writes the resulting state back onto the refund.
func (sm *StateMachine) Transition(ctx context.Context, order *model.Order, r *model.Refund, target model.RefundState) error {
	data := &TransitionData{Ctx: ctx, Order: order, Refund: r}
	from := r.State

	var trErr error
	machine := fsm.New(fsm.Config[model.RefundState, *TransitionData]{
		Transitions: transitions,
		OnTransitionEnd: func(from, to model.RefundState, data *TransitionData) {
			err := sm.history.CreateHistoryEntryForOrder(ctx, order.ID, model.HistoryRefundTransition, map[string]any{
				"refundId": r.ID.String(),
				"from":     from.String(),
				"to":       to.String(),
				"reason":   r.Reason,
			})
			if err != nil {
				trErr = err
			}
		},
		OnError: func(from, to model.RefundState, reason string) {
			trErr = errors.IllegalTransition("Refund", from, to)
		},
	}, r.State)

	changed := machine.TransitionTo(target, data)
	sm.metrics.RecordTransition("refund", from.String(), target.String(), changed)

	if trErr != nil {
		return trErr
	}
	if changed {
		r.State = machine.State()
	}
	return nil
}
