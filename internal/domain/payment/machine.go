package payment

import (
	"context"

	"go.uber.org/zap"

	"github.com/commercekit/server/internal/fsm"
	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
	"github.com/commercekit/server/internal/shared/errors"
	"github.com/commercekit/server/internal/shared/metrics"
)

// transitions defines the payment state transition table.
var transitions = fsm.Table[model.PaymentState]{
	model.PaymentStateCreated: {
		model.PaymentStateAuthorized,
		model.PaymentStateSettled,
		model.PaymentStateDeclined,
		model.PaymentStateError,
	},
	model.PaymentStateAuthorized: {
		model.PaymentStateSettled,
		model.PaymentStateError,
	},
	model.PaymentStateSettled:  {},
	model.PaymentStateDeclined: {},
	model.PaymentStateError:    {},
}

// StateMachine drives payment state transitions. Before any transition
// it dispatches to the handler registered for the payment's method; an
// unregistered method code vetoes the transition with a descriptive
// reason. Successful transitions are recorded on the order's history.
type StateMachine struct {
	handlers *HandlerRegistry
	history  outbound.HistoryServicePort
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewStateMachine creates a payment state machine.
func NewStateMachine(
	handlers *HandlerRegistry,
	history outbound.HistoryServicePort,
	m *metrics.Metrics,
	logger *zap.Logger,
) *StateMachine {
	return &StateMachine{
		handlers: handlers,
		history:  history,
		metrics:  m,
		logger:   logger,
	}
}

// NextStates lists the valid next states for the payment's current
// persisted state.
func (sm *StateMachine) NextStates(p *model.Payment) []model.PaymentState {
	machine := fsm.New(fsm.Config[model.PaymentState, *TransitionData]{Transitions: transitions}, p.State)
	return machine.NextStates()
}

// CanTransition reports whether the table permits moving the payment
// to target.
func (sm *StateMachine) CanTransition(p *model.Payment, target model.PaymentState) bool {
	machine := fsm.New(fsm.Config[model.PaymentState, *TransitionData]{Transitions: transitions}, p.State)
	return machine.CanTransitionTo(target)
}

// Transition runs the payment state machine once against target and,
// on success, writes the resulting state back onto the payment. The
// caller persists the payment afterwards, inside the same transaction
// boundary as the history entry.
func (sm *StateMachine) Transition(ctx context.Context, order *model.Order, p *model.Payment, target model.PaymentState) error {
	data := &TransitionData{Ctx: ctx, Order: order, Payment: p}
	from := p.State

	var trErr error
	machine := fsm.New(fsm.Config[model.PaymentState, *TransitionData]{
		Transitions: transitions,
		OnTransitionStart: func(from, to model.PaymentState, data *TransitionData) fsm.Outcome {
			handler, err := sm.handlers.Get(p.Method)
			if err != nil {
				return fsm.DenyWithReason("no payment method handler found with code %q", p.Method)
			}
			return handler.OnStateTransitionStart(from, to, data)
		},
		OnTransitionEnd: func(from, to model.PaymentState, data *TransitionData) {
			err := sm.history.CreateHistoryEntryForOrder(ctx, order.ID, model.HistoryPaymentTransition, map[string]any{
				"paymentId": p.ID.String(),
				"from":      from.String(),
				"to":        to.String(),
			})
			if err != nil {
				trErr = err
			}
		},
		OnError: func(from, to model.PaymentState, reason string) {
			if reason == "" {
				trErr = errors.IllegalTransition("Payment", from, to)
				return
			}
			trErr = errors.IllegalOperation(reason)
		},
	}, p.State)

	changed := machine.TransitionTo(target, data)
	sm.metrics.RecordTransition("payment", from.String(), target.String(), changed)

	if trErr != nil {
		return trErr
	}
	if !changed {
		// Silent handler veto: state unchanged, no error. Callers check
		// the payment state after the call.
		sm.logger.Debug("payment transition vetoed",
			zap.String("payment_id", p.ID.String()),
			zap.String("from", from.String()),
			zap.String("to", target.String()),
		)
		return nil
	}

	p.State = machine.State()
	return nil
}

// Jump sets the payment state unconditionally, bypassing handlers,
// validation and history. For administrative correction only.
func (sm *StateMachine) Jump(p *model.Payment, target model.PaymentState) {
	machine := fsm.New(fsm.Config[model.PaymentState, *TransitionData]{Transitions: transitions}, p.State)
	machine.JumpTo(target)
	p.State = machine.State()
}
