// Package order implements the order lifecycle: the order state
// machine with its stock and payment pre-conditions, and the merger
// that reconciles guest and customer orders at login.
package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/commercekit/server/internal/fsm"
	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
	"github.com/commercekit/server/internal/shared/errors"
	"github.com/commercekit/server/internal/shared/metrics"
)

// transitions defines the order state transition table.
var transitions = fsm.Table[model.OrderState]{
	model.OrderStateAddingItems: {
		model.OrderStateArrangingPayment,
		model.OrderStateCancelled,
	},
	model.OrderStateArrangingPayment: {
		model.OrderStateAddingItems,
		model.OrderStatePaymentAuthorized,
		model.OrderStatePaymentSettled,
		model.OrderStateCancelled,
	},
	model.OrderStatePaymentAuthorized: {
		model.OrderStatePaymentSettled,
		model.OrderStateCancelled,
	},
	model.OrderStatePaymentSettled: {
		model.OrderStatePartiallyDelivered,
		model.OrderStateDelivered,
		model.OrderStateCancelled,
	},
	model.OrderStatePartiallyDelivered: {
		model.OrderStateDelivered,
		model.OrderStateCancelled,
	},
	model.OrderStateDelivered: {},
	model.OrderStateCancelled: {},
}

// TransitionData is the context bundle passed to order transition
// hooks.
type TransitionData struct {
	Ctx   context.Context
	Order *model.Order
}

// StateMachine drives order state transitions. The start hook
// validates stock and payment pre-conditions before permitting a
// transition; completed transitions are recorded on the order's
// history.
type StateMachine struct {
	history outbound.HistoryServicePort
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewStateMachine creates an order state machine.
func NewStateMachine(history outbound.HistoryServicePort, m *metrics.Metrics, logger *zap.Logger) *StateMachine {
	return &StateMachine{history: history, metrics: m, logger: logger}
}

// NextStates lists the valid next states for the order's current
// state.
func (sm *StateMachine) NextStates(o *model.Order) []model.OrderState {
	machine := fsm.New(fsm.Config[model.OrderState, *TransitionData]{Transitions: transitions}, o.State)
	return machine.NextStates()
}

// CanTransition reports whether the table permits moving the order to
// target.
func (sm *StateMachine) CanTransition(o *model.Order, target model.OrderState) bool {
	machine := fsm.New(fsm.Config[model.OrderState, *TransitionData]{Transitions: transitions}, o.State)
	return machine.CanTransitionTo(target)
}

// checkPreconditions validates the business rules guarding an order
// transition.
func checkPreconditions(from, to model.OrderState, o *model.Order) fsm.Outcome {
	if from == model.OrderStateAddingItems && to == model.OrderStateArrangingPayment {
		if o.IsEmpty() {
			return fsm.DenyWithReason("cannot transition an empty order to %s", to)
		}
		for _, line := range o.Lines {
			if line.Quantity <= 0 {
				return fsm.DenyWithReason("order line for variant %q has no quantity", line.ProductVariantID)
			}
		}
	}

	switch to {
	case model.OrderStatePaymentAuthorized:
		if o.CoveredPaymentTotal() < o.Total {
			return fsm.DenyWithReason("order payments do not cover the order total")
		}
	case model.OrderStatePaymentSettled:
		if o.SettledPaymentTotal() < o.Total {
			return fsm.DenyWithReason("order payments are not settled for the full order total")
		}
	}
	return fsm.Proceed()
}

// Transition runs the order state machine once against target and, on
// success, writes the resulting state back onto the order. Entering a
// payment state deactivates the order: it stops being the customer's
// active cart.
func (sm *StateMachine) Transition(ctx context.Context, o *model.Order, target model.OrderState) error {
	data := &TransitionData{Ctx: ctx, Order: o}
	from := o.State

	var trErr error
	machine := fsm.New(fsm.Config[model.OrderState, *TransitionData]{
		Transitions: transitions,
		OnTransitionStart: func(from, to model.OrderState, data *TransitionData) fsm.Outcome {
			return checkPreconditions(from, to, o)
		},
		OnTransitionEnd: func(from, to model.OrderState, data *TransitionData) {
			err := sm.history.CreateHistoryEntryForOrder(ctx, o.ID, model.HistoryOrderStateTransition, map[string]any{
				"from": from.String(),
				"to":   to.String(),
			})
			if err != nil {
				trErr = err
			}
		},
		OnError: func(from, to model.OrderState, reason string) {
			if reason == "" {
				trErr = errors.IllegalTransition("Order", from, to)
				return
			}
			trErr = errors.IllegalOperation(reason)
		},
	}, o.State)

	changed := machine.TransitionTo(target, data)
	sm.metrics.RecordTransition("order", from.String(), target.String(), changed)

	if trErr != nil {
		return trErr
	}
	if !changed {
		return nil
	}

	o.State = machine.State()
	if o.State == model.OrderStatePaymentAuthorized || o.State == model.OrderStatePaymentSettled {
		o.Active = false
	}
	return nil
}

// Jump sets the order state unconditionally, bypassing validation and
// history. For administrative correction only.
func (sm *StateMachine) Jump(o *model.Order, target model.OrderState) {
	machine := fsm.New(fsm.Config[model.OrderState, *TransitionData]{Transitions: transitions}, o.State)
	machine.JumpTo(target)
	o.State = machine.State()
}
