// Package promotion implements promotion evaluation: conditions that
// check an order against criteria and actions that compute its
// discount adjustments.
package promotion

import (
	"context"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
)

// Condition checks one criterion of a promotion against an order.
// Conditions are pure: evaluating one must not mutate the order.
type Condition interface {
	operation.Operation

	// Check reports whether the order satisfies the condition with the
	// given resolved arguments.
	Check(ctx context.Context, order *model.Order, args *operation.ArgValues) (bool, error)
}

// Action computes the discount adjustments of a promotion whose
// conditions all held.
type Action interface {
	operation.Operation

	// Apply returns the adjustments the action contributes. Discount
	// amounts are negative.
	Apply(ctx context.Context, order *model.Order, args *operation.ArgValues) ([]model.Adjustment, error)
}

// ConditionRegistry is the code-keyed registry of promotion conditions.
type ConditionRegistry = operation.Registry[Condition]

// ActionRegistry is the code-keyed registry of promotion actions.
type ActionRegistry = operation.Registry[Action]

// NewConditionRegistry builds the condition registry.
func NewConditionRegistry(conditions ...Condition) (*ConditionRegistry, error) {
	return operation.NewRegistry(conditions...)
}

// NewActionRegistry builds the action registry.
func NewActionRegistry(actions ...Action) (*ActionRegistry, error) {
	return operation.NewRegistry(actions...)
}
