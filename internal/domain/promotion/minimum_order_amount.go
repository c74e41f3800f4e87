package promotion

import (
	"context"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
)

// MinimumOrderAmountCondition holds when the order subtotal reaches
// the configured amount. It carries priority 10 so that cheaper
// conditions run first and can short-circuit the evaluation.
type MinimumOrderAmountCondition struct {
	operation.BaseOperation
}

// NewMinimumOrderAmountCondition creates the minimum-order-amount
// condition.
func NewMinimumOrderAmountCondition() *MinimumOrderAmountCondition {
	return &MinimumOrderAmountCondition{
		BaseOperation: operation.NewBaseOperation(
			"minimum-order-amount",
			"Order subtotal is at least { amount }",
			10,
			operation.ArgSpec{
				"amount": {Type: operation.ArgTypeInt, Label: "Minimum amount"},
			},
		),
	}
}

func (c *MinimumOrderAmountCondition) Check(ctx context.Context, order *model.Order, args *operation.ArgValues) (bool, error) {
	amount, err := args.Int("amount")
	if err != nil {
		return false, err
	}
	return order.SubTotal >= int64(amount), nil
}
