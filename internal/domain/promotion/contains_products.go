package promotion

import (
	"context"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
)

// ContainsProductsCondition holds when the order contains at least
// `minimum` units across the watched product variants.
type ContainsProductsCondition struct {
	operation.BaseOperation
}

// NewContainsProductsCondition creates the contains-products condition.
func NewContainsProductsCondition() *ContainsProductsCondition {
	return &ContainsProductsCondition{
		BaseOperation: operation.NewBaseOperation(
			"contains-products",
			"Buy at least { minimum } of the specified products",
			0,
			operation.ArgSpec{
				"minimum":           {Type: operation.ArgTypeInt, Label: "Minimum quantity"},
				"productVariantIds": {Type: operation.ArgTypeID, List: true, Label: "Product variants"},
			},
		),
	}
}

func (c *ContainsProductsCondition) Check(ctx context.Context, order *model.Order, args *operation.ArgValues) (bool, error) {
	minimum, err := args.Int("minimum")
	if err != nil {
		return false, err
	}
	variantIDs, err := args.IDList("productVariantIds")
	if err != nil {
		return false, err
	}

	watched := make(map[string]struct{}, len(variantIDs))
	for _, id := range variantIDs {
		watched[id] = struct{}{}
	}

	matched := 0
	for _, line := range order.Lines {
		if _, ok := watched[line.ProductVariantID]; ok {
			matched += line.Quantity
		}
	}
	return matched >= minimum, nil
}
