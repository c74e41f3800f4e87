package promotion

import (
	"context"
	"fmt"
	"math"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
)

// OrderPercentageDiscountAction discounts the order subtotal by a
// percentage.
type OrderPercentageDiscountAction struct {
	operation.BaseOperation
}

// NewOrderPercentageDiscountAction creates the order-level percentage
// discount action.
func NewOrderPercentageDiscountAction() *OrderPercentageDiscountAction {
	return &OrderPercentageDiscountAction{
		BaseOperation: operation.NewBaseOperation(
			"order-percentage-discount",
			"Discount order by { discount }%",
			0,
			operation.ArgSpec{
				"discount": {Type: operation.ArgTypeFloat, Label: "Percentage"},
			},
		),
	}
}

func (a *OrderPercentageDiscountAction) Apply(ctx context.Context, order *model.Order, args *operation.ArgValues) ([]model.Adjustment, error) {
	discount, err := args.Float("discount")
	if err != nil {
		return nil, err
	}

	amount := int64(math.Round(float64(order.SubTotal) * discount / 100))
	if amount == 0 {
		return nil, nil
	}
	return []model.Adjustment{{
		Type:        model.AdjustmentTypePromotion,
		Code:        a.Code(),
		Description: fmt.Sprintf("%.0f%% off order", discount),
		Amount:      -amount,
	}}, nil
}

// ProductPercentageDiscountAction discounts the lines of specific
// product variants by a percentage.
type ProductPercentageDiscountAction struct {
	operation.BaseOperation
}

// NewProductPercentageDiscountAction creates the line-level percentage
// discount action.
func NewProductPercentageDiscountAction() *ProductPercentageDiscountAction {
	return &ProductPercentageDiscountAction{
		BaseOperation: operation.NewBaseOperation(
			"product-percentage-discount",
			"Discount specified products by { discount }%",
			0,
			operation.ArgSpec{
				"discount":          {Type: operation.ArgTypeFloat, Label: "Percentage"},
				"productVariantIds": {Type: operation.ArgTypeID, List: true, Label: "Product variants"},
			},
		),
	}
}

func (a *ProductPercentageDiscountAction) Apply(ctx context.Context, order *model.Order, args *operation.ArgValues) ([]model.Adjustment, error) {
	discount, err := args.Float("discount")
	if err != nil {
		return nil, err
	}
	variantIDs, err := args.IDList("productVariantIds")
	if err != nil {
		return nil, err
	}

	watched := make(map[string]struct{}, len(variantIDs))
	for _, id := range variantIDs {
		watched[id] = struct{}{}
	}

	var adjustments []model.Adjustment
	for _, line := range order.Lines {
		if _, ok := watched[line.ProductVariantID]; !ok {
			continue
		}
		amount := int64(math.Round(float64(line.LineTotal()) * discount / 100))
		if amount == 0 {
			continue
		}
		adjustments = append(adjustments, model.Adjustment{
			Type:        model.AdjustmentTypePromotion,
			Code:        a.Code(),
			Description: fmt.Sprintf("%.0f%% off %s", discount, line.ProductVariantID),
			Amount:      -amount,
		})
	}
	return adjustments, nil
}
