// Package shipping implements shipping method eligibility and price
// calculation against an order.
package shipping

import (
	"context"
	"errors"
	"math"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
)

// EligibilityChecker decides whether a shipping method can serve an
// order.
type EligibilityChecker interface {
	operation.Operation

	// Check reports whether the order is eligible for the method.
	Check(ctx context.Context, order *model.Order, args *operation.ArgValues) (bool, error)
}

// Calculator produces the shipping price for an order. A nil result
// means the method cannot price this order and is skipped.
type Calculator interface {
	operation.Operation

	// Calculate returns the price and metadata for shipping the order.
	Calculate(ctx context.Context, order *model.Order, args *operation.ArgValues) (*model.ShippingCalculationResult, error)
}

// CheckerRegistry is the code-keyed registry of eligibility checkers.
type CheckerRegistry = operation.Registry[EligibilityChecker]

// CalculatorRegistry is the code-keyed registry of calculators.
type CalculatorRegistry = operation.Registry[Calculator]

// NewCheckerRegistry builds the checker registry.
func NewCheckerRegistry(checkers ...EligibilityChecker) (*CheckerRegistry, error) {
	return operation.NewRegistry(checkers...)
}

// NewCalculatorRegistry builds the calculator registry.
func NewCalculatorRegistry(calculators ...Calculator) (*CalculatorRegistry, error) {
	return operation.NewRegistry(calculators...)
}

// DefaultChecker is eligible when the order total reaches the
// configured minimum.
type DefaultChecker struct {
	operation.BaseOperation
}

// NewDefaultChecker creates the default eligibility checker.
func NewDefaultChecker() *DefaultChecker {
	return &DefaultChecker{
		BaseOperation: operation.NewBaseOperation(
			"default-shipping-eligibility-checker",
			"Eligible when order total is at least { orderMinimum }",
			0,
			operation.ArgSpec{
				"orderMinimum": {Type: operation.ArgTypeInt, Label: "Minimum order value"},
			},
		),
	}
}

func (c *DefaultChecker) Check(ctx context.Context, order *model.Order, args *operation.ArgValues) (bool, error) {
	minimum, err := args.Int("orderMinimum")
	if err != nil {
		return false, err
	}
	return order.Total >= int64(minimum), nil
}

// FlatRateCalculator prices every order at a flat rate. A missing rate
// argument prices the order at zero.
type FlatRateCalculator struct {
	operation.BaseOperation
}

// NewFlatRateCalculator creates the default flat-rate calculator.
func NewFlatRateCalculator() *FlatRateCalculator {
	return &FlatRateCalculator{
		BaseOperation: operation.NewBaseOperation(
			"default-shipping-calculator",
			"Flat shipping rate",
			0,
			operation.ArgSpec{
				"rate": {Type: operation.ArgTypeFloat, Label: "Shipping price"},
			},
		),
	}
}

func (c *FlatRateCalculator) Calculate(ctx context.Context, order *model.Order, args *operation.ArgValues) (*model.ShippingCalculationResult, error) {
	rate, err := args.Float("rate")
	if err != nil {
		if errors.Is(err, operation.ErrMissingArgument) {
			rate = 0
		} else {
			return nil, err
		}
	}
	return &model.ShippingCalculationResult{Price: int64(math.Round(rate))}, nil
}
