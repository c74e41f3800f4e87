package promotion

import (
	"context"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
)

// HasFacetValuesCondition holds when the order contains at least
// `minimum` units of products carrying all of the given facet values.
type HasFacetValuesCondition struct {
	operation.BaseOperation

	checker *FacetValueChecker
}

// NewHasFacetValuesCondition creates the facet-value condition backed
// by checker.
func NewHasFacetValuesCondition(checker *FacetValueChecker) *HasFacetValuesCondition {
	return &HasFacetValuesCondition{
		BaseOperation: operation.NewBaseOperation(
			"at-least-n-with-facets",
			"Buy at least { minimum } products with the given facets",
			0,
			operation.ArgSpec{
				"minimum":       {Type: operation.ArgTypeInt, Label: "Minimum quantity"},
				"facetValueIds": {Type: operation.ArgTypeID, List: true, Label: "Facet values"},
			},
		),
		checker: checker,
	}
}

func (c *HasFacetValuesCondition) Check(ctx context.Context, order *model.Order, args *operation.ArgValues) (bool, error) {
	minimum, err := args.Int("minimum")
	if err != nil {
		return false, err
	}
	facetValueIDs, err := args.IDList("facetValueIds")
	if err != nil {
		return false, err
	}

	matched := 0
	for _, line := range order.Lines {
		ok, err := c.checker.HasFacetValues(ctx, line.ProductVariantID, facetValueIDs)
		if err != nil {
			return false, err
		}
		if ok {
			matched += line.Quantity
		}
	}
	return matched >= minimum, nil
}
