package promotion

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
	"github.com/commercekit/server/internal/port/outbound"
	"github.com/commercekit/server/internal/shared/cache"
)

// CustomerGroupCondition holds when the order's customer belongs to
// the configured customer group. Group membership is cached per
// customer for a short TTL so a burst of promotion evaluations does
// not hammer the customer store.
type CustomerGroupCondition struct {
	operation.BaseOperation

	customers outbound.CustomerReaderPort
	cache     *cache.TTL[uuid.UUID, []string]
	ttl       time.Duration
}

// NewCustomerGroupCondition creates the customer-group condition with
// membership cached for ttl.
func NewCustomerGroupCondition(customers outbound.CustomerReaderPort, clock clockwork.Clock, ttl time.Duration) *CustomerGroupCondition {
	return &CustomerGroupCondition{
		BaseOperation: operation.NewBaseOperation(
			"customer-group",
			"Customer is a member of the specified group",
			0,
			operation.ArgSpec{
				"customerGroupId": {Type: operation.ArgTypeID, Label: "Customer group"},
			},
		),
		customers: customers,
		cache:     cache.NewTTL[uuid.UUID, []string](clock),
		ttl:       ttl,
	}
}

func (c *CustomerGroupCondition) Check(ctx context.Context, order *model.Order, args *operation.ArgValues) (bool, error) {
	groupID, err := args.ID("customerGroupId")
	if err != nil {
		return false, err
	}
	if order.CustomerID == nil {
		return false, nil
	}

	customerID := *order.CustomerID
	groups, err := c.cache.GetOrCompute(customerID, c.ttl, func() ([]string, error) {
		return c.customers.GroupIDs(ctx, customerID)
	})
	if err != nil {
		return false, err
	}
	return slices.Contains(groups, groupID), nil
}

// ClearCache drops the cached group memberships of one customer, e.g.
// after their group assignments change.
func (c *CustomerGroupCondition) ClearCache(customerID uuid.UUID) {
	c.cache.Invalidate(customerID)
}
