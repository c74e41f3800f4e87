package promotion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
)

// --- Mock implementations ---

type MockCustomerReader struct {
	mock.Mock
}

func (m *MockCustomerReader) GroupIDs(ctx context.Context, customerID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockFacetReader struct {
	mock.Mock
}

func (m *MockFacetReader) FacetValueIDs(ctx context.Context, productVariantID string) ([]string, error) {
	args := m.Called(ctx, productVariantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Helpers ---

func resolveArgs(t *testing.T, c operation.Operation, args ...operation.Arg) *operation.ArgValues {
	t.Helper()
	values, err := operation.Resolve(operation.ConfigurableOperation{Code: c.Code(), Args: args}, c.ArgSpec())
	require.NoError(t, err)
	return values
}

func orderWithLines(lines ...*model.OrderLine) *model.Order {
	return &model.Order{ID: uuid.New(), Code: "ORD-4001", State: model.OrderStateAddingItems, Lines: lines}
}

func line(variantID string, qty int) *model.OrderLine {
	return &model.OrderLine{ProductVariantID: variantID, Quantity: qty, UnitPrice: 1000}
}

// --- Tests ---

func TestContainsProductsCondition(t *testing.T) {
	c := NewContainsProductsCondition()
	order := orderWithLines(line("101", 2), line("102", 1), line("999", 5))

	args := resolveArgs(t, c,
		operation.Arg{Name: "minimum", Value: "3"},
		operation.Arg{Name: "productVariantIds", Value: `["101","102"]`},
	)
	ok, err := c.Check(context.Background(), order, args)
	require.NoError(t, err)
	assert.True(t, ok, "quantity 3 across watched variants meets minimum 3")

	args = resolveArgs(t, c,
		operation.Arg{Name: "minimum", Value: "4"},
		operation.Arg{Name: "productVariantIds", Value: `["101","102"]`},
	)
	ok, err = c.Check(context.Background(), order, args)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCustomerGroupCondition_CachesMembership(t *testing.T) {
	customers := new(MockCustomerReader)
	clock := clockwork.NewFakeClock()
	c := NewCustomerGroupCondition(customers, clock, 5*time.Minute)

	customerID := uuid.New()
	order := orderWithLines(line("101", 1))
	order.CustomerID = &customerID
	args := resolveArgs(t, c, operation.Arg{Name: "customerGroupId", Value: "vip"})

	customers.On("GroupIDs", mock.Anything, customerID).Return([]string{"vip", "wholesale"}, nil).Once()

	ok, err := c.Check(context.Background(), order, args)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second check within the TTL is served from the cache.
	ok, err = c.Check(context.Background(), order, args)
	require.NoError(t, err)
	assert.True(t, ok)
	customers.AssertNumberOfCalls(t, "GroupIDs", 1)

	c.ClearCache(customerID)
	customers.On("GroupIDs", mock.Anything, customerID).Return([]string{"wholesale"}, nil).Once()

	ok, err = c.Check(context.Background(), order, args)
	require.NoError(t, err)
	assert.False(t, ok)
	customers.AssertNumberOfCalls(t, "GroupIDs", 2)
}

func TestCustomerGroupCondition_CacheExpires(t *testing.T) {
	customers := new(MockCustomerReader)
	clock := clockwork.NewFakeClock()
	c := NewCustomerGroupCondition(customers, clock, 5*time.Minute)

	customerID := uuid.New()
	order := orderWithLines(line("101", 1))
	order.CustomerID = &customerID
	args := resolveArgs(t, c, operation.Arg{Name: "customerGroupId", Value: "vip"})

	customers.On("GroupIDs", mock.Anything, customerID).Return([]string{"vip"}, nil)

	_, err := c.Check(context.Background(), order, args)
	require.NoError(t, err)

	clock.Advance(5*time.Minute + time.Second)

	_, err = c.Check(context.Background(), order, args)
	require.NoError(t, err)
	customers.AssertNumberOfCalls(t, "GroupIDs", 2)
}

func TestCustomerGroupCondition_GuestOrder(t *testing.T) {
	customers := new(MockCustomerReader)
	c := NewCustomerGroupCondition(customers, clockwork.NewFakeClock(), 5*time.Minute)
	order := orderWithLines(line("101", 1))
	args := resolveArgs(t, c, operation.Arg{Name: "customerGroupId", Value: "vip"})

	ok, err := c.Check(context.Background(), order, args)

	require.NoError(t, err)
	assert.False(t, ok)
	customers.AssertNotCalled(t, "GroupIDs", mock.Anything, mock.Anything)
}

func TestHasFacetValuesCondition(t *testing.T) {
	facets := new(MockFacetReader)
	clock := clockwork.NewFakeClock()
	checker := NewFacetValueChecker(facets, clock, 5*time.Second)
	c := NewHasFacetValuesCondition(checker)

	order := orderWithLines(line("101", 2), line("102", 1))
	args := resolveArgs(t, c,
		operation.Arg{Name: "minimum", Value: "2"},
		operation.Arg{Name: "facetValueIds", Value: `["sale","summer"]`},
	)

	facets.On("FacetValueIDs", mock.Anything, "101").Return([]string{"sale", "summer", "new"}, nil).Once()
	facets.On("FacetValueIDs", mock.Anything, "102").Return([]string{"sale"}, nil).Once()

	ok, err := c.Check(context.Background(), order, args)
	require.NoError(t, err)
	assert.True(t, ok, "only variant 101 matches, contributing quantity 2")

	// Re-evaluation inside the checker's TTL reuses cached facet sets.
	ok, err = c.Check(context.Background(), order, args)
	require.NoError(t, err)
	assert.True(t, ok)
	facets.AssertNumberOfCalls(t, "FacetValueIDs", 2)

	clock.Advance(6 * time.Second)
	facets.On("FacetValueIDs", mock.Anything, "101").Return([]string{"sale", "summer", "new"}, nil).Once()
	facets.On("FacetValueIDs", mock.Anything, "102").Return([]string{"sale"}, nil).Once()

	_, err = c.Check(context.Background(), order, args)
	require.NoError(t, err)
	facets.AssertNumberOfCalls(t, "FacetValueIDs", 4)
}

func TestMinimumOrderAmountCondition(t *testing.T) {
	c := NewMinimumOrderAmountCondition()
	assert.Equal(t, 10, c.Priority())

	order := orderWithLines(line("101", 1))
	order.SubTotal = 10000
	args := resolveArgs(t, c, operation.Arg{Name: "amount", Value: "10000"})

	ok, err := c.Check(context.Background(), order, args)
	require.NoError(t, err)
	assert.True(t, ok)

	order.SubTotal = 9999
	ok, err = c.Check(context.Background(), order, args)
	require.NoError(t, err)
	assert.False(t, ok)
}
