package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commercekit/server/internal/model"
)

func orderWithLines(code string, lines ...*model.OrderLine) *model.Order {
	return &model.Order{ID: uuid.New(), Code: code, State: model.OrderStateAddingItems, Active: true, Lines: lines}
}

func variantIDs(lines []*model.OrderLine) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductVariantID
	}
	return ids
}

func newTestMerger(strategy MergeStrategy) *Merger {
	return NewMerger(strategy, zap.NewNop())
}

func TestMerger_BothEmpty(t *testing.T) {
	m := newTestMerger(NewMergeOrdersStrategy())

	result := m.Merge(context.Background(), orderWithLines("G-1"), orderWithLines("E-1"))

	assert.Nil(t, result.Order)
	assert.Empty(t, result.LinesToInsert)
	assert.Nil(t, result.OrderToDelete)
}

func TestMerger_GuestOnly(t *testing.T) {
	m := newTestMerger(NewMergeOrdersStrategy())
	guest := orderWithLines("G-1", line("101", 1))
	existing := orderWithLines("E-1")

	result := m.Merge(context.Background(), guest, existing)

	assert.Same(t, guest, result.Order)
	assert.Empty(t, result.LinesToInsert)
	assert.Same(t, existing, result.OrderToDelete)
}

func TestMerger_ExistingOnly(t *testing.T) {
	m := newTestMerger(NewMergeOrdersStrategy())
	guest := orderWithLines("G-1")
	existing := orderWithLines("E-1", line("101", 1))

	result := m.Merge(context.Background(), guest, existing)

	assert.Same(t, existing, result.Order)
	assert.Empty(t, result.LinesToInsert)
	assert.Same(t, guest, result.OrderToDelete)
}

func TestMerger_BothNonEmpty(t *testing.T) {
	m := newTestMerger(NewMergeOrdersStrategy())
	guest := orderWithLines("G-1", line("102", 2), line("202", 1))
	existing := orderWithLines("E-1", line("101", 1), line("102", 1), line("103", 1))

	result := m.Merge(context.Background(), guest, existing)

	require.Same(t, existing, result.Order)
	require.Same(t, guest, result.OrderToDelete)

	// The conflicting 102 line resolves in favor of the existing order;
	// only the guest-only 202 line needs inserting.
	require.Len(t, result.LinesToInsert, 1)
	assert.Equal(t, "202", result.LinesToInsert[0].ProductVariantID)
	assert.Equal(t, 1, result.LinesToInsert[0].Quantity)
}

func TestMergeOrdersStrategy_GuestLinesPrependedInOrder(t *testing.T) {
	s := NewMergeOrdersStrategy()
	guest := orderWithLines("G-1", line("201", 1), line("202", 1), line("102", 9))
	existing := orderWithLines("E-1", line("101", 1), line("102", 1))

	merged := s.Merge(context.Background(), guest, existing)

	assert.Equal(t, []string{"201", "202", "101", "102"}, variantIDs(merged))
	assert.Equal(t, 1, merged[3].Quantity, "existing line wins, quantities are not merged")
}

func TestMergeOrdersStrategy_ReturnsFreshSlice(t *testing.T) {
	s := NewMergeOrdersStrategy()
	existing := orderWithLines("E-1", line("101", 1))
	guest := orderWithLines("G-1", line("102", 1))

	merged := s.Merge(context.Background(), guest, existing)
	merged[0] = nil

	assert.NotNil(t, existing.Lines[0])
	assert.NotNil(t, guest.Lines[0])
}

func TestUseExistingStrategy(t *testing.T) {
	s := NewUseExistingStrategy()
	guest := orderWithLines("G-1", line("102", 1))
	existing := orderWithLines("E-1", line("101", 1))

	merged := s.Merge(context.Background(), guest, existing)

	assert.Equal(t, []string{"101"}, variantIDs(merged))
}

func TestUseGuestStrategy(t *testing.T) {
	s := NewUseGuestStrategy()
	guest := orderWithLines("G-1", line("102", 1))
	existing := orderWithLines("E-1", line("101", 1))

	merged := s.Merge(context.Background(), guest, existing)

	assert.Equal(t, []string{"102"}, variantIDs(merged))
}

func TestUseGuestIfExistingEmptyStrategy(t *testing.T) {
	s := NewUseGuestIfExistingEmptyStrategy()
	guest := orderWithLines("G-1", line("102", 1))

	merged := s.Merge(context.Background(), guest, orderWithLines("E-1"))
	assert.Equal(t, []string{"102"}, variantIDs(merged))

	merged = s.Merge(context.Background(), guest, orderWithLines("E-1", line("101", 1)))
	assert.Equal(t, []string{"101"}, variantIDs(merged))
}

func TestStrategyRegistry(t *testing.T) {
	registry, err := NewStrategyRegistry()
	require.NoError(t, err)

	for _, code := range []string{"merge-order-lines", "use-existing-order", "use-guest-order", "use-guest-if-existing-empty"} {
		s, err := registry.Get(code)
		require.NoError(t, err)
		assert.Equal(t, code, s.Code())
	}
}
