package order

import (
	"context"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
)

// MergeStrategy decides which lines survive when a guest order and a
// customer's existing order are reconciled at login. Implementations
// always return a fresh slice: the merge result is mutated by the
// caller.
type MergeStrategy interface {
	operation.Operation

	Merge(ctx context.Context, guest, existing *model.Order) []*model.OrderLine
}

// StrategyRegistry is the code-keyed registry of merge strategies.
type StrategyRegistry = operation.Registry[MergeStrategy]

// NewStrategyRegistry builds the merge strategy registry with all
// built-in strategies.
func NewStrategyRegistry() (*StrategyRegistry, error) {
	return operation.NewRegistry[MergeStrategy](
		NewMergeOrdersStrategy(),
		NewUseExistingStrategy(),
		NewUseGuestStrategy(),
		NewUseGuestIfExistingEmptyStrategy(),
	)
}

// MergeOrdersStrategy keeps the existing order's lines and adds every
// guest line for a variant the existing order does not already have.
// Existing lines win conflicts; the guest line is dropped rather than
// merged quantity-wise.
type MergeOrdersStrategy struct {
	operation.BaseOperation
}

// NewMergeOrdersStrategy creates the default merge strategy.
func NewMergeOrdersStrategy() *MergeOrdersStrategy {
	return &MergeOrdersStrategy{
		BaseOperation: operation.NewBaseOperation(
			"merge-order-lines",
			"Combines guest and existing order lines, existing lines win conflicts",
			0,
			operation.ArgSpec{},
		),
	}
}

func (s *MergeOrdersStrategy) Merge(ctx context.Context, guest, existing *model.Order) []*model.OrderLine {
	merged := make([]*model.OrderLine, len(existing.Lines))
	copy(merged, existing.Lines)

	// Walk guest lines in reverse so that prepending preserves their
	// original declaration order ahead of the existing lines.
	for i := len(guest.Lines) - 1; i >= 0; i-- {
		line := guest.Lines[i]
		if existing.LineWithVariant(line.ProductVariantID) == nil {
			merged = append([]*model.OrderLine{line}, merged...)
		}
	}
	return merged
}

// UseExistingStrategy discards the guest order's lines entirely.
type UseExistingStrategy struct {
	operation.BaseOperation
}

// NewUseExistingStrategy creates the keep-existing merge strategy.
func NewUseExistingStrategy() *UseExistingStrategy {
	return &UseExistingStrategy{
		BaseOperation: operation.NewBaseOperation(
			"use-existing-order",
			"Keeps the existing order's lines, discarding the guest order",
			0,
			operation.ArgSpec{},
		),
	}
}

func (s *UseExistingStrategy) Merge(ctx context.Context, guest, existing *model.Order) []*model.OrderLine {
	lines := make([]*model.OrderLine, len(existing.Lines))
	copy(lines, existing.Lines)
	return lines
}

// UseGuestStrategy discards the existing order's lines entirely.
type UseGuestStrategy struct {
	operation.BaseOperation
}

// NewUseGuestStrategy creates the keep-guest merge strategy.
func NewUseGuestStrategy() *UseGuestStrategy {
	return &UseGuestStrategy{
		BaseOperation: operation.NewBaseOperation(
			"use-guest-order",
			"Keeps the guest order's lines, discarding the existing order",
			0,
			operation.ArgSpec{},
		),
	}
}

func (s *UseGuestStrategy) Merge(ctx context.Context, guest, existing *model.Order) []*model.OrderLine {
	lines := make([]*model.OrderLine, len(guest.Lines))
	copy(lines, guest.Lines)
	return lines
}

// UseGuestIfExistingEmptyStrategy keeps the guest order's lines only
// when the existing order has none.
type UseGuestIfExistingEmptyStrategy struct {
	operation.BaseOperation
}

// NewUseGuestIfExistingEmptyStrategy creates the conditional keep-guest
// merge strategy.
func NewUseGuestIfExistingEmptyStrategy() *UseGuestIfExistingEmptyStrategy {
	return &UseGuestIfExistingEmptyStrategy{
		BaseOperation: operation.NewBaseOperation(
			"use-guest-if-existing-empty",
			"Keeps the guest order's lines only when the existing order is empty",
			0,
			operation.ArgSpec{},
		),
	}
}

func (s *UseGuestIfExistingEmptyStrategy) Merge(ctx context.Context, guest, existing *model.Order) []*model.OrderLine {
	source := existing.Lines
	if existing.IsEmpty() {
		source = guest.Lines
	}
	lines := make([]*model.OrderLine, len(source))
	copy(lines, source)
	return lines
}
