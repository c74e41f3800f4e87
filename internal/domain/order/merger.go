package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/commercekit/server/internal/model"
)

// MergeResult describes how a guest order and an existing order were
// reconciled. Order is the order to keep, LinesToInsert the merged
// lines the caller must insert into it, and OrderToDelete the order
// made redundant by the merge. Any field may be nil.
type MergeResult struct {
	Order         *model.Order
	LinesToInsert []*model.OrderLine
	OrderToDelete *model.Order
}

// Merger reconciles a guest order with an authenticated customer's
// existing order at login, delegating line reconciliation to the
// configured merge strategy.
type Merger struct {
	strategy MergeStrategy
	logger   *zap.Logger
}

// NewMerger creates an order merger using the given strategy.
func NewMerger(strategy MergeStrategy, logger *zap.Logger) *Merger {
	return &Merger{strategy: strategy, logger: logger}
}

// Merge computes the merge result for the two orders. The caller is
// responsible for inserting LinesToInsert into the kept order and
// deleting OrderToDelete, inside one transaction.
func (m *Merger) Merge(ctx context.Context, guest, existing *model.Order) MergeResult {
	guestEmpty := guest == nil || guest.IsEmpty()
	existingEmpty := existing == nil || existing.IsEmpty()

	switch {
	case guestEmpty && existingEmpty:
		return MergeResult{}
	case existingEmpty:
		return MergeResult{Order: guest, OrderToDelete: existing}
	case guestEmpty:
		return MergeResult{Order: existing, OrderToDelete: guest}
	}

	merged := m.strategy.Merge(ctx, guest, existing)
	var toInsert []*model.OrderLine
	for _, line := range merged {
		if existing.LineWithVariant(line.ProductVariantID) == nil {
			toInsert = append(toInsert, line)
		}
	}

	m.logger.Debug("orders merged",
		zap.String("strategy", m.strategy.Code()),
		zap.String("guest_code", guest.Code),
		zap.String("existing_code", existing.Code),
		zap.Int("lines_to_insert", len(toInsert)),
	)
	return MergeResult{Order: existing, LinesToInsert: toInsert, OrderToDelete: guest}
}
