package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// historyAdapter implements outbound.HistoryServicePort.
type historyAdapter struct {
	db *gorm.DB
}

// NewHistoryAdapter creates a new order history adapter.
func NewHistoryAdapter(db *gorm.DB) outbound.HistoryServicePort {
	return &historyAdapter{db: db}
}

func (a *historyAdapter) CreateHistoryEntryForOrder(ctx context.Context, orderID uuid.UUID, entryType model.HistoryEntryType, data map[string]any) error {
	entry := &model.OrderHistoryEntry{
		ID:      uuid.New(),
		OrderID: orderID,
		Type:    entryType,
		Data:    model.JSONMap(data),
	}
	return a.db.WithContext(ctx).Create(entry).Error
}
