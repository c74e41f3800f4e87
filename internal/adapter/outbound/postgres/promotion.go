package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// promotionAdapter implements outbound.PromotionDatabasePort.
type promotionAdapter struct {
	db *gorm.DB
}

// NewPromotionAdapter creates a new promotion database adapter.
func NewPromotionAdapter(db *gorm.DB) outbound.PromotionDatabasePort {
	return &promotionAdapter{db: db}
}

func (a *promotionAdapter) GetActivePromotions(ctx context.Context) ([]*model.Promotion, error) {
	var promotions []*model.Promotion
	err := a.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("priority_score ASC, created_at ASC").
		Find(&promotions).Error
	return promotions, err
}
