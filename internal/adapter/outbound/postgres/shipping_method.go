package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// shippingMethodAdapter implements outbound.ShippingMethodDatabasePort.
type shippingMethodAdapter struct {
	db *gorm.DB
}

// NewShippingMethodAdapter creates a new shipping method database
// adapter.
func NewShippingMethodAdapter(db *gorm.DB) outbound.ShippingMethodDatabasePort {
	return &shippingMethodAdapter{db: db}
}

func (a *shippingMethodAdapter) GetActiveShippingMethods(ctx context.Context) ([]*model.ShippingMethod, error) {
	var methods []*model.ShippingMethod
	err := a.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("code ASC").
		Find(&methods).Error
	return methods, err
}
