package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// refundAdapter implements outbound.RefundDatabasePort.
type refundAdapter struct {
	db *gorm.DB
}

// NewRefundAdapter creates a new refund database adapter.
func NewRefundAdapter(db *gorm.DB) outbound.RefundDatabasePort {
	return &refundAdapter{db: db}
}

func (a *refundAdapter) Create(ctx context.Context, refund *model.Refund) error {
	return a.db.WithContext(ctx).Create(refund).Error
}

func (a *refundAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.Refund, error) {
	var refund model.Refund
	err := a.db.WithContext(ctx).First(&refund, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (a *refundAdapter) Update(ctx context.Context, refund *model.Refund) error {
	return a.db.WithContext(ctx).Save(refund).Error
}
