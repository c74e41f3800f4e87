package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// paymentAdapter implements outbound.PaymentDatabasePort.
type paymentAdapter struct {
	db *gorm.DB
}

// NewPaymentAdapter creates a new payment database adapter.
func NewPaymentAdapter(db *gorm.DB) outbound.PaymentDatabasePort {
	return &paymentAdapter{db: db}
}

func (a *paymentAdapter) Create(ctx context.Context, payment *model.Payment) error {
	return a.db.WithContext(ctx).Create(payment).Error
}

func (a *paymentAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	err := a.db.WithContext(ctx).Preload("Refunds").First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (a *paymentAdapter) Update(ctx context.Context, payment *model.Payment) error {
	return a.db.WithContext(ctx).Omit("Refunds").Save(payment).Error
}
