// Package postgres implements the outbound database ports with gorm.
package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// orderAdapter implements outbound.OrderDatabasePort.
type orderAdapter struct {
	db *gorm.DB
}

// NewOrderAdapter creates a new order database adapter.
func NewOrderAdapter(db *gorm.DB) outbound.OrderDatabasePort {
	return &orderAdapter{db: db}
}

func (a *orderAdapter) Create(ctx context.Context, order *model.Order) error {
	return a.db.WithContext(ctx).Create(order).Error
}

func (a *orderAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := a.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *orderAdapter) GetByIDFull(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := a.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Items").
		Preload("Payments").
		Preload("Payments.Refunds").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *orderAdapter) GetActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := a.db.WithContext(ctx).
		Preload("Lines").
		Preload("Payments").
		Where("customer_id = ? AND active = ?", customerID, true).
		Order("created_at DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *orderAdapter) Update(ctx context.Context, order *model.Order) error {
	return a.db.WithContext(ctx).
		Omit("Lines", "Payments").
		Save(order).Error
}

func (a *orderAdapter) InsertLines(ctx context.Context, orderID uuid.UUID, lines []*model.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			fresh := &model.OrderLine{
				ID:               uuid.New(),
				OrderID:          orderID,
				ProductVariantID: line.ProductVariantID,
				Quantity:         line.Quantity,
				UnitPrice:        line.UnitPrice,
			}
			if err := tx.Create(fresh).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *orderAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&model.OrderLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Order{}, "id = ?", id).Error
	})
}
