package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// customerAdapter implements outbound.CustomerReaderPort.
type customerAdapter struct {
	db *gorm.DB
}

// NewCustomerAdapter creates a new customer reader adapter.
func NewCustomerAdapter(db *gorm.DB) outbound.CustomerReaderPort {
	return &customerAdapter{db: db}
}

func (a *customerAdapter) GroupIDs(ctx context.Context, customerID uuid.UUID) ([]string, error) {
	var customer model.Customer
	err := a.db.WithContext(ctx).
		Preload("Groups").
		First(&customer, "id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(customer.Groups))
	for _, g := range customer.Groups {
		ids = append(ids, g.ID)
	}
	return ids, nil
}
