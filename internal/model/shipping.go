package model

import (
	"time"

	"github.com/commercekit/server/internal/operation"
	"github.com/google/uuid"
)

// ShippingMethod represents a configured way of shipping an order. The
// Checker decides eligibility for a given order and the Calculator
// produces its price; both are stored as serialized configurable
// operations.
type ShippingMethod struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code        string    `gorm:"uniqueIndex;not null"`
	Description string
	Enabled     bool   `gorm:"default:true"`
	Checker     string `gorm:"type:text;not null"`
	Calculator  string `gorm:"type:text;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the database table name.
func (ShippingMethod) TableName() string {
	return "shipping_methods"
}

// CheckerOperation parses the persisted eligibility checker config.
func (m *ShippingMethod) CheckerOperation() (operation.ConfigurableOperation, error) {
	return operation.Decode(m.Checker)
}

// CalculatorOperation parses the persisted calculator config.
func (m *ShippingMethod) CalculatorOperation() (operation.ConfigurableOperation, error) {
	return operation.Decode(m.Calculator)
}

// ShippingCalculationResult is the price produced by a shipping
// calculator for one order.
type ShippingCalculationResult struct {
	Price    int64             `json:"price"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ShippingQuote pairs an eligible method with its calculated price.
type ShippingQuote struct {
	Method *ShippingMethod            `json:"method"`
	Result *ShippingCalculationResult `json:"result"`
}
