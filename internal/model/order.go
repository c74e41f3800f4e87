package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderState represents the state of an order in its lifecycle.
type OrderState string

const (
	OrderStateAddingItems        OrderState = "AddingItems"
	OrderStateArrangingPayment   OrderState = "ArrangingPayment"
	OrderStatePaymentAuthorized  OrderState = "PaymentAuthorized"
	OrderStatePaymentSettled     OrderState = "PaymentSettled"
	OrderStatePartiallyDelivered OrderState = "PartiallyDelivered"
	OrderStateDelivered          OrderState = "Delivered"
	OrderStateCancelled          OrderState = "Cancelled"
)

// String returns the string representation of the state.
func (s OrderState) String() string {
	return string(s)
}

// IsValid checks if the state is a valid order state.
func (s OrderState) IsValid() bool {
	switch s {
	case OrderStateAddingItems, OrderStateArrangingPayment, OrderStatePaymentAuthorized,
		OrderStatePaymentSettled, OrderStatePartiallyDelivered, OrderStateDelivered,
		OrderStateCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if the state is a terminal state.
func (s OrderState) IsTerminal() bool {
	return s == OrderStateDelivered || s == OrderStateCancelled
}

// Order represents a purchase order aggregate. Lines are owned by the
// order; items are owned by lines. State changes only through the
// order state machine.
type Order struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code       string     `gorm:"uniqueIndex;not null"`
	State      OrderState `gorm:"not null;default:AddingItems"`
	Active     bool       `gorm:"default:true"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	SubTotal   int64      // In minor currency units
	Shipping   int64
	Total      int64
	Currency   string `gorm:"default:usd"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Relations
	Lines    []*OrderLine `gorm:"foreignKey:OrderID"`
	Payments []*Payment   `gorm:"foreignKey:OrderID"`
}

// TableName returns the database table name.
func (Order) TableName() string {
	return "orders"
}

// IsEmpty returns true if the order has no lines.
func (o *Order) IsEmpty() bool {
	return len(o.Lines) == 0
}

// LineWithVariant returns the line for the given product variant, or
// nil if the order has none.
func (o *Order) LineWithVariant(productVariantID string) *OrderLine {
	for _, line := range o.Lines {
		if line.ProductVariantID == productVariantID {
			return line
		}
	}
	return nil
}

// TotalQuantity returns the summed quantity across all lines.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}

// SettledPaymentTotal returns the amount covered by settled payments.
func (o *Order) SettledPaymentTotal() int64 {
	var covered int64
	for _, p := range o.Payments {
		if p.State == PaymentStateSettled {
			covered += p.Amount
		}
	}
	return covered
}

// CoveredPaymentTotal returns the amount covered by payments that are
// authorized or settled.
func (o *Order) CoveredPaymentTotal() int64 {
	var covered int64
	for _, p := range o.Payments {
		if p.State == PaymentStateAuthorized || p.State == PaymentStateSettled {
			covered += p.Amount
		}
	}
	return covered
}

// OrderLine groups the units of one product variant within an order.
type OrderLine struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductVariantID string    `gorm:"not null;index"`
	Quantity         int       `gorm:"default:1"`
	UnitPrice        int64     // In minor currency units

	// Relations
	Items []*OrderItem `gorm:"foreignKey:LineID"`
}

// TableName returns the database table name.
func (OrderLine) TableName() string {
	return "order_lines"
}

// LineTotal returns quantity * unit price.
func (l *OrderLine) LineTotal() int64 {
	return int64(l.Quantity) * l.UnitPrice
}

// OrderItem is a single unit within an order line.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LineID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UnitPrice int64
	Cancelled bool `gorm:"default:false"`
}

// TableName returns the database table name.
func (OrderItem) TableName() string {
	return "order_items"
}

// AdjustmentType classifies an order adjustment.
type AdjustmentType string

const (
	AdjustmentTypePromotion AdjustmentType = "PROMOTION"
	AdjustmentTypeShipping  AdjustmentType = "SHIPPING"
)

// Adjustment is a computed modification to an order's totals, e.g. a
// promotion discount. Amounts are negative for discounts.
type Adjustment struct {
	Type        AdjustmentType `json:"type"`
	Code        string         `json:"code"`
	Description string         `json:"description"`
	Amount      int64          `json:"amount"`
}
