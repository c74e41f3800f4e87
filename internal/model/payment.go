package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentState represents the state of a payment.
type PaymentState string

const (
	PaymentStateCreated    PaymentState = "Created"
	PaymentStateAuthorized PaymentState = "Authorized"
	PaymentStateSettled    PaymentState = "Settled"
	PaymentStateDeclined   PaymentState = "Declined"
	PaymentStateError      PaymentState = "Error"
)

// String returns the string representation of the state.
func (s PaymentState) String() string {
	return string(s)
}

// IsValid checks if the state is a valid payment state.
func (s PaymentState) IsValid() bool {
	switch s {
	case PaymentStateCreated, PaymentStateAuthorized, PaymentStateSettled,
		PaymentStateDeclined, PaymentStateError:
		return true
	}
	return false
}

// IsTerminal returns true if the state is a terminal state.
func (s PaymentState) IsTerminal() bool {
	return s == PaymentStateSettled || s == PaymentStateDeclined || s == PaymentStateError
}

// Payment represents a payment against an order. Method names the
// payment method handler that owns gateway interaction for this
// payment. State changes only through the payment state machine.
type Payment struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID       uuid.UUID    `gorm:"type:uuid;not null;index"`
	Method        string       `gorm:"not null"`
	State         PaymentState `gorm:"not null;default:Created"`
	Amount        int64
	TransactionID string
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Relations
	Refunds []*Refund `gorm:"foreignKey:PaymentID"`
}

// TableName returns the database table name.
func (Payment) TableName() string {
	return "payments"
}
