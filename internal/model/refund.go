package model

import (
	"time"

	"github.com/google/uuid"
)

// RefundState represents the state of a refund.
type RefundState string

const (
	RefundStatePending RefundState = "Pending"
	RefundStateSettled RefundState = "Settled"
	RefundStateFailed  RefundState = "Failed"
)

// String returns the string representation of the state.
func (s RefundState) String() string {
	return string(s)
}

// IsValid checks if the state is a valid refund state.
func (s RefundState) IsValid() bool {
	switch s {
	case RefundStatePending, RefundStateSettled, RefundStateFailed:
		return true
	}
	return false
}

// IsTerminal returns true if the state is a terminal state.
func (s RefundState) IsTerminal() bool {
	return s == RefundStateSettled || s == RefundStateFailed
}

// Refund represents a refund of (part of) a settled payment. State
// changes only through the refund state machine.
type Refund struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaymentID     uuid.UUID   `gorm:"type:uuid;not null;index"`
	OrderID       uuid.UUID   `gorm:"type:uuid;not null;index"`
	State         RefundState `gorm:"not null;default:Pending"`
	Reason        string
	Amount        int64
	Method        string
	TransactionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the database table name.
func (Refund) TableName() string {
	return "refunds"
}
