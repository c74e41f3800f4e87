package model

import (
	"time"

	"github.com/commercekit/server/internal/operation"
	"github.com/google/uuid"
)

// Promotion represents an admin-configured promotion: a set of
// conditions that must hold for an order plus the actions that compute
// its discount adjustments. Conditions and Actions are stored as
// serialized configurable operations and parsed back into typed values
// at evaluation time.
type Promotion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"not null"`
	Enabled       bool      `gorm:"default:true"`
	CouponCode    string    `gorm:"index"`
	PriorityScore int       `gorm:"default:0"`
	Conditions    string    `gorm:"type:text;not null;default:'[]'"`
	Actions       string    `gorm:"type:text;not null;default:'[]'"`
	StartsAt      *time.Time
	EndsAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the database table name.
func (Promotion) TableName() string {
	return "promotions"
}

// ConditionOperations parses the persisted condition configuration.
func (p *Promotion) ConditionOperations() ([]operation.ConfigurableOperation, error) {
	return operation.DecodeList(p.Conditions)
}

// ActionOperations parses the persisted action configuration.
func (p *Promotion) ActionOperations() ([]operation.ConfigurableOperation, error) {
	return operation.DecodeList(p.Actions)
}

// IsActiveAt reports whether the promotion is enabled and inside its
// schedule window at t.
func (p *Promotion) IsActiveAt(t time.Time) bool {
	if !p.Enabled {
		return false
	}
	if p.StartsAt != nil && t.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && t.After(*p.EndsAt) {
		return false
	}
	return true
}
