package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HistoryEntryType classifies an order history entry.
type HistoryEntryType string

const (
	HistoryOrderStateTransition HistoryEntryType = "ORDER_STATE_TRANSITION"
	HistoryPaymentTransition    HistoryEntryType = "PAYMENT_TRANSITION"
	HistoryRefundTransition     HistoryEntryType = "REFUND_TRANSITION"
	HistoryOrderMerged          HistoryEntryType = "ORDER_MERGED"
	HistoryCouponApplied        HistoryEntryType = "COUPON_APPLIED"
)

// JSONMap is a map stored as a JSON column.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported JSONMap source type %T", src)
	}
}

// OrderHistoryEntry is one entry in an order's audit trail.
type OrderHistoryEntry struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type      HistoryEntryType `gorm:"not null"`
	Data      JSONMap          `gorm:"type:jsonb"`
	CreatedAt time.Time
}

// TableName returns the database table name.
func (OrderHistoryEntry) TableName() string {
	return "order_history_entries"
}
