// Package outbound declares the ports through which the order process
// engine reaches its collaborators: persistence, history, and catalog
// lookups. Implementations live under internal/adapter/outbound.
package outbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/commercekit/server/internal/model"
)

// OrderDatabasePort defines order persistence operations.
type OrderDatabasePort interface {
	// Create creates a new order.
	Create(ctx context.Context, order *model.Order) error

	// GetByID finds an order by ID, without relations.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIDFull finds an order by ID with lines and payments loaded.
	GetByIDFull(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetActiveByCustomer finds the customer's active order, if any.
	GetActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*model.Order, error)

	// Update updates an order.
	Update(ctx context.Context, order *model.Order) error

	// InsertLines adds lines to an existing order.
	InsertLines(ctx context.Context, orderID uuid.UUID, lines []*model.OrderLine) error

	// Delete deletes an order and its lines.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentDatabasePort defines payment persistence operations.
type PaymentDatabasePort interface {
	// Create creates a new payment.
	Create(ctx context.Context, payment *model.Payment) error

	// GetByID finds a payment by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)

	// Update updates a payment.
	Update(ctx context.Context, payment *model.Payment) error
}

// RefundDatabasePort defines refund persistence operations.
type RefundDatabasePort interface {
	// Create creates a new refund.
	Create(ctx context.Context, refund *model.Refund) error

	// GetByID finds a refund by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Refund, error)

	// Update updates a refund.
	Update(ctx context.Context, refund *model.Refund) error
}

// HistoryServicePort records entries on an order's audit trail.
type HistoryServicePort interface {
	// CreateHistoryEntryForOrder appends one history entry.
	CreateHistoryEntryForOrder(ctx context.Context, orderID uuid.UUID, entryType model.HistoryEntryType, data map[string]any) error
}
