package outbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/commercekit/server/internal/model"
)

// CustomerReaderPort supplies customer data to promotion conditions.
type CustomerReaderPort interface {
	// GroupIDs returns the IDs of the groups the customer belongs to.
	GroupIDs(ctx context.Context, customerID uuid.UUID) ([]string, error)
}

// FacetReaderPort supplies facet value data to promotion conditions.
type FacetReaderPort interface {
	// FacetValueIDs returns the facet value IDs of the variant combined
	// with those of its owning product.
	FacetValueIDs(ctx context.Context, productVariantID string) ([]string, error)
}

// ShippingMethodDatabasePort defines shipping method persistence
// operations.
type ShippingMethodDatabasePort interface {
	// GetActiveShippingMethods returns all enabled shipping methods.
	GetActiveShippingMethods(ctx context.Context) ([]*model.ShippingMethod, error)
}

// PromotionDatabasePort defines promotion persistence operations.
type PromotionDatabasePort interface {
	// GetActivePromotions returns enabled promotions ordered by
	// priority score.
	GetActivePromotions(ctx context.Context) ([]*model.Promotion, error)
}
