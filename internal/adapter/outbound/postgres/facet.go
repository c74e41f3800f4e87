package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/port/outbound"
)

// facetAdapter implements outbound.FacetReaderPort.
type facetAdapter struct {
	db *gorm.DB
}

// NewFacetAdapter creates a new facet reader adapter.
func NewFacetAdapter(db *gorm.DB) outbound.FacetReaderPort {
	return &facetAdapter{db: db}
}

func (a *facetAdapter) FacetValueIDs(ctx context.Context, productVariantID string) ([]string, error) {
	var variant model.ProductVariant
	err := a.db.WithContext(ctx).
		Preload("FacetValues").
		First(&variant, "id = ?", productVariantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(variant.FacetValues))
	for _, fv := range variant.FacetValues {
		ids = append(ids, fv.ID)
	}
	return ids, nil
}
