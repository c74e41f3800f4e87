package promotion

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/commercekit/server/internal/port/outbound"
	"github.com/commercekit/server/internal/shared/cache"
)

// FacetValueChecker answers whether a product variant carries a set of
// facet values, caching each variant's facet value IDs briefly since a
// single promotion evaluation asks about the same variants repeatedly.
type FacetValueChecker struct {
	facets outbound.FacetReaderPort
	cache  *cache.TTL[string, []string]
	ttl    time.Duration
}

// NewFacetValueChecker creates a checker caching variant facet values
// for ttl.
func NewFacetValueChecker(facets outbound.FacetReaderPort, clock clockwork.Clock, ttl time.Duration) *FacetValueChecker {
	return &FacetValueChecker{
		facets: facets,
		cache:  cache.NewTTL[string, []string](clock),
		ttl:    ttl,
	}
}

// HasFacetValues reports whether the variant's facet value set (its
// own plus its product's) contains every ID in facetValueIDs.
func (c *FacetValueChecker) HasFacetValues(ctx context.Context, productVariantID string, facetValueIDs []string) (bool, error) {
	ids, err := c.cache.GetOrCompute(productVariantID, c.ttl, func() ([]string, error) {
		return c.facets.FacetValueIDs(ctx, productVariantID)
	})
	if err != nil {
		return false, err
	}

	have := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		have[id] = struct{}{}
	}
	for _, want := range facetValueIDs {
		if _, ok := have[want]; !ok {
			return false, nil
		}
	}
	return true, nil
}
