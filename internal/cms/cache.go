package cms

import (
	"context"
	"fmt"
	"time"

	"github.com/rialms/scottspence.me/internal/model"
	"github.com/viccon/sturdyc"
)

const pageDataKey = "portfolio-assets"

// CachedSource keeps the last fetched query result for a while, so that the
// dev server can rebuild on template changes without hitting the API.
type CachedSource struct {
	source Source
	cache  *sturdyc.Client[model.PageData]
}

var _ Source = &CachedSource{}

func NewCachedSource(source Source, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &CachedSource{
		source: source,
		cache: sturdyc.New[model.PageData](8, 1, ttl, 10,
			sturdyc.WithEvictionInterval(ttl),
		),
	}
}

func (cs *CachedSource) Fetch(ctx context.Context) (model.PageData, error) {
	data, err := cs.cache.GetOrFetch(ctx, pageDataKey, cs.source.Fetch)
	if err != nil {
		return model.PageData{}, fmt.Errorf("get assets from cache: %w", err)
	}

	return data, nil
}

// Invalidate drops the cached result.
func (cs *CachedSource) Invalidate() {
	cs.cache.Delete(pageDataKey)
}
