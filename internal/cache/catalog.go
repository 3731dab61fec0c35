package cache

import (
	"context"
	"time"

	"lms-tracker/internal/domain"

	"github.com/jellydator/ttlcache/v3"
)

type CardsFetcher interface {
	FetchCards(ctx context.Context) ([]domain.Card, error)
}

const catalogKey = "catalog"

// CardCatalog fronts the backend card catalog with a TTL cache. The
// catalog changes rarely and is shared across views, so this is the one
// place the tracker caches backend data.
type CardCatalog struct {
	fetcher CardsFetcher
	cache   *ttlcache.Cache[string, []domain.Card]
}

func NewCardCatalog(fetcher CardsFetcher, ttl time.Duration) *CardCatalog {
	c := ttlcache.New[string, []domain.Card](
		ttlcache.WithTTL[string, []domain.Card](ttl),
		ttlcache.WithDisableTouchOnHit[string, []domain.Card](),
	)
	go c.Start()
	return &CardCatalog{fetcher: fetcher, cache: c}
}

func (c *CardCatalog) Cards(ctx context.Context) ([]domain.Card, error) {
	if item := c.cache.Get(catalogKey); item != nil {
		return item.Value(), nil
	}

	cards, err := c.fetcher.FetchCards(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(catalogKey, cards, ttlcache.DefaultTTL)
	return cards, nil
}

// Invalidate drops the cached catalog, e.g. after a new card is created.
func (c *CardCatalog) Invalidate() {
	c.cache.Delete(catalogKey)
}
