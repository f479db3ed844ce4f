package market

import (
	"context"
	"fmt"
	"time"

	"moneymarket/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache wraps a market store with an expiring read cache
func Cache(store core.IMarketStore, exp time.Duration) core.IMarketStore {
	return &cacheMarketStore{
		IMarketStore: store,
		cache:        gcache.New(64).LRU().Expiration(exp).Build(),
		sf:           &singleflight.Group{},
	}
}

type cacheMarketStore struct {
	core.IMarketStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheMarketStore) Find(ctx context.Context, assetID string) (*core.Market, error) {
	key := fmt.Sprintf("market_asset_%s", assetID)
	if v, err := s.cache.Get(key); err == nil {
		return v.(*core.Market), nil
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		market, err := s.IMarketStore.Find(ctx, assetID)
		if err != nil {
			return nil, err
		}

		_ = s.cache.Set(key, market)
		return market, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*core.Market), nil
}
