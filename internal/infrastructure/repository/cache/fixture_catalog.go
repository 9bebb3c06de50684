package cache

import (
	"context"
	"strconv"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/fixture"
	basecache "github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/cache"
)

// FixtureCatalog caches gameweek fixture lists in front of a slower
// catalog, typically the sports data provider. Single-flight inside the
// store keeps one provider call in flight per gameweek.
type FixtureCatalog struct {
	next  fixture.Catalog
	cache *basecache.Store
}

func NewFixtureCatalog(next fixture.Catalog, cache *basecache.Store) *FixtureCatalog {
	return &FixtureCatalog{next: next, cache: cache}
}

func (r *FixtureCatalog) ListByGameweek(ctx context.Context, gameweek int) ([]fixture.Fixture, error) {
	key := "fixture:gameweek:" + strconv.Itoa(gameweek)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByGameweek(ctx, gameweek)
		if err != nil {
			return nil, err
		}
		return append([]fixture.Fixture(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fixture.Fixture)
	return append([]fixture.Fixture(nil), items...), nil
}

// InvalidateGameweek drops the cached list for one gameweek, forcing the
// next read through to the provider.
func (r *FixtureCatalog) InvalidateGameweek(ctx context.Context, gameweek int) {
	r.cache.Delete(ctx, "fixture:gameweek:"+strconv.Itoa(gameweek))
}

// InvalidateAll clears the whole fixture cache.
func (r *FixtureCatalog) InvalidateAll(ctx context.Context) {
	r.cache.Clear(ctx)
}
