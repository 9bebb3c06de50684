package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/fixture"
)

// FixtureCatalog serves fixtures from a static snapshot, for local runs and
// tests where the sports data provider is out of reach.
type FixtureCatalog struct {
	mu         sync.RWMutex
	byGameweek map[int][]fixture.Fixture
}

func NewFixtureCatalog(fixtures []fixture.Fixture) *FixtureCatalog {
	byGameweek := make(map[int][]fixture.Fixture)
	for _, item := range fixtures {
		byGameweek[item.Gameweek] = append(byGameweek[item.Gameweek], item)
	}
	return &FixtureCatalog{byGameweek: byGameweek}
}

func (r *FixtureCatalog) ListByGameweek(_ context.Context, gameweek int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byGameweek[gameweek]
	out := make([]fixture.Fixture, 0, len(items))
	out = append(out, items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CatalogOrder < out[j].CatalogOrder
	})
	return out, nil
}

// Replace swaps the snapshot for a gameweek, keeping other gameweeks as-is.
func (r *FixtureCatalog) Replace(gameweek int, fixtures []fixture.Fixture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byGameweek[gameweek] = append([]fixture.Fixture(nil), fixtures...)
}
