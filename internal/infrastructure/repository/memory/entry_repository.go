package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/entry"
)

type EntryRepository struct {
	mu      sync.RWMutex
	entries map[entry.Key]entry.Entry
}

func NewEntryRepository() *EntryRepository {
	return &EntryRepository{entries: make(map[entry.Key]entry.Entry)}
}

func (r *EntryRepository) Upsert(_ context.Context, e entry.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Key()] = e
	return nil
}

func (r *EntryRepository) Get(_ context.Context, key entry.Key) (entry.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	return e, ok, nil
}

func (r *EntryRepository) ListByFixture(_ context.Context, fixtureID string, gameweek int) ([]entry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entry.Entry, 0)
	for _, e := range r.entries {
		if e.FixtureID == fixtureID && e.Gameweek == gameweek {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ParticipantID < out[j].ParticipantID
	})
	return out, nil
}
