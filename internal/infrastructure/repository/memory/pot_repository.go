package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/contest"
)

type potKey struct {
	contestID string
	gameweek  int
}

type PotRepository struct {
	mu   sync.RWMutex
	pots map[potKey]contest.Pot
}

func NewPotRepository() *PotRepository {
	return &PotRepository{pots: make(map[potKey]contest.Pot)}
}

func (r *PotRepository) Upsert(_ context.Context, pot contest.Pot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pots[potKey{contestID: pot.ContestID, gameweek: pot.Gameweek}] = pot
	return nil
}

func (r *PotRepository) Get(_ context.Context, contestID string, gameweek int) (contest.Pot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pot, ok := r.pots[potKey{contestID: contestID, gameweek: gameweek}]
	return pot, ok, nil
}

func (r *PotRepository) GetCurrent(_ context.Context, contestID string) (contest.Pot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, pot := range r.pots {
		if pot.ContestID == contestID && pot.Active {
			return pot, true, nil
		}
	}
	return contest.Pot{}, false, nil
}

func (r *PotRepository) ListByContest(_ context.Context, contestID string) ([]contest.Pot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contest.Pot, 0)
	for _, pot := range r.pots {
		if pot.ContestID == contestID {
			out = append(out, pot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Gameweek < out[j].Gameweek
	})
	return out, nil
}
