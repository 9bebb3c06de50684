package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/winner"
)

type WinnerRepository struct {
	mu      sync.RWMutex
	records []winner.Winner
}

func NewWinnerRepository() *WinnerRepository {
	return &WinnerRepository{}
}

func (r *WinnerRepository) Append(_ context.Context, winners []winner.Winner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, winners...)
	return nil
}

func (r *WinnerRepository) ListByGameweek(_ context.Context, contestID string, gameweek int) ([]winner.Winner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]winner.Winner, 0)
	for _, w := range r.records {
		if w.ContestID == contestID && w.Gameweek == gameweek {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ParticipantID < out[j].ParticipantID
	})
	return out, nil
}
