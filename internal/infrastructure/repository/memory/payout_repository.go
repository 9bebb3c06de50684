package memory

import (
	"context"
	"sync"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/payout"
)

type PayoutRepository struct {
	mu         sync.RWMutex
	structures map[string]payout.Structure
}

func NewPayoutRepository() *PayoutRepository {
	return &PayoutRepository{structures: make(map[string]payout.Structure)}
}

func (r *PayoutRepository) Upsert(_ context.Context, structure payout.Structure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.structures[structure.SeasonID] = structure
	return nil
}

func (r *PayoutRepository) GetBySeason(_ context.Context, seasonID string) (payout.Structure, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	structure, ok := r.structures[seasonID]
	return structure, ok, nil
}
