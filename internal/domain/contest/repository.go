package contest

import "context"

// PotRepository stores pot snapshots keyed by (contestID, gameweek). The
// Active flag marks the single current snapshot per contest.
type PotRepository interface {
	Upsert(ctx context.Context, pot Pot) error
	Get(ctx context.Context, contestID string, gameweek int) (Pot, bool, error)
	GetCurrent(ctx context.Context, contestID string) (Pot, bool, error)
	ListByContest(ctx context.Context, contestID string) ([]Pot, error)
}
