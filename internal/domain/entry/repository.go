package entry

import "context"

// Repository stores predictions with last-write-wins semantics per Key.
type Repository interface {
	Upsert(ctx context.Context, e Entry) error
	Get(ctx context.Context, key Key) (Entry, bool, error)
	ListByFixture(ctx context.Context, fixtureID string, gameweek int) ([]Entry, error)
}
