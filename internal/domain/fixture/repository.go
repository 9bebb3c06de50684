package fixture

import "context"

// Catalog exposes read-only access to the upstream fixture schedule.
type Catalog interface {
	ListByGameweek(ctx context.Context, gameweek int) ([]Fixture, error)
}
