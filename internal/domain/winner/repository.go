package winner

import "context"

// Repository appends winner records per settlement run and reads them back
// per gameweek.
type Repository interface {
	Append(ctx context.Context, winners []Winner) error
	ListByGameweek(ctx context.Context, contestID string, gameweek int) ([]Winner, error)
}
