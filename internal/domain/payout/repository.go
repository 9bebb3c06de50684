package payout

import "context"

// Repository stores one structure per season. A confirmed structure is
// frozen; edits require an explicit unfreeze upstream.
type Repository interface {
	Upsert(ctx context.Context, s Structure) error
	GetBySeason(ctx context.Context, seasonID string) (Structure, bool, error)
}
