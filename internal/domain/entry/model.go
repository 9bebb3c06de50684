package entry

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingParticipant = errors.New("entry participant id is required")
	ErrMissingFixture     = errors.New("entry fixture id is required")
	ErrInvalidGameweek    = errors.New("entry gameweek must be greater than zero")
	ErrNegativeScore      = errors.New("predicted scores must not be negative")
	ErrAfterKickoff       = errors.New("entry submitted after kickoff")
)

// Entry is one participant's prediction for the featured fixture of a
// gameweek. The key (ParticipantID, FixtureID, Gameweek) is unique and a
// later submission overwrites an earlier one; at most one live entry exists
// per key. Intake rejects submissions after kickoff, but settlement still
// treats late records as invalid input if they ever appear.
type Entry struct {
	ParticipantID      string
	FixtureID          string
	Gameweek           int
	PredictedHomeScore int
	PredictedAwayScore int
	// PredictedScorer is the canonical display form ("First Last - TEAM
	// POS") or empty for a goalless prediction.
	PredictedScorer string
	SubmittedAt     time.Time
}

// Key is the unique identity of a live entry.
type Key struct {
	ParticipantID string
	FixtureID     string
	Gameweek      int
}

func (e Entry) Key() Key {
	return Key{
		ParticipantID: e.ParticipantID,
		FixtureID:     e.FixtureID,
		Gameweek:      e.Gameweek,
	}
}

// Validate rejects a single malformed entry; batch callers skip the record
// and keep going.
func (e Entry) Validate() error {
	if e.ParticipantID == "" {
		return ErrMissingParticipant
	}
	if e.FixtureID == "" {
		return fmt.Errorf("%w: participant=%s", ErrMissingFixture, e.ParticipantID)
	}
	if e.Gameweek <= 0 {
		return fmt.Errorf("%w: participant=%s", ErrInvalidGameweek, e.ParticipantID)
	}
	if e.PredictedHomeScore < 0 || e.PredictedAwayScore < 0 {
		return fmt.Errorf("%w: participant=%s", ErrNegativeScore, e.ParticipantID)
	}
	return nil
}
