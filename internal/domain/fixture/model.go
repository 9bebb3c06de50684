package fixture

import (
	"errors"
	"fmt"
	"time"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/player"
)

var (
	ErrMissingID        = errors.New("fixture id is required")
	ErrMissingTeam      = errors.New("fixture team ids are required")
	ErrInvalidGameweek  = errors.New("fixture gameweek must be greater than zero")
	ErrScoreUnfinished  = errors.New("score present on unfinished fixture")
	ErrResultIncomplete = errors.New("finished fixture is missing a final score")
)

// GoalEvent is one scoring event from the upstream feed.
type GoalEvent struct {
	TeamID     string
	PlayerID   string
	PlayerName string
	Minute     int
}

// Fixture is one scheduled match within a gameweek. Fixtures are owned by
// the upstream catalog and are never mutated here; once Finished is set the
// record is treated as immutable. CatalogOrder is the explicit position of
// the fixture in the upstream schedule payload and is what "first fixture
// in catalog order" means everywhere in this package.
type Fixture struct {
	ID           string
	Gameweek     int
	CatalogOrder int
	HomeTeamID   string
	AwayTeamID   string
	HomeTeam     string
	AwayTeam     string
	KickoffAt    time.Time
	HomeScore    *int
	AwayScore    *int
	Finished     bool
	GoalEvents   []GoalEvent
}

// Result is the final outcome of a finished fixture. Scorers is the union
// of both teams' goal scorers.
type Result struct {
	HomeScore int
	AwayScore int
	Scorers   []player.Ref
}

func (r Result) IsGoalless() bool {
	return r.HomeScore == 0 && r.AwayScore == 0
}

// Validate rejects a single malformed catalog record. Callers skip invalid
// records rather than aborting the whole gameweek batch.
func (f Fixture) Validate() error {
	if f.ID == "" {
		return ErrMissingID
	}
	if f.HomeTeamID == "" || f.AwayTeamID == "" {
		return fmt.Errorf("%w: fixture=%s", ErrMissingTeam, f.ID)
	}
	if f.Gameweek <= 0 {
		return fmt.Errorf("%w: fixture=%s", ErrInvalidGameweek, f.ID)
	}
	if !f.Finished && (f.HomeScore != nil || f.AwayScore != nil) {
		return fmt.Errorf("%w: fixture=%s", ErrScoreUnfinished, f.ID)
	}
	return nil
}

// FinalResult returns the match result once the fixture has finished.
func (f Fixture) FinalResult() (Result, error) {
	if !f.Finished {
		return Result{}, fmt.Errorf("fixture %s has not finished", f.ID)
	}
	if f.HomeScore == nil || f.AwayScore == nil {
		return Result{}, fmt.Errorf("%w: fixture=%s", ErrResultIncomplete, f.ID)
	}

	scorers := make([]player.Ref, 0, len(f.GoalEvents))
	for _, event := range f.GoalEvents {
		scorers = append(scorers, player.NewRef(event.PlayerID, event.PlayerName))
	}

	return Result{
		HomeScore: *f.HomeScore,
		AwayScore: *f.AwayScore,
		Scorers:   scorers,
	}, nil
}
