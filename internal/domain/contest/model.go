package contest

import (
	"errors"
	"fmt"
	"time"
)

// PotState is the settlement lifecycle of one gameweek's pot.
type PotState string

const (
	// PotStateSeeded: pot initialized for its gameweek, no settlement yet.
	PotStateSeeded PotState = "SEEDED"
	// PotStateAwaiting: pot value fixed, gameweek in progress.
	PotStateAwaiting PotState = "AWAITING_SETTLEMENT"
	// PotStateSettledWon: settlement produced at least one winner.
	PotStateSettledWon PotState = "SETTLED_WON"
	// PotStateSettledNoWinner: settlement produced zero winners.
	PotStateSettledNoWinner PotState = "SETTLED_NO_WINNER"
)

var (
	ErrAlreadySettled   = errors.New("pot already settled for this gameweek")
	ErrNotSettled       = errors.New("pot has not been settled yet")
	ErrInvalidSeed      = errors.New("pot starting amount must be greater than zero")
	ErrBelowSeed        = errors.New("pot amount below starting amount")
	ErrNonConsecutiveGW = errors.New("pot advance must target the next gameweek")
)

// Pot is the prize at stake for one (contest, gameweek). Exactly one pot
// per contest is current at a time; advancing a contest produces the next
// gameweek's snapshot and demotes the previous one.
type Pot struct {
	ContestID      string
	Gameweek       int
	CurrentAmount  int64
	StartingAmount int64
	State          PotState
	Active         bool
	SettledAt      *time.Time
}

// NewSeededPot creates the first pot of a contest (or season).
func NewSeededPot(contestID string, gameweek int, startingAmount int64) (Pot, error) {
	if startingAmount <= 0 {
		return Pot{}, ErrInvalidSeed
	}
	if gameweek <= 0 {
		return Pot{}, fmt.Errorf("pot gameweek must be greater than zero, got %d", gameweek)
	}
	return Pot{
		ContestID:      contestID,
		Gameweek:       gameweek,
		CurrentAmount:  startingAmount,
		StartingAmount: startingAmount,
		State:          PotStateSeeded,
		Active:         true,
	}, nil
}

func (p Pot) IsSettled() bool {
	return p.State == PotStateSettledWon || p.State == PotStateSettledNoWinner
}

// Awaiting marks the pot's gameweek as in progress. No amount change.
func (p Pot) Awaiting() (Pot, error) {
	if p.IsSettled() {
		return Pot{}, fmt.Errorf("%w: contest=%s gameweek=%d", ErrAlreadySettled, p.ContestID, p.Gameweek)
	}
	p.State = PotStateAwaiting
	return p, nil
}

// Settle records the gameweek outcome. The pot amount is never mutated by
// settlement itself; rollover arithmetic happens on Advance.
func (p Pot) Settle(winnerCount int, at time.Time) (Pot, error) {
	if p.IsSettled() {
		return Pot{}, fmt.Errorf("%w: contest=%s gameweek=%d", ErrAlreadySettled, p.ContestID, p.Gameweek)
	}
	if winnerCount > 0 {
		p.State = PotStateSettledWon
	} else {
		p.State = PotStateSettledNoWinner
	}
	settledAt := at.UTC()
	p.SettledAt = &settledAt
	return p, nil
}

// Advance produces the next gameweek's seeded pot from a settled one: a
// full reset to StartingAmount after a win, an additive rollover after a
// winnerless week. The receiver is returned demoted (Active=false) so the
// caller can persist both snapshots.
func (p Pot) Advance(toGameweek int) (previous Pot, next Pot, err error) {
	if !p.IsSettled() {
		return Pot{}, Pot{}, fmt.Errorf("%w: contest=%s gameweek=%d", ErrNotSettled, p.ContestID, p.Gameweek)
	}
	if toGameweek != p.Gameweek+1 {
		return Pot{}, Pot{}, fmt.Errorf("%w: from=%d to=%d", ErrNonConsecutiveGW, p.Gameweek, toGameweek)
	}

	next = Pot{
		ContestID:      p.ContestID,
		Gameweek:       toGameweek,
		StartingAmount: p.StartingAmount,
		State:          PotStateSeeded,
		Active:         true,
	}
	switch p.State {
	case PotStateSettledWon:
		next.CurrentAmount = p.StartingAmount
	case PotStateSettledNoWinner:
		next.CurrentAmount = p.CurrentAmount + p.StartingAmount
	}

	if next.CurrentAmount < next.StartingAmount {
		return Pot{}, Pot{}, fmt.Errorf("%w: contest=%s amount=%d starting=%d",
			ErrBelowSeed, p.ContestID, next.CurrentAmount, next.StartingAmount)
	}

	p.Active = false
	return p, next, nil
}
