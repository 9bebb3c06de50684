package payout

import "errors"

var (
	ErrTooFewParticipants = errors.New("at least four participants are required")
	ErrInvalidEntryFee    = errors.New("entry fee must be greater than zero")
	ErrInvalidWeeks       = errors.New("side contest week counts must be greater than zero")
	ErrNoChipCategories   = errors.New("at least one chip category is required")
	ErrNotMonotonic       = errors.New("season winner amounts must be non-increasing")
	ErrReconciliation     = errors.New("payout structure does not reconcile with the total budget")
)

// Input is the full parameter set of the season budgeting calculator. The
// calculator is pure: identical inputs always produce identical output.
type Input struct {
	EntryFee         int64
	ParticipantCount int
	SideWeeksA       int
	SideWeeksB       int
	ChipCategories   []string
}

func (in Input) TotalBudget() int64 {
	return in.EntryFee * int64(in.ParticipantCount)
}

// Structure is the season prize schedule: a ranked one-time season payout
// plus two recurring weekly pools and per-category chip bonuses. The
// correctness contract is Reconcile: everything sums back to the budget.
type Structure struct {
	SeasonID       string
	SeasonWinners  []int64
	WeeklyAPerWeek int64
	WeeklyBPerWeek int64
	SideWeeksA     int
	SideWeeksB     int
	ChipBonuses    map[string]int64
	TotalBudget    int64
	Confirmed      bool
}

// Total is the sum of every amount the structure would pay out.
func (s Structure) Total() int64 {
	var total int64
	for _, amount := range s.SeasonWinners {
		total += amount
	}
	total += s.WeeklyAPerWeek * int64(s.SideWeeksA)
	total += s.WeeklyBPerWeek * int64(s.SideWeeksB)
	for _, amount := range s.ChipBonuses {
		total += amount
	}
	return total
}

// Reconcile enforces the closing invariant: the payout total must equal
// the budget within one unit, and season ranks must be non-increasing.
// A failing structure must never be persisted as confirmed.
func (s Structure) Reconcile() error {
	diff := s.Total() - s.TotalBudget
	if diff < -1 || diff > 1 {
		return ErrReconciliation
	}
	for i := 1; i < len(s.SeasonWinners); i++ {
		if s.SeasonWinners[i] > s.SeasonWinners[i-1] {
			return ErrNotMonotonic
		}
	}
	return nil
}
