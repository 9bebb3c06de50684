package payout

import (
	"errors"
	"testing"
)

func defaultInput() Input {
	return Input{
		EntryFee:         50,
		ParticipantCount: 20,
		SideWeeksA:       38,
		SideWeeksB:       38,
		ChipCategories:   []string{"triple-captain", "bench-boost", "free-hit"},
	}
}

func TestComputeStructure_ReferenceSeason(t *testing.T) {
	t.Parallel()

	structure, err := ComputeStructure(defaultInput())
	if err != nil {
		t.Fatalf("ComputeStructure error: %v", err)
	}

	if structure.TotalBudget != 1000 {
		t.Fatalf("total budget: got %d want 1000", structure.TotalBudget)
	}
	if len(structure.SeasonWinners) != 4 {
		t.Fatalf("paid positions: got %d want 4", len(structure.SeasonWinners))
	}
	if got := structure.Total(); got != 1000 {
		t.Fatalf("structure must sum to the budget: got %d", got)
	}
	if structure.WeeklyAPerWeek != structure.WeeklyBPerWeek {
		t.Fatalf("clamped weekly units must match: A=%d B=%d", structure.WeeklyAPerWeek, structure.WeeklyBPerWeek)
	}
	for category, amount := range structure.ChipBonuses {
		if amount != 2*structure.WeeklyAPerWeek {
			t.Fatalf("chip bonus for %s must be twice the weekly unit: got %d", category, amount)
		}
	}
}

func TestComputeStructure_BudgetConservation(t *testing.T) {
	t.Parallel()

	cases := []Input{
		{EntryFee: 50, ParticipantCount: 20, SideWeeksA: 38, SideWeeksB: 38, ChipCategories: []string{"a", "b", "c"}},
		{EntryFee: 25, ParticipantCount: 8, SideWeeksA: 38, SideWeeksB: 38, ChipCategories: []string{"a"}},
		{EntryFee: 100, ParticipantCount: 4, SideWeeksA: 20, SideWeeksB: 18, ChipCategories: []string{"a", "b"}},
		{EntryFee: 75, ParticipantCount: 33, SideWeeksA: 38, SideWeeksB: 19, ChipCategories: []string{"a", "b", "c", "d"}},
		{EntryFee: 5, ParticipantCount: 100, SideWeeksA: 38, SideWeeksB: 38, ChipCategories: []string{"a", "b", "c"}},
	}

	for _, in := range cases {
		structure, err := ComputeStructure(in)
		if err != nil {
			t.Fatalf("ComputeStructure(%+v) error: %v", in, err)
		}
		diff := structure.Total() - in.TotalBudget()
		if diff < -1 || diff > 1 {
			t.Fatalf("budget conservation violated for %+v: total=%d budget=%d", in, structure.Total(), in.TotalBudget())
		}
	}
}

func TestComputeStructure_MonotonicSeasonRanks(t *testing.T) {
	t.Parallel()

	structure, err := ComputeStructure(defaultInput())
	if err != nil {
		t.Fatalf("ComputeStructure error: %v", err)
	}
	for i := 1; i < len(structure.SeasonWinners); i++ {
		if structure.SeasonWinners[i] > structure.SeasonWinners[i-1] {
			t.Fatalf("rank %d (%d) exceeds rank %d (%d)",
				i+1, structure.SeasonWinners[i], i, structure.SeasonWinners[i-1])
		}
	}
	last := structure.SeasonWinners[len(structure.SeasonWinners)-1]
	if last < defaultInput().EntryFee {
		t.Fatalf("bottom paid position must receive at least the entry fee, got %d", last)
	}
}

func TestComputeStructure_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := ComputeStructure(defaultInput())
	if err != nil {
		t.Fatalf("ComputeStructure error: %v", err)
	}
	second, _ := ComputeStructure(defaultInput())
	if first.Total() != second.Total() {
		t.Fatal("identical inputs must produce identical totals")
	}
	for i := range first.SeasonWinners {
		if first.SeasonWinners[i] != second.SeasonWinners[i] {
			t.Fatalf("rank %d differs between runs: %d vs %d", i+1, first.SeasonWinners[i], second.SeasonWinners[i])
		}
	}
}

func TestComputeStructure_Preconditions(t *testing.T) {
	t.Parallel()

	in := defaultInput()
	in.ParticipantCount = 3
	if _, err := ComputeStructure(in); !errors.Is(err, ErrTooFewParticipants) {
		t.Fatalf("three participants must fail the precondition, got %v", err)
	}

	in = defaultInput()
	in.EntryFee = 0
	if _, err := ComputeStructure(in); !errors.Is(err, ErrInvalidEntryFee) {
		t.Fatalf("zero entry fee must fail, got %v", err)
	}

	in = defaultInput()
	in.SideWeeksA = 0
	if _, err := ComputeStructure(in); !errors.Is(err, ErrInvalidWeeks) {
		t.Fatalf("zero side weeks must fail, got %v", err)
	}

	in = defaultInput()
	in.ChipCategories = nil
	if _, err := ComputeStructure(in); !errors.Is(err, ErrNoChipCategories) {
		t.Fatalf("missing chip categories must fail, got %v", err)
	}
}

func TestComputeStructureJittered_SeededAndConserving(t *testing.T) {
	t.Parallel()

	first, err := ComputeStructureJittered(defaultInput(), 42)
	if err != nil {
		t.Fatalf("ComputeStructureJittered error: %v", err)
	}
	second, err := ComputeStructureJittered(defaultInput(), 42)
	if err != nil {
		t.Fatalf("ComputeStructureJittered error: %v", err)
	}
	if first.Total() != second.Total() {
		t.Fatal("identical seeds must produce identical structures")
	}

	diff := first.Total() - first.TotalBudget
	if diff < -1 || diff > 1 {
		t.Fatalf("jittered structure must still reconcile: total=%d budget=%d", first.Total(), first.TotalBudget)
	}
	if err := first.Reconcile(); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
}

func TestStructureReconcile_RejectsImbalance(t *testing.T) {
	t.Parallel()

	s := Structure{
		SeasonWinners: []int64{100, 50},
		TotalBudget:   500,
	}
	if err := s.Reconcile(); !errors.Is(err, ErrReconciliation) {
		t.Fatalf("imbalanced structure must fail reconciliation, got %v", err)
	}

	s = Structure{
		SeasonWinners: []int64{50, 100},
		TotalBudget:   150,
	}
	if err := s.Reconcile(); !errors.Is(err, ErrNotMonotonic) {
		t.Fatalf("increasing ranks must fail, got %v", err)
	}
}

func TestAllocateSeasonWinners_MinCashTier(t *testing.T) {
	t.Parallel()

	amounts := allocateSeasonWinners(500, 4, 50)
	var total int64
	for _, amount := range amounts {
		total += amount
	}
	if total != 500 {
		t.Fatalf("season pool must be fully allocated: got %d", total)
	}
	if amounts[3] != 50 {
		t.Fatalf("bottom position must receive exactly the entry fee, got %d", amounts[3])
	}
	if amounts[2] < 65 {
		t.Fatalf("lowest top-tier position must be floored at 1.30x fee rounded to 5, got %d", amounts[2])
	}
}
