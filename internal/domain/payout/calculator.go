package payout

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	seasonPoolFraction = 0.5
	sidePoolFraction   = 0.45
	paidFraction       = 0.20
	minCashFraction    = 0.20
	topTierFloorFactor = 1.30
	jitterSpread       = 0.10
)

// ComputeStructure partitions the season budget into the ranked season
// schedule, two recurring weekly pools, and chip bonuses. The algorithm
// works on a five-unit grid and conserves the budget by construction:
// whatever the weekly/chip units cannot absorb flows back into the season
// schedule, so the closing reconciliation holds exactly.
func ComputeStructure(in Input) (Structure, error) {
	return compute(in, seasonPoolFraction, sidePoolFraction, sidePoolFraction)
}

// ComputeStructureJittered is the explicitly-randomized "recalculate"
// variant: pool split fractions are perturbed by up to ±10% from a seeded
// source, then the same balancing and reconciliation run. Identical seeds
// yield identical structures; the deterministic path never consults
// randomness.
func ComputeStructureJittered(in Input, seed int64) (Structure, error) {
	rng := rand.New(rand.NewSource(seed))
	jitter := func(base float64) float64 {
		return base * (1 + (rng.Float64()*2-1)*jitterSpread)
	}
	seasonFrac := jitter(seasonPoolFraction)
	fracA := jitter(sidePoolFraction)
	fracB := jitter(sidePoolFraction)
	// Keep at least a sliver of chip-bonus pool.
	if fracA+fracB > 0.95 {
		scale := 0.95 / (fracA + fracB)
		fracA *= scale
		fracB *= scale
	}
	return compute(in, seasonFrac, fracA, fracB)
}

func compute(in Input, seasonFrac, fracA, fracB float64) (Structure, error) {
	if err := validateInput(in); err != nil {
		return Structure{}, err
	}

	total := in.TotalBudget()

	seasonPool := ceilToNearest(int64(math.Ceil(float64(total)*seasonFrac)), 10)
	if seasonPool > total {
		seasonPool = total
	}
	sidePool := total - seasonPool

	paidPositions := int(float64(in.ParticipantCount) * paidFraction)
	if paidPositions < 1 {
		paidPositions = 1
	}

	seasonWinners := allocateSeasonWinners(seasonPool, paidPositions, in.EntryFee)

	poolA := int64(float64(sidePool) * fracA)
	poolB := int64(float64(sidePool) * fracB)
	chipPool := sidePool - poolA - poolB

	weeklyA := floorToNearest(poolA/int64(in.SideWeeksA), 5)
	weeklyB := floorToNearest(poolB/int64(in.SideWeeksB), 5)
	chipCount := int64(len(in.ChipCategories))
	chipPer := floorToNearest(chipPool/chipCount, 5)

	// Clamp the three units down to their minimum; the chip bonus counts
	// double, so it is compared at half weight and restored at twice the
	// clamped unit.
	unit := weeklyA
	if weeklyB < unit {
		unit = weeklyB
	}
	if halfChip := floorToNearest(chipPer/2, 5); halfChip < unit {
		unit = halfChip
	}
	weeklyA = unit
	weeklyB = unit
	chipPer = 2 * unit

	paidRecurring := weeklyA*int64(in.SideWeeksA) + weeklyB*int64(in.SideWeeksB) + chipPer*chipCount
	leftover := sidePool - paidRecurring
	seasonWinners = distributeLeftover(seasonWinners, leftover)

	chipBonuses := make(map[string]int64, len(in.ChipCategories))
	for _, category := range in.ChipCategories {
		chipBonuses[category] = chipPer
	}

	structure := Structure{
		SeasonWinners:  seasonWinners,
		WeeklyAPerWeek: weeklyA,
		WeeklyBPerWeek: weeklyB,
		SideWeeksA:     in.SideWeeksA,
		SideWeeksB:     in.SideWeeksB,
		ChipBonuses:    chipBonuses,
		TotalBudget:    total,
	}
	if err := structure.Reconcile(); err != nil {
		return Structure{}, fmt.Errorf("%w: total=%d budget=%d", err, structure.Total(), total)
	}
	return structure, nil
}

func validateInput(in Input) error {
	if in.ParticipantCount < 4 {
		return fmt.Errorf("%w: got %d", ErrTooFewParticipants, in.ParticipantCount)
	}
	if in.EntryFee <= 0 {
		return ErrInvalidEntryFee
	}
	if in.SideWeeksA <= 0 || in.SideWeeksB <= 0 {
		return ErrInvalidWeeks
	}
	if len(in.ChipCategories) == 0 {
		return ErrNoChipCategories
	}
	return nil
}

// allocateSeasonWinners splits the season pool into paid ranked amounts:
// the bottom ~20% of paid positions receive exactly the entry fee (the
// flat min-cash tier) and the top tier shares the remainder in
// non-increasing amounts floored at 1.30x the entry fee, rounded to the
// five-unit grid. The returned amounts always sum to pool.
func allocateSeasonWinners(pool int64, paidPositions int, entryFee int64) []int64 {
	if paidPositions == 1 {
		return []int64{pool}
	}

	minCashCount := int(math.Round(float64(paidPositions) * minCashFraction))
	if minCashCount < 1 {
		minCashCount = 1
	}
	if minCashCount >= paidPositions {
		minCashCount = paidPositions - 1
	}

	topCount := paidPositions - minCashCount
	topPool := pool - int64(minCashCount)*entryFee
	tierFloor := roundToNearest(int64(math.Round(topTierFloorFactor*float64(entryFee))), 5)

	amounts := make([]int64, paidPositions)
	for i := topCount; i < paidPositions; i++ {
		amounts[i] = entryFee
	}

	if topPool < tierFloor*int64(topCount) {
		// Degenerate pool: fall back to an even split, residue to rank 1.
		each := topPool / int64(topCount)
		for i := 0; i < topCount; i++ {
			amounts[i] = each
		}
		amounts[0] += topPool - each*int64(topCount)
		return amounts
	}

	// Everyone in the top tier starts at the floor; the surplus is shared
	// by descending rank weight on the five-unit grid.
	surplus := topPool - tierFloor*int64(topCount)
	var weightSum int64
	for w := int64(1); w <= int64(topCount); w++ {
		weightSum += w
	}
	var assigned int64
	for i := 0; i < topCount; i++ {
		weight := int64(topCount - i)
		extra := floorToNearest(surplus*weight/weightSum, 5)
		amounts[i] = tierFloor + extra
		assigned += extra
	}
	amounts[0] += surplus - assigned
	return amounts
}

// distributeLeftover folds unallocated side-pool money back into the
// season schedule: five-unit increments cycling from rank 1, with any
// final sub-five residue landing on rank 1. Starting every cycle at rank 1
// preserves the non-increasing order.
func distributeLeftover(amounts []int64, leftover int64) []int64 {
	if leftover <= 0 || len(amounts) == 0 {
		return amounts
	}
	out := make([]int64, len(amounts))
	copy(out, amounts)

	i := 0
	for leftover >= 5 {
		out[i%len(out)] += 5
		leftover -= 5
		i++
	}
	out[0] += leftover
	return out
}

func roundToNearest(v, step int64) int64 {
	if step <= 0 {
		return v
	}
	half := step / 2
	return ((v + half) / step) * step
}

func floorToNearest(v, step int64) int64 {
	if step <= 0 || v <= 0 {
		return 0
	}
	return (v / step) * step
}

func ceilToNearest(v, step int64) int64 {
	if step <= 0 {
		return v
	}
	return ((v + step - 1) / step) * step
}
