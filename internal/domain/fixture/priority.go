package fixture

import "sort"

// unrankedPosition sorts after every real position in a priority list, so a
// team missing from a list ranks last instead of failing selection.
const unrankedPosition = 1 << 20

// TierConfig holds the fixed team sets and priority orderings that drive
// featured-fixture selection. The selection must be reproducible by anyone
// holding the same config and fixture list, so every input here is an
// explicit ordered list rather than derived state.
type TierConfig struct {
	// Tier1 and Tier2 are team-id sets; Tier2 is the smaller secondary set.
	Tier1 []string
	Tier2 []string
	// HomePriority ranks tier-1 teams for the home role; AwayPriority
	// breaks ties on the away side.
	HomePriority []string
	AwayPriority []string
}

// DefaultTierConfig mirrors the club ordering the weekly contest has always
// used: the traditional big clubs first, then the chasing pack.
func DefaultTierConfig() TierConfig {
	return TierConfig{
		Tier1: []string{
			"liverpool", "arsenal", "manchester-city", "manchester-united",
			"chelsea", "tottenham", "newcastle", "aston-villa",
		},
		Tier2: []string{
			"west-ham", "brighton", "everton", "crystal-palace",
		},
		HomePriority: []string{
			"liverpool", "arsenal", "manchester-city", "chelsea",
			"manchester-united", "tottenham", "newcastle", "aston-villa",
		},
		AwayPriority: []string{
			"manchester-united", "liverpool", "arsenal", "tottenham",
			"chelsea", "manchester-city", "aston-villa", "newcastle",
		},
	}
}

type tierIndex struct {
	tier1    map[string]struct{}
	tier2    map[string]struct{}
	homeRank map[string]int
	awayRank map[string]int
}

func buildTierIndex(cfg TierConfig) tierIndex {
	idx := tierIndex{
		tier1:    make(map[string]struct{}, len(cfg.Tier1)),
		tier2:    make(map[string]struct{}, len(cfg.Tier2)),
		homeRank: make(map[string]int, len(cfg.HomePriority)),
		awayRank: make(map[string]int, len(cfg.AwayPriority)),
	}
	for _, id := range cfg.Tier1 {
		idx.tier1[id] = struct{}{}
	}
	for _, id := range cfg.Tier2 {
		idx.tier2[id] = struct{}{}
	}
	for i, id := range cfg.HomePriority {
		idx.homeRank[id] = i
	}
	for i, id := range cfg.AwayPriority {
		idx.awayRank[id] = i
	}
	return idx
}

func (idx tierIndex) rankHome(teamID string) int {
	if rank, ok := idx.homeRank[teamID]; ok {
		return rank
	}
	return unrankedPosition
}

func (idx tierIndex) rankAway(teamID string) int {
	if rank, ok := idx.awayRank[teamID]; ok {
		return rank
	}
	return unrankedPosition
}

func (idx tierIndex) isTier1(teamID string) bool {
	_, ok := idx.tier1[teamID]
	return ok
}

func (idx tierIndex) isTier2(teamID string) bool {
	_, ok := idx.tier2[teamID]
	return ok
}

// SelectFeatured picks exactly one featured fixture for a gameweek via a
// five-tier cascade; each tier is only consulted when the previous one has
// no candidates. The order is strict and total: two callers holding the
// same fixture set and config always agree. Returns false only for an
// empty fixture list.
func SelectFeatured(fixtures []Fixture, cfg TierConfig) (Fixture, bool) {
	if len(fixtures) == 0 {
		return Fixture{}, false
	}

	ordered := make([]Fixture, len(fixtures))
	copy(ordered, fixtures)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CatalogOrder < ordered[j].CatalogOrder
	})

	idx := buildTierIndex(cfg)

	// Tier 1: both sides tier-1; best home-priority rank wins.
	if picked, ok := pickByRank(ordered, func(f Fixture) bool {
		return idx.isTier1(f.HomeTeamID) && idx.isTier1(f.AwayTeamID)
	}, func(f Fixture) (int, int) {
		return idx.rankHome(f.HomeTeamID), 0
	}); ok {
		return picked, true
	}

	// Tier 2: tier-1 home vs tier-2 away; home rank, then away rank.
	if picked, ok := pickByRank(ordered, func(f Fixture) bool {
		return idx.isTier1(f.HomeTeamID) && idx.isTier2(f.AwayTeamID)
	}, func(f Fixture) (int, int) {
		return idx.rankHome(f.HomeTeamID), idx.rankAway(f.AwayTeamID)
	}); ok {
		return picked, true
	}

	// Tier 3: tier-1 home against anyone.
	if picked, ok := pickByRank(ordered, func(f Fixture) bool {
		return idx.isTier1(f.HomeTeamID)
	}, func(f Fixture) (int, int) {
		return idx.rankHome(f.HomeTeamID), 0
	}); ok {
		return picked, true
	}

	// Tier 4: tier-1 away against anyone; the home-priority list is reused
	// for the away side.
	if picked, ok := pickByRank(ordered, func(f Fixture) bool {
		return idx.isTier1(f.AwayTeamID)
	}, func(f Fixture) (int, int) {
		return idx.rankHome(f.AwayTeamID), 0
	}); ok {
		return picked, true
	}

	// Tier 5: any tier-2 involvement, first in catalog order.
	for _, f := range ordered {
		if idx.isTier2(f.HomeTeamID) || idx.isTier2(f.AwayTeamID) {
			return f, true
		}
	}

	return ordered[0], true
}

// pickByRank returns the matching fixture with the smallest (primary,
// secondary) rank pair. Catalog order settles exact rank ties because the
// input is pre-sorted and the comparison is strict.
func pickByRank(ordered []Fixture, match func(Fixture) bool, rank func(Fixture) (int, int)) (Fixture, bool) {
	var (
		best          Fixture
		bestPrimary   int
		bestSecondary int
		found         bool
	)
	for _, f := range ordered {
		if !match(f) {
			continue
		}
		primary, secondary := rank(f)
		if !found || primary < bestPrimary || (primary == bestPrimary && secondary < bestSecondary) {
			best = f
			bestPrimary = primary
			bestSecondary = secondary
			found = true
		}
	}
	return best, found
}
