package winner

import (
	"sort"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/entry"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/fixture"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/player"
)

// Determine computes the qualifying subset of entries for a final result.
// An entry qualifies when its scoreline is exact and its scorer prediction
// matches the result: a goalless result requires an empty scorer, any other
// result requires a non-empty scorer whose canonical surname appears in the
// union of both teams' actual scorers. Ties are allowed; an empty return is
// the normal no-winner outcome, not an error.
func Determine(entries []entry.Entry, result fixture.Result) []Winner {
	winners := make([]Winner, 0, 2)
	for _, e := range entries {
		if !qualifies(e, result) {
			continue
		}
		winners = append(winners, Winner{
			Gameweek:           e.Gameweek,
			FixtureID:          e.FixtureID,
			ParticipantID:      e.ParticipantID,
			PredictedHomeScore: e.PredictedHomeScore,
			PredictedAwayScore: e.PredictedAwayScore,
			PredictedScorer:    e.PredictedScorer,
			SubmittedAt:        e.SubmittedAt,
		})
	}
	return winners
}

func qualifies(e entry.Entry, result fixture.Result) bool {
	if e.PredictedHomeScore != result.HomeScore || e.PredictedAwayScore != result.AwayScore {
		return false
	}

	predicted := player.CanonicalSurname(e.PredictedScorer)
	if result.IsGoalless() {
		return predicted == ""
	}
	if predicted == "" {
		return false
	}
	for _, scorer := range result.Scorers {
		if scorer.Surname != "" && scorer.Surname == predicted {
			return true
		}
	}
	return false
}

// Award splits the pot evenly across the winners. When the pot does not
// divide exactly, the remainder goes one unit at a time to the earliest
// submitters (largest-remainder-to-first-submitter); ties on submission
// time fall back to participant id so the split stays deterministic. The
// awarded total always equals the pot exactly.
func Award(winners []Winner, pot int64) []Winner {
	if len(winners) == 0 {
		return winners
	}

	ordered := make([]Winner, len(winners))
	copy(ordered, winners)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].SubmittedAt.Equal(ordered[j].SubmittedAt) {
			return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
		}
		return ordered[i].ParticipantID < ordered[j].ParticipantID
	})

	n := int64(len(ordered))
	base := pot / n
	remainder := pot % n
	for i := range ordered {
		ordered[i].AwardedAmount = base
		if int64(i) < remainder {
			ordered[i].AwardedAmount++
		}
	}
	return ordered
}
