package winner

import "time"

// Winner is one qualifying entry for a settled gameweek. Records are
// created only by Determine and are immutable once appended; AwardedAmount
// is filled in by Award once the gameweek's pot value is known.
type Winner struct {
	ContestID          string
	Gameweek           int
	FixtureID          string
	ParticipantID      string
	PredictedHomeScore int
	PredictedAwayScore int
	PredictedScorer    string
	SubmittedAt        time.Time
	AwardedAmount      int64
}
