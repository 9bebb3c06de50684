package postgres

import "time"

type winnerTableModel struct {
	ID                 int64     `db:"id"`
	ContestID          string    `db:"contest_id"`
	Gameweek           int       `db:"gameweek"`
	FixtureID          string    `db:"fixture_public_id"`
	ParticipantID      string    `db:"participant_id"`
	PredictedHomeScore int       `db:"predicted_home_score"`
	PredictedAwayScore int       `db:"predicted_away_score"`
	PredictedScorer    string    `db:"predicted_scorer"`
	SubmittedAt        time.Time `db:"submitted_at"`
	AwardedAmount      int64     `db:"awarded_amount"`
	CreatedAt          time.Time `db:"created_at"`
}

type winnerInsertModel struct {
	ContestID          string    `db:"contest_id"`
	Gameweek           int       `db:"gameweek"`
	FixtureID          string    `db:"fixture_public_id"`
	ParticipantID      string    `db:"participant_id"`
	PredictedHomeScore int       `db:"predicted_home_score"`
	PredictedAwayScore int       `db:"predicted_away_score"`
	PredictedScorer    string    `db:"predicted_scorer"`
	SubmittedAt        time.Time `db:"submitted_at"`
	AwardedAmount      int64     `db:"awarded_amount"`
}
