package postgres

import "time"

type entryTableModel struct {
	ID                 int64      `db:"id"`
	ParticipantID      string     `db:"participant_id"`
	FixtureID          string     `db:"fixture_public_id"`
	Gameweek           int        `db:"gameweek"`
	PredictedHomeScore int        `db:"predicted_home_score"`
	PredictedAwayScore int        `db:"predicted_away_score"`
	PredictedScorer    string     `db:"predicted_scorer"`
	SubmittedAt        time.Time  `db:"submitted_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	DeletedAt          *time.Time `db:"deleted_at"`
}

type entryInsertModel struct {
	ParticipantID      string    `db:"participant_id"`
	FixtureID          string    `db:"fixture_public_id"`
	Gameweek           int       `db:"gameweek"`
	PredictedHomeScore int       `db:"predicted_home_score"`
	PredictedAwayScore int       `db:"predicted_away_score"`
	PredictedScorer    string    `db:"predicted_scorer"`
	SubmittedAt        time.Time `db:"submitted_at"`
}
