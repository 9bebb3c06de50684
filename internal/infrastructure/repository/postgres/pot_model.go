package postgres

import "time"

type potTableModel struct {
	ID             int64      `db:"id"`
	ContestID      string     `db:"contest_id"`
	Gameweek       int        `db:"gameweek"`
	CurrentAmount  int64      `db:"current_amount"`
	StartingAmount int64      `db:"starting_amount"`
	State          string     `db:"state"`
	Active         bool       `db:"active"`
	SettledAt      *time.Time `db:"settled_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

type potInsertModel struct {
	ContestID      string     `db:"contest_id"`
	Gameweek       int        `db:"gameweek"`
	CurrentAmount  int64      `db:"current_amount"`
	StartingAmount int64      `db:"starting_amount"`
	State          string     `db:"state"`
	Active         bool       `db:"active"`
	SettledAt      *time.Time `db:"settled_at"`
}
