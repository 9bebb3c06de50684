package postgres

import (
	"time"

	"github.com/lib/pq"
)

type payoutTableModel struct {
	ID             int64         `db:"id"`
	SeasonID       string        `db:"season_id"`
	SeasonWinners  pq.Int64Array `db:"season_winners"`
	WeeklyAPerWeek int64         `db:"weekly_a_per_week"`
	WeeklyBPerWeek int64         `db:"weekly_b_per_week"`
	SideWeeksA     int           `db:"side_weeks_a"`
	SideWeeksB     int           `db:"side_weeks_b"`
	ChipBonuses    string        `db:"chip_bonuses"`
	TotalBudget    int64         `db:"total_budget"`
	Confirmed      bool          `db:"confirmed"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

type payoutInsertModel struct {
	SeasonID       string        `db:"season_id"`
	SeasonWinners  pq.Int64Array `db:"season_winners"`
	WeeklyAPerWeek int64         `db:"weekly_a_per_week"`
	WeeklyBPerWeek int64         `db:"weekly_b_per_week"`
	SideWeeksA     int           `db:"side_weeks_a"`
	SideWeeksB     int           `db:"side_weeks_b"`
	ChipBonuses    string        `db:"chip_bonuses"`
	TotalBudget    int64         `db:"total_budget"`
	Confirmed      bool          `db:"confirmed"`
}
