package memory

import (
	"time"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/fixture"
)

const (
	ContestIDWeeklyScore = "weekly-score-2025-26"
	SeasonID             = "2025-26"
)

func intp(v int) *int { return &v }

// SeedFixtures is a small slice of the 2025/26 season: a finished gameweek
// with goal events and an upcoming one still open for entries.
func SeedFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		{
			ID: "epl-2025-gw4-liv-ars", Gameweek: 4, CatalogOrder: 1,
			HomeTeamID: "liverpool", AwayTeamID: "arsenal",
			HomeTeam: "Liverpool", AwayTeam: "Arsenal",
			KickoffAt: time.Date(2025, 9, 6, 16, 30, 0, 0, time.UTC),
			HomeScore: intp(2), AwayScore: intp(1), Finished: true,
			GoalEvents: []fixture.GoalEvent{
				{TeamID: "liverpool", PlayerID: "epl-p-1011", PlayerName: "Mohamed Salah", Minute: 23},
				{TeamID: "arsenal", PlayerID: "epl-p-2044", PlayerName: "Bukayo Saka", Minute: 58},
				{TeamID: "liverpool", PlayerID: "epl-p-1011", PlayerName: "Mohamed Salah", Minute: 81},
			},
		},
		{
			ID: "epl-2025-gw4-eve-bha", Gameweek: 4, CatalogOrder: 2,
			HomeTeamID: "everton", AwayTeamID: "brighton",
			HomeTeam: "Everton", AwayTeam: "Brighton",
			KickoffAt: time.Date(2025, 9, 6, 14, 0, 0, 0, time.UTC),
			HomeScore: intp(0), AwayScore: intp(0), Finished: true,
		},
		{
			ID: "epl-2025-gw5-che-mun", Gameweek: 5, CatalogOrder: 1,
			HomeTeamID: "chelsea", AwayTeamID: "manchester-united",
			HomeTeam: "Chelsea", AwayTeam: "Manchester United",
			KickoffAt: time.Date(2025, 9, 13, 16, 30, 0, 0, time.UTC),
		},
		{
			ID: "epl-2025-gw5-whu-cry", Gameweek: 5, CatalogOrder: 2,
			HomeTeamID: "west-ham", AwayTeamID: "crystal-palace",
			HomeTeam: "West Ham United", AwayTeam: "Crystal Palace",
			KickoffAt: time.Date(2025, 9, 13, 14, 0, 0, 0, time.UTC),
		},
	}
}
