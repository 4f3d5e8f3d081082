package models

import "time"

// PlayerStats mirrors a performance sheet for preview screens. It is never
// persisted.
type PlayerStats struct {
	Date                   time.Time `json:"date"`
	Points                 int       `json:"points"`
	Assists                int       `json:"assists"`
	Rebounds               int       `json:"rebounds"`
	OffensiveRebounds      int       `json:"offensive_rebounds"`
	DefensiveRebounds      int       `json:"defensive_rebounds"`
	Steals                 int       `json:"steals"`
	Blocks                 int       `json:"blocks"`
	Turnovers              int       `json:"turnovers"`
	Fouls                  int       `json:"fouls"`
	TwoPointersMade        int       `json:"two_pointers_made"`
	TwoPointersAttempted   int       `json:"two_pointers_attempted"`
	ThreePointersMade      int       `json:"three_pointers_made"`
	ThreePointersAttempted int       `json:"three_pointers_attempted"`
	FreeThrowsMade         int       `json:"free_throws_made"`
	FreeThrowsAttempted    int       `json:"free_throws_attempted"`
	MinutesPlayed          int       `json:"minutes_played"`
	PlusMinus              int       `json:"plus_minus"`
}

// StatsFromSheet copies a sheet into its preview shape.
func StatsFromSheet(s *PerformanceSheet) PlayerStats {
	return PlayerStats{
		Date:                   s.Date,
		Points:                 s.Points,
		Assists:                s.Assists,
		Rebounds:               s.Rebounds(),
		OffensiveRebounds:      s.OffensiveRebounds,
		DefensiveRebounds:      s.DefensiveRebounds,
		Steals:                 s.Steals,
		Blocks:                 s.Blocks,
		Turnovers:              s.Turnovers,
		Fouls:                  s.Fouls,
		TwoPointersMade:        s.TwoPointersMade,
		TwoPointersAttempted:   s.TwoPointersAttempted,
		ThreePointersMade:      s.ThreePointersMade,
		ThreePointersAttempted: s.ThreePointersAttempted,
		FreeThrowsMade:         s.FreeThrowsMade,
		FreeThrowsAttempted:    s.FreeThrowsAttempted,
		MinutesPlayed:          s.MinutesPlayed,
		PlusMinus:              s.PlusMinus,
	}
}

// StatTotals holds summed counting stats.
type StatTotals struct {
	Points                 int `json:"points"`
	Assists                int `json:"assists"`
	Rebounds               int `json:"rebounds"`
	OffensiveRebounds      int `json:"offensive_rebounds"`
	DefensiveRebounds      int `json:"defensive_rebounds"`
	Steals                 int `json:"steals"`
	Blocks                 int `json:"blocks"`
	Turnovers              int `json:"turnovers"`
	Fouls                  int `json:"fouls"`
	TwoPointersMade        int `json:"two_pointers_made"`
	TwoPointersAttempted   int `json:"two_pointers_attempted"`
	ThreePointersMade      int `json:"three_pointers_made"`
	ThreePointersAttempted int `json:"three_pointers_attempted"`
	FreeThrowsMade         int `json:"free_throws_made"`
	FreeThrowsAttempted    int `json:"free_throws_attempted"`
	MinutesPlayed          int `json:"minutes_played"`
	PlusMinus              int `json:"plus_minus"`
}

// StatAverages holds per-game averages.
type StatAverages struct {
	Points            float64 `json:"points"`
	Assists           float64 `json:"assists"`
	Rebounds          float64 `json:"rebounds"`
	OffensiveRebounds float64 `json:"offensive_rebounds"`
	DefensiveRebounds float64 `json:"defensive_rebounds"`
	Steals            float64 `json:"steals"`
	Blocks            float64 `json:"blocks"`
	Turnovers         float64 `json:"turnovers"`
	Fouls             float64 `json:"fouls"`
	MinutesPlayed     float64 `json:"minutes_played"`
	PlusMinus         float64 `json:"plus_minus"`
}

// ShootingPercentages holds made/attempted x 100 per shot category.
type ShootingPercentages struct {
	TwoPoint   float64 `json:"two_point"`
	ThreePoint float64 `json:"three_point"`
	FreeThrow  float64 `json:"free_throw"`
	FieldGoal  float64 `json:"field_goal"`
}

// PlayerStatsSummary aggregates a player's sheets. It is computed on read.
type PlayerStatsSummary struct {
	PlayerID    int64               `json:"player_id"`
	GamesPlayed int                 `json:"games_played"`
	Totals      StatTotals          `json:"totals"`
	Averages    StatAverages        `json:"averages"`
	Percentages ShootingPercentages `json:"percentages"`
}
