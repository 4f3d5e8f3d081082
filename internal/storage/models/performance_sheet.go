package models

import (
	"fmt"
	"time"
)

// PerformanceSheet is a dated record of a player's counting statistics,
// optionally tied to an Event.
type PerformanceSheet struct {
	ID       int64     `json:"id"`
	Date     time.Time `json:"date"` // Day granularity
	PlayerID int64     `json:"player_id"`
	EventID  *int64    `json:"event_id,omitempty"` // Nullable, not enforced

	Points                 int `json:"points"`
	Assists                int `json:"assists"`
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
	PlusMinus              int `json:"plus_minus"` // May be negative
}

// Rebounds returns offensive plus defensive rebounds.
func (s *PerformanceSheet) Rebounds() int {
	return s.OffensiveRebounds + s.DefensiveRebounds
}

// Validate checks that every counting stat is non-negative.
// Plus-minus is exempt, and made <= attempted is deliberately not checked.
func (s *PerformanceSheet) Validate() error {
	counts := []struct {
		name  string
		value int
	}{
		{"points", s.Points},
		{"assists", s.Assists},
		{"offensive_rebounds", s.OffensiveRebounds},
		{"defensive_rebounds", s.DefensiveRebounds},
		{"steals", s.Steals},
		{"blocks", s.Blocks},
		{"turnovers", s.Turnovers},
		{"fouls", s.Fouls},
		{"two_pointers_made", s.TwoPointersMade},
		{"two_pointers_attempted", s.TwoPointersAttempted},
		{"three_pointers_made", s.ThreePointersMade},
		{"three_pointers_attempted", s.ThreePointersAttempted},
		{"free_throws_made", s.FreeThrowsMade},
		{"free_throws_attempted", s.FreeThrowsAttempted},
		{"minutes_played", s.MinutesPlayed},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("%s cannot be negative (got %d)", c.name, c.value)
		}
	}
	return nil
}
