// Package stats derives totals, averages, shooting percentages, chart series
// and match records from stored performance sheets and events.
package stats

import (
	"sort"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// DefaultRecentWindow is how many sheets LastN shows on the summary screen.
const DefaultRecentWindow = 2

// Summarize aggregates sheets into totals, per-game averages and shooting
// percentages. Every sheet counts as one game. With no sheets, averages and
// percentages are zero. The sheets are expected to belong to one player.
func Summarize(sheets []*models.PerformanceSheet) models.PlayerStatsSummary {
	var t models.StatTotals
	for _, s := range sheets {
		t.Points += s.Points
		t.Assists += s.Assists
		t.OffensiveRebounds += s.OffensiveRebounds
		t.DefensiveRebounds += s.DefensiveRebounds
		t.Steals += s.Steals
		t.Blocks += s.Blocks
		t.Turnovers += s.Turnovers
		t.Fouls += s.Fouls
		t.TwoPointersMade += s.TwoPointersMade
		t.TwoPointersAttempted += s.TwoPointersAttempted
		t.ThreePointersMade += s.ThreePointersMade
		t.ThreePointersAttempted += s.ThreePointersAttempted
		t.FreeThrowsMade += s.FreeThrowsMade
		t.FreeThrowsAttempted += s.FreeThrowsAttempted
		t.MinutesPlayed += s.MinutesPlayed
		t.PlusMinus += s.PlusMinus
	}
	t.Rebounds = t.OffensiveRebounds + t.DefensiveRebounds

	var playerID int64
	if len(sheets) > 0 {
		playerID = sheets[0].PlayerID
	}

	games := len(sheets)
	avg := func(total int) float64 { return Average(total, games) }

	return models.PlayerStatsSummary{
		PlayerID:    playerID,
		GamesPlayed: games,
		Totals:      t,
		Averages: models.StatAverages{
			Points:            avg(t.Points),
			Assists:           avg(t.Assists),
			Rebounds:          avg(t.Rebounds),
			OffensiveRebounds: avg(t.OffensiveRebounds),
			DefensiveRebounds: avg(t.DefensiveRebounds),
			Steals:            avg(t.Steals),
			Blocks:            avg(t.Blocks),
			Turnovers:         avg(t.Turnovers),
			Fouls:             avg(t.Fouls),
			MinutesPlayed:     avg(t.MinutesPlayed),
			PlusMinus:         avg(t.PlusMinus),
		},
		Percentages: models.ShootingPercentages{
			TwoPoint:   Percentage(t.TwoPointersMade, t.TwoPointersAttempted),
			ThreePoint: Percentage(t.ThreePointersMade, t.ThreePointersAttempted),
			FreeThrow:  Percentage(t.FreeThrowsMade, t.FreeThrowsAttempted),
			FieldGoal: Percentage(
				t.TwoPointersMade+t.ThreePointersMade,
				t.TwoPointersAttempted+t.ThreePointersAttempted,
			),
		},
	}
}

// Average returns total/games, or 0 when games is 0.
func Average(total, games int) float64 {
	if games == 0 {
		return 0
	}
	return float64(total) / float64(games)
}

// Percentage returns made/attempted*100, or 0 when attempted is 0.
func Percentage(made, attempted int) float64 {
	if attempted == 0 {
		return 0
	}
	return float64(made) / float64(attempted) * 100
}

// DisplayPercentage truncates a percentage to a whole number for display.
func DisplayPercentage(p float64) int {
	return int(p)
}

// LastN returns the n most recently dated sheets, newest first.
// The input is not modified.
func LastN(sheets []*models.PerformanceSheet, n int) []*models.PerformanceSheet {
	if n <= 0 {
		return []*models.PerformanceSheet{}
	}

	sorted := newestFirst(sheets)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func newestFirst(sheets []*models.PerformanceSheet) []*models.PerformanceSheet {
	sorted := make([]*models.PerformanceSheet, len(sheets))
	copy(sorted, sheets)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}
