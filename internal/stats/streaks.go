package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// StreakStats holds win/loss streaks over scored matches.
type StreakStats struct {
	// CurrentStreak is positive for wins, negative for losses, 0 after a draw.
	CurrentStreak     int `json:"current_streak"`
	LongestWinStreak  int `json:"longest_win_streak"`
	LongestLossStreak int `json:"longest_loss_streak"`
}

// MatchRecordStats counts scored match outcomes.
type MatchRecordStats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// Played returns the number of scored matches.
func (r MatchRecordStats) Played() int {
	return r.Wins + r.Losses + r.Draws
}

// WinRate returns wins as a percentage of scored matches.
func (r MatchRecordStats) WinRate() float64 {
	return Percentage(r.Wins, r.Played())
}

// scoredChronological returns scored matches, oldest first.
func scoredChronological(events []*models.Event) []*models.Event {
	scored := make([]*models.Event, 0, len(events))
	for _, e := range events {
		if e.IsScored() {
			scored = append(scored, e)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Timestamp.Before(scored[j].Timestamp)
	})
	return scored
}

// CalculateStreaks computes streaks over scored matches in time order.
// Training sessions and unscored matches are skipped. A draw breaks both streaks.
func CalculateStreaks(events []*models.Event) StreakStats {
	var stats StreakStats
	wins, losses := 0, 0

	for _, e := range scoredChronological(events) {
		switch e.Outcome() {
		case models.OutcomeWin:
			wins++
			losses = 0
			stats.LongestWinStreak = max(stats.LongestWinStreak, wins)
		case models.OutcomeLoss:
			losses++
			wins = 0
			stats.LongestLossStreak = max(stats.LongestLossStreak, losses)
		default:
			wins, losses = 0, 0
		}
	}

	switch {
	case wins > 0:
		stats.CurrentStreak = wins
	case losses > 0:
		stats.CurrentStreak = -losses
	}
	return stats
}

// MatchRecord counts wins, losses and draws over scored matches.
func MatchRecord(events []*models.Event) MatchRecordStats {
	var r MatchRecordStats
	for _, e := range events {
		switch e.Outcome() {
		case models.OutcomeWin:
			r.Wins++
		case models.OutcomeLoss:
			r.Losses++
		case models.OutcomeDraw:
			r.Draws++
		}
	}
	return r
}

// FormatCurrentStreak describes a streak in Spanish.
func FormatCurrentStreak(streak int) string {
	switch {
	case streak == 0:
		return "Sin racha activa"
	case streak == 1:
		return "1 victoria seguida"
	case streak > 1:
		return fmt.Sprintf("%d victorias seguidas", streak)
	case streak == -1:
		return "1 derrota seguida"
	default:
		return fmt.Sprintf("%d derrotas seguidas", -streak)
	}
}

// LastMatch returns the most recent scored match, or nil.
func LastMatch(events []*models.Event) *models.Event {
	var last *models.Event
	var at time.Time
	for _, e := range events {
		if e.IsScored() && (last == nil || e.Timestamp.After(at)) {
			last, at = e, e.Timestamp
		}
	}
	return last
}
