package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestSummarize_NoSheets(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.GamesPlayed)
	assert.Equal(t, models.StatAverages{}, summary.Averages)
	assert.Equal(t, models.ShootingPercentages{}, summary.Percentages)
}

func TestSummarize_TotalsAveragesPercentages(t *testing.T) {
	sheets := []*models.PerformanceSheet{
		{
			PlayerID: 9, Date: day(1), Points: 20, Assists: 5, OffensiveRebounds: 2, DefensiveRebounds: 6,
			TwoPointersMade: 4, TwoPointersAttempted: 7, ThreePointersMade: 2, ThreePointersAttempted: 4,
			FreeThrowsMade: 1, FreeThrowsAttempted: 2, MinutesPlayed: 30, PlusMinus: 6,
		},
		{
			PlayerID: 9, Date: day(2), Points: 10, Assists: 1, OffensiveRebounds: 1, DefensiveRebounds: 3,
			TwoPointersMade: 3, TwoPointersAttempted: 5, ThreePointersMade: 1, ThreePointersAttempted: 2,
			FreeThrowsMade: 0, FreeThrowsAttempted: 0, MinutesPlayed: 20, PlusMinus: -10,
		},
	}

	summary := Summarize(sheets)

	assert.Equal(t, int64(9), summary.PlayerID)
	assert.Equal(t, 2, summary.GamesPlayed)
	assert.Equal(t, 30, summary.Totals.Points)
	assert.Equal(t, 12, summary.Totals.Rebounds)
	assert.Equal(t, -4, summary.Totals.PlusMinus)

	assert.InDelta(t, 15.0, summary.Averages.Points, 1e-9)
	assert.InDelta(t, 6.0, summary.Averages.Rebounds, 1e-9)
	assert.InDelta(t, -2.0, summary.Averages.PlusMinus, 1e-9)

	// 7/12 two-pointers, 3/6 three-pointers, 1/2 free throws, 10/18 field goals
	assert.Equal(t, 58, DisplayPercentage(summary.Percentages.TwoPoint))
	assert.Equal(t, 50, DisplayPercentage(summary.Percentages.ThreePoint))
	assert.Equal(t, 50, DisplayPercentage(summary.Percentages.FreeThrow))
	assert.Equal(t, 55, DisplayPercentage(summary.Percentages.FieldGoal))
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		made, attempted int
		display         int
	}{
		{7, 12, 58},
		{3, 6, 50},
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33},
		{2, 3, 66},
		{4, 4, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.display, DisplayPercentage(Percentage(tt.made, tt.attempted)), "%d/%d", tt.made, tt.attempted)
	}
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 0.0, Average(10, 0))
	assert.InDelta(t, 3.5, Average(7, 2), 1e-9)
}

func TestLastN(t *testing.T) {
	sheets := []*models.PerformanceSheet{
		{ID: 1, Date: day(3)},
		{ID: 2, Date: day(9)},
		{ID: 3, Date: day(5)},
		{ID: 4, Date: day(9)},
	}

	recent := LastN(sheets, DefaultRecentWindow)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(4), recent[0].ID, "same-day ties go to the newer id")
	assert.Equal(t, int64(2), recent[1].ID)
	assert.Equal(t, int64(1), sheets[0].ID, "input order is untouched")

	assert.Len(t, LastN(sheets, 10), 4)
	assert.Empty(t, LastN(sheets, 0))
	assert.Empty(t, LastN(nil, 2))
}
