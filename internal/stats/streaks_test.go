package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

func match(hour int, team, opponent int) *models.Event {
	return &models.Event{
		Type:          models.EventTypeMatch,
		Timestamp:     time.Date(2025, 1, 1, hour, 0, 0, 0, time.UTC),
		TeamScore:     models.IntPtr(team),
		OpponentScore: models.IntPtr(opponent),
	}
}

func TestCalculateStreaks(t *testing.T) {
	training := &models.Event{Type: models.EventTypeTraining, Timestamp: time.Date(2025, 1, 1, 3, 30, 0, 0, time.UTC)}
	unscored := &models.Event{Type: models.EventTypeMatch, Timestamp: time.Date(2025, 1, 1, 4, 30, 0, 0, time.UTC)}

	tests := []struct {
		name   string
		events []*models.Event
		want   StreakStats
	}{
		{
			name:   "no events",
			events: nil,
			want:   StreakStats{},
		},
		{
			name:   "single win",
			events: []*models.Event{match(1, 70, 60)},
			want:   StreakStats{CurrentStreak: 1, LongestWinStreak: 1},
		},
		{
			name:   "single loss",
			events: []*models.Event{match(1, 50, 60)},
			want:   StreakStats{CurrentStreak: -1, LongestLossStreak: 1},
		},
		{
			name: "ends with wins after losses",
			events: []*models.Event{
				match(1, 70, 60), match(2, 71, 60), match(3, 72, 60),
				match(4, 50, 60), match(5, 51, 60),
				match(6, 80, 60), match(7, 81, 60),
			},
			want: StreakStats{CurrentStreak: 2, LongestWinStreak: 3, LongestLossStreak: 2},
		},
		{
			name: "draw breaks the streak",
			events: []*models.Event{
				match(1, 70, 60), match(2, 70, 60), match(3, 60, 60), match(4, 70, 60),
			},
			want: StreakStats{CurrentStreak: 1, LongestWinStreak: 2},
		},
		{
			name: "training and unscored matches are skipped",
			events: []*models.Event{
				match(1, 70, 60), match(3, 70, 60), training, unscored, match(5, 70, 60),
			},
			want: StreakStats{CurrentStreak: 3, LongestWinStreak: 3},
		},
		{
			name: "input in storage order (newest first)",
			events: []*models.Event{
				match(5, 50, 60), match(4, 50, 60), match(3, 70, 60),
			},
			want: StreakStats{CurrentStreak: -2, LongestWinStreak: 1, LongestLossStreak: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStreaks(tt.events))
		})
	}
}

func TestMatchRecord(t *testing.T) {
	events := []*models.Event{
		match(1, 70, 60),
		match(2, 50, 60),
		match(3, 60, 60),
		match(4, 90, 60),
		{Type: models.EventTypeTraining},
	}

	record := MatchRecord(events)
	assert.Equal(t, MatchRecordStats{Wins: 2, Losses: 1, Draws: 1}, record)
	assert.Equal(t, 4, record.Played())
	assert.InDelta(t, 50.0, record.WinRate(), 1e-9)

	assert.Equal(t, 0.0, MatchRecord(nil).WinRate())
}

func TestFormatCurrentStreak(t *testing.T) {
	assert.Equal(t, "Sin racha activa", FormatCurrentStreak(0))
	assert.Equal(t, "1 victoria seguida", FormatCurrentStreak(1))
	assert.Equal(t, "4 victorias seguidas", FormatCurrentStreak(4))
	assert.Equal(t, "1 derrota seguida", FormatCurrentStreak(-1))
	assert.Equal(t, "2 derrotas seguidas", FormatCurrentStreak(-2))
}

func TestLastMatch(t *testing.T) {
	latest := match(9, 70, 60)
	events := []*models.Event{match(1, 70, 60), latest, {Type: models.EventTypeTraining, Timestamp: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}}

	assert.Same(t, latest, LastMatch(events))
	assert.Nil(t, LastMatch(nil))
}
