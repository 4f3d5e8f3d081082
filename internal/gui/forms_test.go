package gui

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

func TestSheetForm_Parse(t *testing.T) {
	form := SheetForm{
		Date:                 "2025-03-08",
		Points:               "18",
		Assists:              " 4 ",
		TwoPointersMade:      "6",
		TwoPointersAttempted: "11",
		PlusMinus:            "-7",
	}

	sheet, err := form.Parse(5, models.Int64Ptr(9))
	require.NoError(t, err)
	assert.Equal(t, int64(5), sheet.PlayerID)
	assert.Equal(t, int64(9), *sheet.EventID)
	assert.Equal(t, time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), sheet.Date)
	assert.Equal(t, 18, sheet.Points)
	assert.Equal(t, 4, sheet.Assists)
	assert.Equal(t, 0, sheet.Steals, "blank fields count as zero")
	assert.Equal(t, -7, sheet.PlusMinus)
}

func TestSheetForm_ParseRejectsBadFields(t *testing.T) {
	tests := []struct {
		name  string
		form  SheetForm
		field string
	}{
		{"non numeric", SheetForm{Date: "2025-03-08", Points: "doce"}, "points"},
		{"negative count", SheetForm{Date: "2025-03-08", Fouls: "-1"}, "fouls"},
		{"bad date", SheetForm{Date: "08/03/2025"}, "date"},
		{"bad plus minus", SheetForm{Date: "2025-03-08", PlusMinus: "+-"}, "plus_minus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.Parse(1, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			state := StateFor(0, err)
			assert.True(t, state.InvalidInput)
			assert.Equal(t, InvalidInputMessage, state.Message)
			assert.Equal(t, tt.field, state.Field)
		})
	}
}

func TestSheetFormFrom_RoundTrip(t *testing.T) {
	original := &models.PerformanceSheet{
		Date: time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC), PlayerID: 2,
		Points: 21, FreeThrowsMade: 5, FreeThrowsAttempted: 6, MinutesPlayed: 28, PlusMinus: 3,
	}

	parsed, err := SheetFormFrom(original).Parse(2, nil)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestEventForm_Parse(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	t.Run("match", func(t *testing.T) {
		form := EventForm{
			Type: "match", Date: "2025-01-18", Time: "18:30",
			Opponent: " CB Sur ", TeamScore: "64", OpponentScore: "60",
		}
		event, err := form.Parse(3, madrid)
		require.NoError(t, err)
		assert.Equal(t, models.EventTypeMatch, event.Type)
		assert.Equal(t, time.Date(2025, 1, 18, 17, 30, 0, 0, time.UTC), event.Timestamp.UTC())
		assert.Equal(t, "CB Sur", *event.Opponent)
		assert.Equal(t, 64, *event.TeamScore)
		assert.Equal(t, 60, *event.OpponentScore)
		assert.Nil(t, event.Notes)
	})

	t.Run("training drops match fields", func(t *testing.T) {
		form := EventForm{Type: "TRAINING", Date: "2025-01-20", Opponent: "nadie", TeamScore: "1"}
		event, err := form.Parse(3, nil)
		require.NoError(t, err)
		assert.Nil(t, event.Opponent)
		assert.Nil(t, event.TeamScore)
		assert.Nil(t, event.OpponentScore)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := EventForm{Type: "FRIENDLY", Date: "2025-01-20"}.Parse(3, nil)
		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "type", fieldErr.Field)
	})
}

func TestGoalForm_Parse(t *testing.T) {
	now := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

	goal, err := GoalForm{Type: "POINTS", Quantity: "20", Frequency: "PER_GAME"}.Parse(4, now)
	require.NoError(t, err)
	assert.Equal(t, "Anotar 20 puntos por partido", goal.Description)
	assert.Equal(t, models.GoalStatusInProgress, goal.Status)
	assert.Equal(t, now, goal.CreatedAt)
	assert.Nil(t, goal.CompletedAt)

	goal, err = GoalForm{Type: "WEIGHT", Quantity: "72,5", Frequency: "OVERALL"}.Parse(4, now)
	require.NoError(t, err)
	assert.Equal(t, 72.5, goal.TargetQuantity)

	_, err = GoalForm{Type: "POINTS", Quantity: "veinte", Frequency: "PER_GAME"}.Parse(4, now)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = GoalForm{Type: "POINTS", Quantity: "20", Frequency: "DAILY"}.Parse(4, now)
	assert.ErrorIs(t, err, ErrInvalidInput)

	for _, quantity := range []string{"NaN", "Inf", "-inf", "+Infinity", "1e400"} {
		_, err := GoalForm{Type: "POINTS", Quantity: quantity, Frequency: "PER_GAME"}.Parse(4, now)
		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr, quantity)
		assert.Equal(t, "quantity", fieldErr.Field, quantity)
		assert.ErrorIs(t, err, ErrInvalidInput, quantity)
	}
}

func TestStateFor(t *testing.T) {
	assert.Equal(t, FormState{Saved: true, ID: 7}, StateFor(7, nil))

	missing := StateFor(0, notFound("el evento", 3))
	assert.False(t, missing.Saved)
	assert.False(t, missing.InvalidInput)
	assert.Equal(t, "No se ha encontrado el evento 3", missing.Message)
	assert.ErrorIs(t, missing.Err(), ErrNotFound)

	failed := StateFor(0, errors.New("disk full"))
	assert.Equal(t, "No se ha podido guardar", failed.Message)
	assert.EqualError(t, failed.Err(), "disk full")

	invalid := StateFor(0, fmt.Errorf("save: %w", ErrInvalidInput))
	assert.True(t, invalid.InvalidInput)
	assert.Equal(t, InvalidInputMessage, invalid.Message)
	assert.Empty(t, invalid.Field)
}
