package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/hooplog/internal/events"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

func TestGoalRepository_InsertDefaultsStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGoalRepository(db, nil)
	ctx := context.Background()

	goal := &models.Goal{
		PlayerID:       1,
		Description:    "Anotar 20 puntos por partido",
		Type:           models.GoalTypePoints,
		TargetQuantity: 20,
		Frequency:      models.FrequencyPerGame,
		CreatedAt:      time.Now(),
	}
	id, err := repo.Insert(ctx, goal)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.GoalStatusInProgress, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, 20.0, got.TargetQuantity)
	assert.Equal(t, models.FrequencyPerGame, got.Frequency)
}

func TestGoalRepository_CompleteGoal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGoalRepository(db, nil)
	ctx := context.Background()

	goal := &models.Goal{
		PlayerID:       1,
		Description:    "Mantener un 45% en tiros de tres",
		Type:           models.GoalTypeThreePointPercentage,
		TargetQuantity: 45.5,
		Frequency:      models.FrequencyMaintainPercentage,
		CreatedAt:      time.Now(),
	}
	_, err := repo.Insert(ctx, goal)
	require.NoError(t, err)

	completedAt := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	goal.Status = models.GoalStatusCompleted
	goal.CompletedAt = &completedAt
	goal.CurrentProgress = 46.1
	require.NoError(t, repo.Update(ctx, goal))

	got, err := repo.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GoalStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, completedAt.Equal(*got.CompletedAt))
	assert.InDelta(t, 46.1, got.CurrentProgress, 1e-9)
}

func TestGoalRepository_ByPlayerNewestFirstAndStatusFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGoalRepository(db, nil)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	statuses := []models.GoalStatus{models.GoalStatusInProgress, models.GoalStatusFailed, models.GoalStatusInProgress}
	for i, status := range statuses {
		_, err := repo.Insert(ctx, &models.Goal{
			PlayerID:    1,
			Description: "goal",
			Type:        models.GoalTypeAssists,
			Frequency:   models.FrequencyOverall,
			CreatedAt:   base.AddDate(0, i, 0),
			Status:      status,
		})
		require.NoError(t, err)
	}

	goals, err := repo.GetByPlayer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, goals, 3)
	assert.True(t, goals[0].CreatedAt.After(goals[1].CreatedAt))
	assert.True(t, goals[1].CreatedAt.After(goals[2].CreatedAt))

	inProgress, err := repo.GetByPlayerAndStatus(ctx, 1, models.GoalStatusInProgress)
	require.NoError(t, err)
	assert.Len(t, inProgress, 2)

	other, err := repo.GetByPlayer(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGoalRepository_ObserveByPlayer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGoalRepository(db, events.NewEventDispatcher(nil))
	ctx := context.Background()

	sub := repo.ObserveByPlayer(ctx, 1)
	defer sub.Cancel()
	assert.Empty(t, receiveWithin(t, sub.C()))

	_, err := repo.Insert(ctx, &models.Goal{
		PlayerID:  1,
		Type:      models.GoalTypeSteals,
		Frequency: models.FrequencyPerSeason,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	assert.Len(t, receiveWithin(t, sub.C()), 1)
}
