package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/hooplog/internal/events"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

func sampleSheet(playerID int64, date time.Time) *models.PerformanceSheet {
	return &models.PerformanceSheet{
		Date:                   date,
		PlayerID:               playerID,
		Points:                 17,
		Assists:                4,
		OffensiveRebounds:      2,
		DefensiveRebounds:      5,
		Steals:                 1,
		Blocks:                 1,
		Turnovers:              3,
		Fouls:                  2,
		TwoPointersMade:        5,
		TwoPointersAttempted:   9,
		ThreePointersMade:      2,
		ThreePointersAttempted: 6,
		FreeThrowsMade:         1,
		FreeThrowsAttempted:    2,
		MinutesPlayed:          28,
		PlusMinus:              -4,
	}
}

func TestPerformanceSheetRepository_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPerformanceSheetRepository(db, nil)
	ctx := context.Background()

	sheet := sampleSheet(7, day(2025, 4, 12))
	sheet.EventID = models.Int64Ptr(3)

	id, err := repo.Insert(ctx, sheet)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	if diff := cmp.Diff(sheet, got); diff != "" {
		t.Errorf("sheet mismatch (-want +got):\n%s", diff)
	}
}

func TestPerformanceSheetRepository_DateStoredAtDayGranularity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPerformanceSheetRepository(db, nil)
	ctx := context.Background()

	sheet := sampleSheet(1, time.Date(2025, 6, 2, 21, 15, 0, 0, time.UTC))
	id, err := repo.Insert(ctx, sheet)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 6, 2), got.Date)

	onDay, err := repo.GetByDate(ctx, time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, onDay, 1)
}

func TestPerformanceSheetRepository_EventReferenceResolves(t *testing.T) {
	db := setupTestDB(t)
	eventRepo := NewEventRepository(db, nil)
	sheetRepo := NewPerformanceSheetRepository(db, nil)
	ctx := context.Background()

	event := &models.Event{Type: models.EventTypeMatch, Timestamp: time.Now(), Opponent: models.StringPtr("Rivals")}
	eventID, err := eventRepo.Insert(ctx, event)
	require.NoError(t, err)

	sheet := sampleSheet(1, time.Now())
	sheet.EventID = &eventID
	sheetID, err := sheetRepo.Insert(ctx, sheet)
	require.NoError(t, err)

	stored, err := sheetRepo.GetByID(ctx, sheetID)
	require.NoError(t, err)
	require.NotNil(t, stored.EventID)

	resolved, err := eventRepo.GetByID(ctx, *stored.EventID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, eventID, resolved.ID)
	assert.Equal(t, "Rivals", *resolved.Opponent)

	byEvent, err := sheetRepo.GetByEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, byEvent, 1)
}

func TestPerformanceSheetRepository_DanglingEventReferenceIsAllowed(t *testing.T) {
	db := setupTestDB(t)
	eventRepo := NewEventRepository(db, nil)
	sheetRepo := NewPerformanceSheetRepository(db, nil)
	ctx := context.Background()

	event := &models.Event{Type: models.EventTypeTraining, Timestamp: time.Now()}
	eventID, err := eventRepo.Insert(ctx, event)
	require.NoError(t, err)

	sheet := sampleSheet(1, time.Now())
	sheet.EventID = &eventID
	_, err = sheetRepo.Insert(ctx, sheet)
	require.NoError(t, err)

	require.NoError(t, eventRepo.Delete(ctx, event))

	remaining, err := sheetRepo.GetByEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestPerformanceSheetRepository_OrderingAndRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPerformanceSheetRepository(db, nil)
	ctx := context.Background()

	for _, d := range []int{5, 1, 9, 3} {
		_, err := repo.Insert(ctx, sampleSheet(1, day(2025, 3, d)))
		require.NoError(t, err)
	}
	_, err := repo.Insert(ctx, sampleSheet(2, day(2025, 3, 30)))
	require.NoError(t, err)

	mine, err := repo.GetByPlayer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 4)
	assert.Equal(t, day(2025, 3, 9), mine[0].Date)
	assert.Equal(t, day(2025, 3, 1), mine[3].Date)

	recent, err := repo.GetRecentByPlayer(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, day(2025, 3, 9), recent[0].Date)
	assert.Equal(t, day(2025, 3, 5), recent[1].Date)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, int64(2), all[0].PlayerID)
}

func TestPerformanceSheetRepository_UpdateUnknownIDIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	dispatcher := events.NewEventDispatcher(nil)
	repo := NewPerformanceSheetRepository(db, dispatcher)
	ctx := context.Background()

	sub := repo.ObserveAll(ctx)
	defer sub.Cancel()
	assert.Empty(t, receiveWithin(t, sub.C()))

	sheet := sampleSheet(1, time.Now())
	sheet.ID = 77
	require.NoError(t, repo.Update(ctx, sheet))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	select {
	case snapshot := <-sub.C():
		t.Fatalf("no-op update should not re-emit, got %d sheets", len(snapshot))
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPerformanceSheetRepository_NegativePlusMinusPersists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPerformanceSheetRepository(db, nil)
	ctx := context.Background()

	sheet := sampleSheet(1, time.Now())
	sheet.PlusMinus = -15
	id, err := repo.Insert(ctx, sheet)
	require.NoError(t, err)

	sheet.PlusMinus = -18
	require.NoError(t, repo.Update(ctx, sheet))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, -18, got.PlusMinus)
}
