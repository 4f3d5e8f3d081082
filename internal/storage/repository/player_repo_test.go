package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

func newPlayer(email string) *models.Player {
	return &models.Player{
		Name:         "Test Player",
		Username:     email,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPlayerRepository_InsertAndLookups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlayerRepository(db, nil)
	ctx := context.Background()

	player := newPlayer("lucia@example.com")
	player.JerseyNumber = models.IntPtr(23)
	player.Position = models.StringPtr("Base")

	id, err := repo.Insert(ctx, player)
	require.NoError(t, err)

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "lucia@example.com", byID.Email)
	assert.Equal(t, 23, *byID.JerseyNumber)
	assert.Equal(t, "Base", *byID.Position)
	assert.Nil(t, byID.TeamID)
	assert.True(t, player.CreatedAt.Equal(byID.CreatedAt))

	byEmail, err := repo.GetByEmail(ctx, "LUCIA@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPlayerRepository_GetAllOrderedByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlayerRepository(db, nil)
	ctx := context.Background()

	for _, email := range []string{"carla@example.com", "ana@example.com", "bea@example.com"} {
		_, err := repo.Insert(ctx, newPlayer(email))
		require.NoError(t, err)
	}

	players, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "ana@example.com", players[0].Email)
	assert.Equal(t, "bea@example.com", players[1].Email)
	assert.Equal(t, "carla@example.com", players[2].Email)
}

func TestPlayerRepository_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlayerRepository(db, nil)
	ctx := context.Background()

	player := newPlayer("marc@example.com")
	_, err := repo.Insert(ctx, player)
	require.NoError(t, err)

	player.Name = "Marc G."
	player.TeamID = models.Int64Ptr(4)
	require.NoError(t, repo.Update(ctx, player))

	got, err := repo.GetByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marc G.", got.Name)
	assert.Equal(t, int64(4), *got.TeamID)

	require.NoError(t, repo.Update(ctx, &models.Player{ID: 999, Email: "ghost@example.com"}))
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, player))
	got, err = repo.GetByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPlayerRepository_InsertRejectsTakenEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlayerRepository(db, nil)
	sheets := NewPerformanceSheetRepository(db, nil)
	ctx := context.Background()

	first := newPlayer("x@example.com")
	firstID, err := repo.Insert(ctx, first)
	require.NoError(t, err)
	_, err = sheets.Insert(ctx, &models.PerformanceSheet{Date: time.Now(), PlayerID: firstID, Points: 12})
	require.NoError(t, err)

	tests := []struct {
		name  string
		email string
	}{
		{"same email", "x@example.com"},
		{"differs only in case", "X@Example.COM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			second := newPlayer(tt.email)
			_, err := repo.Insert(ctx, second)
			assert.ErrorIs(t, err, ErrDuplicateEmail)
			assert.Zero(t, second.ID)

			kept, err := repo.GetByID(ctx, firstID)
			require.NoError(t, err)
			require.NotNil(t, kept)
			assert.Equal(t, "x@example.com", kept.Email)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)

			owned, err := sheets.GetByPlayer(ctx, firstID)
			require.NoError(t, err)
			assert.Len(t, owned, 1)
		})
	}
}

func TestPlayerRepository_InsertWithIDReplacesThatRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlayerRepository(db, nil)
	ctx := context.Background()

	player := newPlayer("rosa@example.com")
	id, err := repo.Insert(ctx, player)
	require.NoError(t, err)
	other := newPlayer("nuria@example.com")
	_, err = repo.Insert(ctx, other)
	require.NoError(t, err)

	player.Name = "Rosa M."
	got, err := repo.Insert(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Rosa M.", stored.Name)

	// Taking the other player's email through a replace is rejected too.
	player.Email = "NURIA@example.com"
	_, err = repo.Insert(ctx, player)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPlayerRepository_UpdateRejectsTakenEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlayerRepository(db, nil)
	ctx := context.Background()

	ana := newPlayer("ana@example.com")
	_, err := repo.Insert(ctx, ana)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, newPlayer("bea@example.com"))
	require.NoError(t, err)

	ana.Email = "Bea@example.com"
	assert.ErrorIs(t, repo.Update(ctx, ana), ErrDuplicateEmail)

	stored, err := repo.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", stored.Email)
}
