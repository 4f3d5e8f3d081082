package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
	"github.com/ramonehamilton/hooplog/internal/storage/repository"
)

type memoryPlayers struct {
	byEmail map[string]*models.Player
	nextID    int64
	err       error
	insertErr error
}

func newMemoryPlayers() *memoryPlayers {
	return &memoryPlayers{byEmail: map[string]*models.Player{}}
}

func (m *memoryPlayers) GetByEmail(_ context.Context, email string) (*models.Player, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byEmail[email], nil
}

func (m *memoryPlayers) Insert(_ context.Context, p *models.Player) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.nextID++
	p.ID = m.nextID
	m.byEmail[p.Email] = p
	return p.ID, nil
}

func registered(t *testing.T, players *memoryPlayers, limiter *LoginLimiter) *Authenticator {
	t.Helper()
	a := NewAuthenticator(players, limiter, nil)
	_, err := a.Register(context.Background(), Registration{Name: "Lucía", Email: "Lucia@Example.com", Password: "triple3"})
	require.NoError(t, err)
	return a
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secreto")
	require.NoError(t, err)
	assert.NotEqual(t, "secreto", hash)
	assert.True(t, CheckPassword(hash, "secreto"))
	assert.False(t, CheckPassword(hash, "Secreto"))

	other, err := HashPassword("secreto")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes are salted")

	_, err = HashPassword("abc")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestAuthenticator_Register(t *testing.T) {
	players := newMemoryPlayers()
	a := registered(t, players, nil)

	p := players.byEmail["lucia@example.com"]
	require.NotNil(t, p)
	assert.Equal(t, "lucia", p.Username)
	assert.Equal(t, "Lucía", p.Name)
	assert.False(t, p.CreatedAt.IsZero())

	_, err := a.Register(context.Background(), Registration{Email: "lucia@example.com", Password: "another1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = a.Register(context.Background(), Registration{Email: "not-an-email", Password: "another1"})
	assert.Error(t, err)
}

func TestAuthenticator_RegisterLosesInsertRace(t *testing.T) {
	players := newMemoryPlayers()
	// The lookup finds nothing but another registration stored the email first.
	players.insertErr = fmt.Errorf("failed to insert player: %w", repository.ErrDuplicateEmail)
	a := NewAuthenticator(players, nil, nil)

	_, err := a.Register(context.Background(), Registration{Email: "lucia@example.com", Password: "another1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	players.insertErr = errors.New("disk full")
	_, err = a.Register(context.Background(), Registration{Email: "lucia@example.com", Password: "another1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticator_Login(t *testing.T) {
	a := registered(t, newMemoryPlayers(), nil)
	ctx := context.Background()

	player, err := a.Login(ctx, " LUCIA@example.com ", "triple3")
	require.NoError(t, err)
	assert.Equal(t, int64(1), player.ID)
}

func TestAuthenticator_LoginDoesNotRevealWhichCredentialFailed(t *testing.T) {
	a := registered(t, newMemoryPlayers(), nil)
	ctx := context.Background()

	_, wrongPassword := a.Login(ctx, "lucia@example.com", "nope")
	_, unknownEmail := a.Login(ctx, "nadie@example.com", "triple3")

	assert.ErrorIs(t, wrongPassword, ErrUnauthenticated)
	assert.ErrorIs(t, unknownEmail, ErrUnauthenticated)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthenticator_LoginStoreError(t *testing.T) {
	players := newMemoryPlayers()
	a := registered(t, players, nil)
	players.err = errors.New("disk gone")

	_, err := a.Login(context.Background(), "lucia@example.com", "triple3")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticator_Throttling(t *testing.T) {
	limiter := NewLoginLimiter(1, 2)
	a := registered(t, newMemoryPlayers(), limiter)
	ctx := context.Background()

	_, err := a.Login(ctx, "lucia@example.com", "bad")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = a.Login(ctx, "lucia@example.com", "bad")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = a.Login(ctx, "lucia@example.com", "triple3")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// Other emails keep their own budget.
	_, err = a.Login(ctx, "otra@example.com", "bad")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLoginLimiter_ResetAfterSuccess(t *testing.T) {
	limiter := NewLoginLimiter(1, 2)
	a := registered(t, newMemoryPlayers(), limiter)
	ctx := context.Background()

	_, err := a.Login(ctx, "lucia@example.com", "bad")
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = a.Login(ctx, "lucia@example.com", "triple3")
	require.NoError(t, err)

	_, err = a.Login(ctx, "lucia@example.com", "bad")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = a.Login(ctx, "lucia@example.com", "bad")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLoginLimiter_DropsIdleEmails(t *testing.T) {
	limiter := NewLoginLimiter(1, 2)
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	for i := 0; i < 100; i++ {
		limiter.Allow(fmt.Sprintf("unknown%d@example.com", i))
	}
	require.True(t, limiter.Allow("lucia@example.com"))
	require.True(t, limiter.Allow("lucia@example.com"))
	require.False(t, limiter.Allow("lucia@example.com"))
	assert.Equal(t, 101, limiter.tracked())

	// Still throttled while the bucket refills.
	clock = clock.Add(30 * time.Second)
	assert.False(t, limiter.Allow("lucia@example.com"))
	assert.Equal(t, 101, limiter.tracked())

	clock = clock.Add(limiter.idle)
	assert.True(t, limiter.Allow("otra@example.com"))
	assert.Equal(t, 1, limiter.tracked())
	assert.True(t, limiter.Allow("lucia@example.com"))
}

func TestSession(t *testing.T) {
	var none *Session
	assert.False(t, none.Authenticated())
	assert.Equal(t, int64(0), none.PlayerID())

	s := NewSession(&models.Player{ID: 4})
	assert.True(t, s.Authenticated())
	assert.Equal(t, int64(4), s.PlayerID())
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(time.Hour)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	token := store.Issue(&models.Player{ID: 7})
	assert.Len(t, token, 36)

	session, ok := store.Lookup(token)
	require.True(t, ok)
	assert.Equal(t, int64(7), session.PlayerID())

	_, ok = store.Lookup("unknown")
	assert.False(t, ok)

	now = now.Add(time.Hour)
	_, ok = store.Lookup(token)
	assert.False(t, ok, "token expired")
	assert.Equal(t, 0, store.Len())

	other := store.Issue(&models.Player{ID: 8})
	store.Revoke(other)
	_, ok = store.Lookup(other)
	assert.False(t, ok)
}
