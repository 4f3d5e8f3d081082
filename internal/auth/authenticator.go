package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
	"github.com/ramonehamilton/hooplog/internal/storage/repository"
)

var (
	// ErrUnauthenticated is returned for any failed login. It does not say
	// whether the email or the password was wrong.
	ErrUnauthenticated = errors.New("invalid email or password")

	// ErrTooManyAttempts is returned when an email is being tried too often.
	ErrTooManyAttempts = errors.New("too many login attempts, try again later")

	// ErrEmailTaken is returned when registering an email already in use.
	ErrEmailTaken = errors.New("email already registered")
)

// PlayerStore is the subset of the player DAO the authenticator needs.
type PlayerStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Player, error)
	Insert(ctx context.Context, player *models.Player) (int64, error)
}

// Registration carries the fields entered on the sign-up form.
type Registration struct {
	Name         string
	Username     string
	Email        string
	Password     string
	JerseyNumber *int
	Position     *string
	TeamID       *int64
	PhotoURL     *string
}

// Authenticator registers players and verifies their credentials.
type Authenticator struct {
	players PlayerStore
	limiter *LoginLimiter
	logger  *zap.Logger
	now     func() time.Time
}

// NewAuthenticator creates an authenticator. A nil limiter disables throttling
// and a nil logger disables logging.
func NewAuthenticator(players PlayerStore, limiter *LoginLimiter, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		players: players,
		limiter: limiter,
		logger:  logger.Named("auth"),
		now:     time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login returns the player whose email and password match.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*models.Player, error) {
	email = normalizeEmail(email)
	if a.limiter != nil && !a.limiter.Allow(email) {
		a.logger.Warn("login throttled", zap.String("email", email))
		return nil, ErrTooManyAttempts
	}

	player, err := a.players.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up player: %w", err)
	}

	if player == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		a.logger.Debug("login failed", zap.String("email", email))
		return nil, ErrUnauthenticated
	}
	if !CheckPassword(player.PasswordHash, password) {
		a.logger.Debug("login failed", zap.String("email", email))
		return nil, ErrUnauthenticated
	}

	if a.limiter != nil {
		a.limiter.Reset(email)
	}
	a.logger.Info("player logged in", zap.Int64("player_id", player.ID))
	return player, nil
}

// Register creates a player with a hashed password.
func (a *Authenticator) Register(ctx context.Context, reg Registration) (*models.Player, error) {
	email := normalizeEmail(reg.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email %q", reg.Email)
	}

	existing, err := a.players.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up player: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	username := reg.Username
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}

	player := &models.Player{
		Name:         strings.TrimSpace(reg.Name),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		JerseyNumber: reg.JerseyNumber,
		Position:     reg.Position,
		TeamID:       reg.TeamID,
		PhotoURL:     reg.PhotoURL,
		CreatedAt:    a.now(),
	}
	if _, err := a.players.Insert(ctx, player); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register player: %w", err)
	}

	a.logger.Info("player registered", zap.Int64("player_id", player.ID))
	return player, nil
}
