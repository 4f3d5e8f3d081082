// Package gui holds the view-model layer: facades that screens call to read
// live data and submit forms on behalf of the signed-in player.
package gui

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ramonehamilton/hooplog/internal/auth"
	"github.com/ramonehamilton/hooplog/internal/storage"
)

// Services contains the shared dependencies passed to each facade.
type Services struct {
	// Storage service for database operations
	Storage *storage.Service

	// Auth verifies credentials and registers players
	Auth *auth.Authenticator

	// Session identifies the signed-in player. Facades read it on every call,
	// so signing in or out takes effect immediately.
	Session *auth.Session

	Logger *zap.Logger
}

// WithSession returns a copy of s acting for session. The HTTP API uses it
// to serve several players from one set of services.
func (s *Services) WithSession(session *auth.Session) *Services {
	c := *s
	c.Session = session
	return &c
}

func (s *Services) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

var (
	// ErrNotFound is wrapped by AppErrors for records that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotSignedIn is wrapped by AppErrors for calls that need a session.
	ErrNotSignedIn = errors.New("not signed in")
)

// AppError represents an application error with a user-friendly message.
type AppError struct {
	Message string `json:"message"`
	Err     error  `json:"-"` // Wrapped error for errors.Is/As chain
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

func notFound(what string, id int64) *AppError {
	return &AppError{
		Message: fmt.Sprintf("No se ha encontrado %s %d", what, id),
		Err:     ErrNotFound,
	}
}

var errNoStorage = &AppError{Message: "La base de datos no está inicializada"}

// ready checks the storage and session every facade call depends on and
// returns the signed-in player's id.
func (s *Services) ready() (int64, error) {
	if s.Storage == nil {
		return 0, errNoStorage
	}
	if !s.Session.Authenticated() {
		return 0, &AppError{Message: "Inicia sesión para continuar", Err: ErrNotSignedIn}
	}
	return s.Session.PlayerID(), nil
}

// ownedBy hides records of other players behind a not-found error.
func ownedBy(playerID int64, owner *int64) bool {
	return owner == nil || *owner == playerID
}

// background returns a context for work that outlives a single call.
func background(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
