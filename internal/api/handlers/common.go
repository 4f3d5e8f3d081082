// Package handlers adapts the view-model facades to HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/hooplog/internal/api/response"
	"github.com/ramonehamilton/hooplog/internal/auth"
	"github.com/ramonehamilton/hooplog/internal/gui"
)

type sessionKey struct{}

// WithSession stores the caller's session on ctx.
func WithSession(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFrom returns the session stored by WithSession, or nil.
func SessionFrom(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionKey{}).(*auth.Session)
	return session
}

// base is embedded by every handler. It scopes the shared services to the
// caller's session.
type base struct {
	services *gui.Services
}

func (b base) scoped(r *http.Request) *gui.Services {
	return b.services.WithSession(SessionFrom(r.Context()))
}

var errInvalidBody = errors.New("invalid request body")

func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

// pathID parses the int64 URL parameter name.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

// writeError maps facade and auth errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var fieldErr *gui.FieldError
	switch {
	case errors.As(err, &fieldErr):
		response.FieldError(w, gui.InvalidInputMessage, fieldErr.Field)
	case errors.Is(err, gui.ErrInvalidInput), errors.Is(err, errInvalidBody):
		response.BadRequest(w, err)
	case errors.Is(err, gui.ErrNotSignedIn), errors.Is(err, auth.ErrUnauthenticated):
		response.Unauthorized(w, err)
	case errors.Is(err, gui.ErrNotFound):
		response.NotFound(w, err)
	case errors.Is(err, auth.ErrEmailTaken):
		response.Conflict(w, err)
	case errors.Is(err, auth.ErrTooManyAttempts):
		response.TooManyRequests(w, err)
	default:
		response.InternalError(w, err)
	}
}

// writeState answers a form submit: 201 for a new record, 200 for an edit.
func writeState(w http.ResponseWriter, state gui.FormState, created bool, load func() (interface{}, error)) {
	if !state.Saved {
		if state.InvalidInput {
			response.FieldError(w, state.Message, state.Field)
			return
		}
		writeError(w, state.Err())
		return
	}

	data, err := load()
	if err != nil {
		writeError(w, err)
		return
	}
	if created {
		response.Created(w, data)
		return
	}
	response.Success(w, data)
}
