package gui

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ramonehamilton/hooplog/internal/auth"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// PlayerFacade handles sign-in, registration and the profile screen.
type PlayerFacade struct {
	services *Services
}

// NewPlayerFacade creates a new PlayerFacade.
func NewPlayerFacade(services *Services) *PlayerFacade {
	return &PlayerFacade{services: services}
}

// Login checks the credentials and, on success, makes the player the
// current session.
func (f *PlayerFacade) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	if f.services.Auth == nil {
		return nil, errNoStorage
	}

	player, err := f.services.Auth.Login(ctx, email, password)
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return nil, &AppError{Message: "Correo o contraseña incorrectos", Err: err}
	case errors.Is(err, auth.ErrTooManyAttempts):
		return nil, &AppError{Message: "Demasiados intentos. Espera un momento", Err: err}
	case err != nil:
		return nil, err
	}

	f.services.Session = auth.NewSession(player)
	f.services.logger().Info("session started", zap.Int64("player_id", player.ID))
	return f.services.Session, nil
}

// Logout clears the current session.
func (f *PlayerFacade) Logout() {
	f.services.Session = nil
}

// Register creates a player and signs them in.
func (f *PlayerFacade) Register(ctx context.Context, reg auth.Registration) (*auth.Session, error) {
	if f.services.Auth == nil {
		return nil, errNoStorage
	}

	player, err := f.services.Auth.Register(ctx, reg)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		return nil, &AppError{Message: "Ese correo ya está registrado", Err: err}
	case errors.Is(err, auth.ErrWeakPassword):
		return nil, &AppError{Message: "La contraseña es demasiado corta", Err: err}
	case err != nil:
		return nil, &AppError{Message: InvalidInputMessage, Err: errors.Join(ErrInvalidInput, err)}
	}

	f.services.Session = auth.NewSession(player)
	return f.services.Session, nil
}

// Current returns the signed-in player.
func (f *PlayerFacade) Current() (*models.Player, error) {
	if _, err := f.services.ready(); err != nil {
		return nil, err
	}
	return f.services.Session.Player, nil
}

// Profile holds the editable profile fields.
type Profile struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	JerseyNumber string `json:"jersey_number"`
	Position     string `json:"position"`
	PhotoURL     string `json:"photo_url"`
}

// UpdateProfile replaces the editable fields of the signed-in player.
func (f *PlayerFacade) UpdateProfile(ctx context.Context, profile Profile) FormState {
	player, err := f.Current()
	if err != nil {
		return StateFor(0, err)
	}

	jersey, err := parseOptionalInt("jersey_number", profile.JerseyNumber)
	if err != nil {
		return StateFor(0, err)
	}

	updated := *player
	updated.Name = strings.TrimSpace(profile.Name)
	updated.Username = strings.TrimSpace(profile.Username)
	updated.JerseyNumber = jersey
	updated.Position = models.StringPtr(strings.TrimSpace(profile.Position))
	updated.PhotoURL = models.StringPtr(strings.TrimSpace(profile.PhotoURL))

	if err := f.services.Storage.Players().Update(ctx, &updated); err != nil {
		return StateFor(0, err)
	}
	f.services.Session.Player = &updated
	return StateFor(updated.ID, nil)
}
