package handlers

import (
	"net/http"
	"strings"

	"github.com/ramonehamilton/hooplog/internal/api/response"
	"github.com/ramonehamilton/hooplog/internal/auth"
	"github.com/ramonehamilton/hooplog/internal/gui"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// PlayerHandler handles registration, login and the caller's profile.
type PlayerHandler struct {
	base
	sessions *auth.SessionStore
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(services *gui.Services, sessions *auth.SessionStore) *PlayerHandler {
	return &PlayerHandler{base: base{services: services}, sessions: sessions}
}

// RegisterRequest represents a sign-up request.
type RegisterRequest struct {
	Name         string  `json:"name"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	JerseyNumber *int    `json:"jersey_number,omitempty"`
	Position     *string `json:"position,omitempty"`
	TeamID       *int64  `json:"team_id,omitempty"`
	PhotoURL     *string `json:"photo_url,omitempty"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Token  string         `json:"token"`
	Player *models.Player `json:"player"`
}

// Register creates a player and returns a session token.
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	session, err := gui.NewPlayerFacade(h.scoped(r)).Register(r.Context(), auth.Registration{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		JerseyNumber: req.JerseyNumber,
		Position:     req.Position,
		TeamID:       req.TeamID,
		PhotoURL:     req.PhotoURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, SessionResponse{Token: h.sessions.Issue(session.Player), Player: session.Player})
}

// Login verifies credentials and returns a session token. A wrong email and
// a wrong password produce the same response.
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	session, err := gui.NewPlayerFacade(h.scoped(r)).Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, SessionResponse{Token: h.sessions.Issue(session.Player), Player: session.Player})
}

// Logout revokes the caller's token.
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := BearerToken(r); ok {
		h.sessions.Revoke(token)
	}
	response.NoContent(w)
}

// Me returns the signed-in player.
func (h *PlayerHandler) Me(w http.ResponseWriter, r *http.Request) {
	player, err := gui.NewPlayerFacade(h.scoped(r)).Current()
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, player)
}

// UpdateMe replaces the signed-in player's profile.
func (h *PlayerHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req gui.Profile
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	services := h.scoped(r)
	players := gui.NewPlayerFacade(services)
	state := players.UpdateProfile(r.Context(), req)
	writeState(w, state, false, func() (interface{}, error) {
		return players.Current()
	})
}

// BearerToken extracts the token from "Authorization: Bearer <token>", or
// from the token query parameter for websocket upgrades.
func BearerToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", false
		}
		return strings.TrimSpace(token), true
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, true
	}
	return "", false
}
