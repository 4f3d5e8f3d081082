// Package models defines the records persisted by HoopLog and the derived
// shapes computed from them.
package models

import "time"

// Player represents a registered player.
type Player struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	JerseyNumber *int      `json:"jersey_number,omitempty"` // Nullable
	Position     *string   `json:"position,omitempty"`      // Nullable
	TeamID       *int64    `json:"team_id,omitempty"`       // Nullable, informational only
	PhotoURL     *string   `json:"photo_url,omitempty"`     // Nullable
	CreatedAt    time.Time `json:"created_at"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}

// Int64Ptr returns a pointer to i.
func Int64Ptr(i int64) *int64 {
	return &i
}
