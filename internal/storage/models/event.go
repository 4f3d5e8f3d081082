package models

import "time"

// EventType distinguishes matches from training sessions.
type EventType string

const (
	EventTypeMatch    EventType = "MATCH"
	EventTypeTraining EventType = "TRAINING"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	return t == EventTypeMatch || t == EventTypeTraining
}

// Event is a match or training session attended by the player.
// Opponent and scores are only meaningful for matches.
type Event struct {
	ID            int64     `json:"id"`
	PlayerID      *int64    `json:"player_id,omitempty"` // Nullable, informational only
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	Opponent      *string   `json:"opponent,omitempty"`
	TeamScore     *int      `json:"team_score,omitempty"`
	OpponentScore *int      `json:"opponent_score,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
}

// Normalize clears the match-only fields of training sessions.
func (e *Event) Normalize() {
	if e.Type != EventTypeMatch {
		e.Opponent = nil
		e.TeamScore = nil
		e.OpponentScore = nil
	}
}

// IsScored reports whether the event is a match with both scores recorded.
func (e *Event) IsScored() bool {
	return e.Type == EventTypeMatch && e.TeamScore != nil && e.OpponentScore != nil
}

// Outcome is the result of a scored match.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Outcome returns the match result, or "" for training sessions and
// matches without both scores.
func (e *Event) Outcome() Outcome {
	if !e.IsScored() {
		return ""
	}
	switch {
	case *e.TeamScore > *e.OpponentScore:
		return OutcomeWin
	case *e.TeamScore < *e.OpponentScore:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}
