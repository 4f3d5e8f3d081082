package export

import (
	"fmt"
	"time"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// Kind selects which part of the journal to export.
type Kind string

const (
	KindEvents Kind = "events"
	KindSheets Kind = "sheets"
	KindGoals  Kind = "goals"
)

// ParseKind validates an export kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindEvents, KindSheets, KindGoals:
		return k, nil
	}
	return "", fmt.Errorf("unknown export kind %q", s)
}

// EventRow is one exported event.
type EventRow struct {
	ID            int64     `csv:"id" json:"id"`
	Type          string    `csv:"type" json:"type"`
	Timestamp     time.Time `csv:"timestamp" json:"timestamp"`
	Opponent      *string   `csv:"opponent" json:"opponent,omitempty"`
	TeamScore     *int      `csv:"team_score" json:"team_score,omitempty"`
	OpponentScore *int      `csv:"opponent_score" json:"opponent_score,omitempty"`
	Outcome       string    `csv:"outcome" json:"outcome,omitempty"`
	Notes         *string   `csv:"notes" json:"notes,omitempty"`
}

// EventRows converts events in their given order.
func EventRows(evs []*models.Event) []EventRow {
	rows := make([]EventRow, 0, len(evs))
	for _, e := range evs {
		rows = append(rows, EventRow{
			ID:            e.ID,
			Type:          string(e.Type),
			Timestamp:     e.Timestamp,
			Opponent:      e.Opponent,
			TeamScore:     e.TeamScore,
			OpponentScore: e.OpponentScore,
			Outcome:       string(e.Outcome()),
			Notes:         e.Notes,
		})
	}
	return rows
}

// SheetRow is one exported performance sheet. Rebounds is derived.
type SheetRow struct {
	ID                     int64  `csv:"id" json:"id"`
	Date                   string `csv:"date" json:"date"`
	EventID                *int64 `csv:"event_id" json:"event_id,omitempty"`
	Points                 int    `csv:"points" json:"points"`
	Assists                int    `csv:"assists" json:"assists"`
	Rebounds               int    `csv:"rebounds" json:"rebounds"`
	OffensiveRebounds      int    `csv:"offensive_rebounds" json:"offensive_rebounds"`
	DefensiveRebounds      int    `csv:"defensive_rebounds" json:"defensive_rebounds"`
	Steals                 int    `csv:"steals" json:"steals"`
	Blocks                 int    `csv:"blocks" json:"blocks"`
	Turnovers              int    `csv:"turnovers" json:"turnovers"`
	Fouls                  int    `csv:"fouls" json:"fouls"`
	TwoPointersMade        int    `csv:"two_pointers_made" json:"two_pointers_made"`
	TwoPointersAttempted   int    `csv:"two_pointers_attempted" json:"two_pointers_attempted"`
	ThreePointersMade      int    `csv:"three_pointers_made" json:"three_pointers_made"`
	ThreePointersAttempted int    `csv:"three_pointers_attempted" json:"three_pointers_attempted"`
	FreeThrowsMade         int    `csv:"free_throws_made" json:"free_throws_made"`
	FreeThrowsAttempted    int    `csv:"free_throws_attempted" json:"free_throws_attempted"`
	MinutesPlayed          int    `csv:"minutes_played" json:"minutes_played"`
	PlusMinus              int    `csv:"plus_minus" json:"plus_minus"`
}

// SheetRows converts sheets in their given order.
func SheetRows(sheets []*models.PerformanceSheet) []SheetRow {
	rows := make([]SheetRow, 0, len(sheets))
	for _, s := range sheets {
		rows = append(rows, SheetRow{
			ID:                     s.ID,
			Date:                   s.Date.Format("2006-01-02"),
			EventID:                s.EventID,
			Points:                 s.Points,
			Assists:                s.Assists,
			Rebounds:               s.Rebounds(),
			OffensiveRebounds:      s.OffensiveRebounds,
			DefensiveRebounds:      s.DefensiveRebounds,
			Steals:                 s.Steals,
			Blocks:                 s.Blocks,
			Turnovers:              s.Turnovers,
			Fouls:                  s.Fouls,
			TwoPointersMade:        s.TwoPointersMade,
			TwoPointersAttempted:   s.TwoPointersAttempted,
			ThreePointersMade:      s.ThreePointersMade,
			ThreePointersAttempted: s.ThreePointersAttempted,
			FreeThrowsMade:         s.FreeThrowsMade,
			FreeThrowsAttempted:    s.FreeThrowsAttempted,
			MinutesPlayed:          s.MinutesPlayed,
			PlusMinus:              s.PlusMinus,
		})
	}
	return rows
}

// GoalRow is one exported goal.
type GoalRow struct {
	ID              int64      `csv:"id" json:"id"`
	Description     string     `csv:"description" json:"description"`
	Type            string     `csv:"type" json:"type"`
	TargetQuantity  float64    `csv:"target_quantity" json:"target_quantity"`
	Frequency       string     `csv:"frequency" json:"frequency"`
	Status          string     `csv:"status" json:"status"`
	CurrentProgress float64    `csv:"current_progress" json:"current_progress"`
	CreatedAt       time.Time  `csv:"created_at" json:"created_at"`
	CompletedAt     *time.Time `csv:"completed_at" json:"completed_at,omitempty"`
	Notes           *string    `csv:"notes" json:"notes,omitempty"`
}

// GoalRows converts goals in their given order.
func GoalRows(goals []*models.Goal) []GoalRow {
	rows := make([]GoalRow, 0, len(goals))
	for _, g := range goals {
		rows = append(rows, GoalRow{
			ID:              g.ID,
			Description:     g.Description,
			Type:            string(g.Type),
			TargetQuantity:  g.TargetQuantity,
			Frequency:       string(g.Frequency),
			Status:          string(g.Status),
			CurrentProgress: g.CurrentProgress,
			CreatedAt:       g.CreatedAt,
			CompletedAt:     g.CompletedAt,
			Notes:           g.Notes,
		})
	}
	return rows
}
