package events

import (
	"context"
	"strings"
)

// Tables that publish change events.
const (
	TableEvents            = "events"
	TablePerformanceSheets = "performance_sheets"
	TablePlayers           = "players"
	TableGoals             = "goals"
)

// AllTables lists every table that publishes change events.
var AllTables = []string{TableEvents, TablePerformanceSheets, TablePlayers, TableGoals}

// Operations recorded in TableChanged.
const (
	OpInsert   = "insert"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpExternal = "external" // Written by another process
)

const changedSuffix = ":changed"

// TableChanged is the payload of "<table>:changed" events.
type TableChanged struct {
	Table     string `json:"table"`
	Operation string `json:"operation"`
	ID        int64  `json:"id,omitempty"`
}

// ChangedType returns the event type published when table changes.
func ChangedType(table string) string {
	return table + changedSuffix
}

// TableOf returns the table named by a change event type.
func TableOf(eventType string) (string, bool) {
	return strings.CutSuffix(eventType, changedSuffix)
}

// NewTableChanged creates a change event for a table row.
func NewTableChanged(ctx context.Context, table, op string, id int64) Event {
	return Event{
		Type:    ChangedType(table),
		Data:    TableChanged{Table: table, Operation: op, ID: id},
		Context: ctx,
	}
}

// PublishChange dispatches a change event if p is non-nil.
func PublishChange(ctx context.Context, p Publisher, table, op string, id int64) {
	if p == nil {
		return
	}
	p.Dispatch(NewTableChanged(ctx, table, op, id))
}
