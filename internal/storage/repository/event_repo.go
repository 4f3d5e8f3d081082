package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ramonehamilton/hooplog/internal/events"
	"github.com/ramonehamilton/hooplog/internal/storage/convert"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// EventRepository handles database operations for matches and training sessions.
type EventRepository interface {
	// Insert stores an event, replacing any row with the same id.
	// Returns the id issued by the store.
	Insert(ctx context.Context, event *models.Event) (int64, error)

	// Update replaces the stored event with the same id.
	// It is a no-op if no such event exists.
	Update(ctx context.Context, event *models.Event) error

	// Delete removes the stored event with the same id.
	Delete(ctx context.Context, event *models.Event) error

	// GetByID retrieves an event by its ID. Returns nil if not found.
	GetByID(ctx context.Context, id int64) (*models.Event, error)

	// GetAll retrieves all events, most recent first.
	GetAll(ctx context.Context) ([]*models.Event, error)

	// GetByPlayer retrieves a player's events, most recent first.
	GetByPlayer(ctx context.Context, playerID int64) ([]*models.Event, error)

	// GetByDateRange retrieves events with start <= timestamp < end, most recent first.
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Event, error)

	// ObserveAll is the live form of GetAll.
	ObserveAll(ctx context.Context) *events.Subscription[[]*models.Event]

	// ObserveByPlayer is the live form of GetByPlayer.
	ObserveByPlayer(ctx context.Context, playerID int64) *events.Subscription[[]*models.Event]

	// ObserveByID is the live form of GetByID.
	ObserveByID(ctx context.Context, id int64) *events.Subscription[*models.Event]
}

const eventColumns = `id, player_id, type, timestamp, opponent, team_score, opponent_score, notes`

type eventRepository struct {
	db         *sql.DB
	dispatcher *events.EventDispatcher
}

// NewEventRepository creates a new event repository. Writes are announced on
// dispatcher; a nil dispatcher gets a private one.
func NewEventRepository(db *sql.DB, dispatcher *events.EventDispatcher) EventRepository {
	if dispatcher == nil {
		dispatcher = events.NewEventDispatcher(nil)
	}
	return &eventRepository{db: db, dispatcher: dispatcher}
}

// Insert stores an event, replacing any row with the same id.
func (r *eventRepository) Insert(ctx context.Context, event *models.Event) (int64, error) {
	event.Normalize()

	query := `
		INSERT OR REPLACE INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		nullableID(event.ID),
		event.PlayerID,
		string(event.Type),
		convert.Millis(event.Timestamp),
		event.Opponent,
		event.TeamScore,
		event.OpponentScore,
		event.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	event.ID = id

	events.PublishChange(ctx, r.dispatcher, events.TableEvents, events.OpInsert, id)
	return id, nil
}

// Update replaces the stored event with the same id.
func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	event.Normalize()

	query := `
		UPDATE events
		SET player_id = ?, type = ?, timestamp = ?, opponent = ?,
			team_score = ?, opponent_score = ?, notes = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		event.PlayerID,
		string(event.Type),
		convert.Millis(event.Timestamp),
		event.Opponent,
		event.TeamScore,
		event.OpponentScore,
		event.Notes,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	if changed(result) {
		events.PublishChange(ctx, r.dispatcher, events.TableEvents, events.OpUpdate, event.ID)
	}
	return nil
}

// Delete removes the stored event with the same id.
// Performance sheets that reference it are left untouched.
func (r *eventRepository) Delete(ctx context.Context, event *models.Event) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, event.ID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if changed(result) {
		events.PublishChange(ctx, r.dispatcher, events.TableEvents, events.OpDelete, event.ID)
	}
	return nil
}

// GetByID retrieves an event by its ID.
func (r *eventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event by id: %w", err)
	}
	return event, nil
}

// GetAll retrieves all events, most recent first.
func (r *eventRepository) GetAll(ctx context.Context) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY timestamp DESC, id DESC`
	return r.query(ctx, "failed to get events", query)
}

// GetByPlayer retrieves a player's events, most recent first.
func (r *eventRepository) GetByPlayer(ctx context.Context, playerID int64) ([]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE player_id = ?
		ORDER BY timestamp DESC, id DESC
	`
	return r.query(ctx, "failed to get events by player", query, playerID)
}

// GetByDateRange retrieves events with start <= timestamp < end.
func (r *eventRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp DESC, id DESC
	`
	return r.query(ctx, "failed to get events by date range", query, convert.Millis(start), convert.Millis(end))
}

// ObserveAll is the live form of GetAll.
func (r *eventRepository) ObserveAll(ctx context.Context) *events.Subscription[[]*models.Event] {
	return events.Watch(ctx, r.dispatcher, []string{events.TableEvents}, r.GetAll)
}

// ObserveByPlayer is the live form of GetByPlayer.
func (r *eventRepository) ObserveByPlayer(ctx context.Context, playerID int64) *events.Subscription[[]*models.Event] {
	return events.Watch(ctx, r.dispatcher, []string{events.TableEvents}, func(ctx context.Context) ([]*models.Event, error) {
		return r.GetByPlayer(ctx, playerID)
	})
}

// ObserveByID is the live form of GetByID.
func (r *eventRepository) ObserveByID(ctx context.Context, id int64) *events.Subscription[*models.Event] {
	return events.Watch(ctx, r.dispatcher, []string{events.TableEvents}, func(ctx context.Context) (*models.Event, error) {
		return r.GetByID(ctx, id)
	})
}

func (r *eventRepository) query(ctx context.Context, errMsg, query string, args ...interface{}) ([]*models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	defer func() { _ = rows.Close() }()

	list := []*models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		list = append(list, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return list, nil
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	var (
		playerID, teamScore, opponentScore sql.NullInt64
		opponent, notes                    sql.NullString
		eventType                          string
		timestamp                          int64
	)

	err := row.Scan(
		&event.ID,
		&playerID,
		&eventType,
		&timestamp,
		&opponent,
		&teamScore,
		&opponentScore,
		&notes,
	)
	if err != nil {
		return nil, err
	}

	event.PlayerID = int64Ptr(playerID)
	event.Type = models.EventType(eventType)
	event.Timestamp = convert.FromMillis(timestamp)
	event.Opponent = stringPtr(opponent)
	event.TeamScore = intPtr(teamScore)
	event.OpponentScore = intPtr(opponentScore)
	event.Notes = stringPtr(notes)

	return event, nil
}

// changed reports whether a write touched at least one row.
func changed(result sql.Result) bool {
	n, err := result.RowsAffected()
	return err == nil && n > 0
}
