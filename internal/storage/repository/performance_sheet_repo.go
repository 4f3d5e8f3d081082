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

// PerformanceSheetRepository handles database operations for performance sheets.
type PerformanceSheetRepository interface {
	// Insert stores a sheet, replacing any row with the same id.
	// Returns the id issued by the store.
	Insert(ctx context.Context, sheet *models.PerformanceSheet) (int64, error)

	// Update replaces the stored sheet with the same id.
	// It is a no-op if no such sheet exists.
	Update(ctx context.Context, sheet *models.PerformanceSheet) error

	// Delete removes the stored sheet with the same id.
	Delete(ctx context.Context, sheet *models.PerformanceSheet) error

	// GetByID retrieves a sheet by its ID. Returns nil if not found.
	GetByID(ctx context.Context, id int64) (*models.PerformanceSheet, error)

	// GetAll retrieves all sheets, most recent date first.
	GetAll(ctx context.Context) ([]*models.PerformanceSheet, error)

	// GetByPlayer retrieves a player's sheets, most recent date first.
	GetByPlayer(ctx context.Context, playerID int64) ([]*models.PerformanceSheet, error)

	// GetByEvent retrieves the sheets that reference an event.
	GetByEvent(ctx context.Context, eventID int64) ([]*models.PerformanceSheet, error)

	// GetByDate retrieves the sheets recorded on a calendar day.
	GetByDate(ctx context.Context, date time.Time) ([]*models.PerformanceSheet, error)

	// GetRecentByPlayer retrieves a player's limit most recent sheets.
	GetRecentByPlayer(ctx context.Context, playerID int64, limit int) ([]*models.PerformanceSheet, error)

	// ObserveAll is the live form of GetAll.
	ObserveAll(ctx context.Context) *events.Subscription[[]*models.PerformanceSheet]

	// ObserveByPlayer is the live form of GetByPlayer.
	ObserveByPlayer(ctx context.Context, playerID int64) *events.Subscription[[]*models.PerformanceSheet]

	// ObserveByEvent is the live form of GetByEvent.
	ObserveByEvent(ctx context.Context, eventID int64) *events.Subscription[[]*models.PerformanceSheet]
}

const sheetColumns = `
	id, date, player_id, event_id,
	points, assists, offensive_rebounds, defensive_rebounds,
	steals, blocks, turnovers, fouls,
	two_pointers_made, two_pointers_attempted,
	three_pointers_made, three_pointers_attempted,
	free_throws_made, free_throws_attempted,
	minutes_played, plus_minus`

const sheetOrder = ` ORDER BY date DESC, id DESC`

type performanceSheetRepository struct {
	db         *sql.DB
	dispatcher *events.EventDispatcher
}

// NewPerformanceSheetRepository creates a new performance sheet repository.
func NewPerformanceSheetRepository(db *sql.DB, dispatcher *events.EventDispatcher) PerformanceSheetRepository {
	if dispatcher == nil {
		dispatcher = events.NewEventDispatcher(nil)
	}
	return &performanceSheetRepository{db: db, dispatcher: dispatcher}
}

// Insert stores a sheet, replacing any row with the same id.
func (r *performanceSheetRepository) Insert(ctx context.Context, sheet *models.PerformanceSheet) (int64, error) {
	query := `
		INSERT OR REPLACE INTO performance_sheets (` + sheetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := append([]interface{}{nullableID(sheet.ID)}, sheetValues(sheet)...)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert performance sheet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	sheet.ID = id

	events.PublishChange(ctx, r.dispatcher, events.TablePerformanceSheets, events.OpInsert, id)
	return id, nil
}

// Update replaces the stored sheet with the same id.
func (r *performanceSheetRepository) Update(ctx context.Context, sheet *models.PerformanceSheet) error {
	query := `
		UPDATE performance_sheets
		SET date = ?, player_id = ?, event_id = ?,
			points = ?, assists = ?, offensive_rebounds = ?, defensive_rebounds = ?,
			steals = ?, blocks = ?, turnovers = ?, fouls = ?,
			two_pointers_made = ?, two_pointers_attempted = ?,
			three_pointers_made = ?, three_pointers_attempted = ?,
			free_throws_made = ?, free_throws_attempted = ?,
			minutes_played = ?, plus_minus = ?
		WHERE id = ?
	`
	args := append(sheetValues(sheet), sheet.ID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update performance sheet: %w", err)
	}

	if changed(result) {
		events.PublishChange(ctx, r.dispatcher, events.TablePerformanceSheets, events.OpUpdate, sheet.ID)
	}
	return nil
}

// Delete removes the stored sheet with the same id.
func (r *performanceSheetRepository) Delete(ctx context.Context, sheet *models.PerformanceSheet) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM performance_sheets WHERE id = ?`, sheet.ID)
	if err != nil {
		return fmt.Errorf("failed to delete performance sheet: %w", err)
	}

	if changed(result) {
		events.PublishChange(ctx, r.dispatcher, events.TablePerformanceSheets, events.OpDelete, sheet.ID)
	}
	return nil
}

// GetByID retrieves a sheet by its ID.
func (r *performanceSheetRepository) GetByID(ctx context.Context, id int64) (*models.PerformanceSheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM performance_sheets WHERE id = ?`

	sheet, err := scanSheet(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get performance sheet by id: %w", err)
	}
	return sheet, nil
}

// GetAll retrieves all sheets, most recent date first.
func (r *performanceSheetRepository) GetAll(ctx context.Context) ([]*models.PerformanceSheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM performance_sheets` + sheetOrder
	return r.query(ctx, "failed to get performance sheets", query)
}

// GetByPlayer retrieves a player's sheets, most recent date first.
func (r *performanceSheetRepository) GetByPlayer(ctx context.Context, playerID int64) ([]*models.PerformanceSheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM performance_sheets WHERE player_id = ?` + sheetOrder
	return r.query(ctx, "failed to get performance sheets by player", query, playerID)
}

// GetByEvent retrieves the sheets that reference an event.
func (r *performanceSheetRepository) GetByEvent(ctx context.Context, eventID int64) ([]*models.PerformanceSheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM performance_sheets WHERE event_id = ?` + sheetOrder
	return r.query(ctx, "failed to get performance sheets by event", query, eventID)
}

// GetByDate retrieves the sheets recorded on a calendar day.
func (r *performanceSheetRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.PerformanceSheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM performance_sheets WHERE date = ?` + sheetOrder
	return r.query(ctx, "failed to get performance sheets by date", query, convert.Days(date))
}

// GetRecentByPlayer retrieves a player's limit most recent sheets.
func (r *performanceSheetRepository) GetRecentByPlayer(ctx context.Context, playerID int64, limit int) ([]*models.PerformanceSheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM performance_sheets WHERE player_id = ?` + sheetOrder + ` LIMIT ?`
	return r.query(ctx, "failed to get recent performance sheets", query, playerID, limit)
}

// ObserveAll is the live form of GetAll.
func (r *performanceSheetRepository) ObserveAll(ctx context.Context) *events.Subscription[[]*models.PerformanceSheet] {
	return events.Watch(ctx, r.dispatcher, []string{events.TablePerformanceSheets}, r.GetAll)
}

// ObserveByPlayer is the live form of GetByPlayer.
func (r *performanceSheetRepository) ObserveByPlayer(ctx context.Context, playerID int64) *events.Subscription[[]*models.PerformanceSheet] {
	return events.Watch(ctx, r.dispatcher, []string{events.TablePerformanceSheets}, func(ctx context.Context) ([]*models.PerformanceSheet, error) {
		return r.GetByPlayer(ctx, playerID)
	})
}

// ObserveByEvent is the live form of GetByEvent.
func (r *performanceSheetRepository) ObserveByEvent(ctx context.Context, eventID int64) *events.Subscription[[]*models.PerformanceSheet] {
	return events.Watch(ctx, r.dispatcher, []string{events.TablePerformanceSheets}, func(ctx context.Context) ([]*models.PerformanceSheet, error) {
		return r.GetByEvent(ctx, eventID)
	})
}

func (r *performanceSheetRepository) query(ctx context.Context, errMsg, query string, args ...interface{}) ([]*models.PerformanceSheet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	defer func() { _ = rows.Close() }()

	sheets := []*models.PerformanceSheet{}
	for rows.Next() {
		sheet, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance sheet: %w", err)
		}
		sheets = append(sheets, sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return sheets, nil
}

// sheetValues returns every column after id, in sheetColumns order.
func sheetValues(s *models.PerformanceSheet) []interface{} {
	return []interface{}{
		convert.Days(s.Date),
		s.PlayerID,
		s.EventID,
		s.Points,
		s.Assists,
		s.OffensiveRebounds,
		s.DefensiveRebounds,
		s.Steals,
		s.Blocks,
		s.Turnovers,
		s.Fouls,
		s.TwoPointersMade,
		s.TwoPointersAttempted,
		s.ThreePointersMade,
		s.ThreePointersAttempted,
		s.FreeThrowsMade,
		s.FreeThrowsAttempted,
		s.MinutesPlayed,
		s.PlusMinus,
	}
}

func scanSheet(row rowScanner) (*models.PerformanceSheet, error) {
	s := &models.PerformanceSheet{}
	var (
		days    int64
		eventID sql.NullInt64
	)

	err := row.Scan(
		&s.ID,
		&days,
		&s.PlayerID,
		&eventID,
		&s.Points,
		&s.Assists,
		&s.OffensiveRebounds,
		&s.DefensiveRebounds,
		&s.Steals,
		&s.Blocks,
		&s.Turnovers,
		&s.Fouls,
		&s.TwoPointersMade,
		&s.TwoPointersAttempted,
		&s.ThreePointersMade,
		&s.ThreePointersAttempted,
		&s.FreeThrowsMade,
		&s.FreeThrowsAttempted,
		&s.MinutesPlayed,
		&s.PlusMinus,
	)
	if err != nil {
		return nil, err
	}

	s.Date = convert.FromDays(days)
	s.EventID = int64Ptr(eventID)
	return s, nil
}
