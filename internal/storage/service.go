package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ramonehamilton/hooplog/internal/events"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
	"github.com/ramonehamilton/hooplog/internal/storage/repository"
)

// Service is the single collaborator for callers that work with both events
// and performance sheets. It forwards to the DAOs without adding transactions
// or cross-entity checks: a sheet may name an event that does not exist.
type Service struct {
	db         *DB
	dispatcher *events.EventDispatcher
	events     repository.EventRepository
	sheets     repository.PerformanceSheetRepository
	players    repository.PlayerRepository
	goals      repository.GoalRepository
}

// NewService creates a new storage service. A nil dispatcher gets a private one.
func NewService(db *DB, dispatcher *events.EventDispatcher) *Service {
	if dispatcher == nil {
		dispatcher = events.NewEventDispatcher(db.logger)
	}
	conn := db.Conn()
	return &Service{
		db:         db,
		dispatcher: dispatcher,
		events:     repository.NewEventRepository(conn, dispatcher),
		sheets:     repository.NewPerformanceSheetRepository(conn, dispatcher),
		players:    repository.NewPlayerRepository(conn, dispatcher),
		goals:      repository.NewGoalRepository(conn, dispatcher),
	}
}

// Dispatcher returns the dispatcher that carries table change events.
func (s *Service) Dispatcher() *events.EventDispatcher { return s.dispatcher }

// DB returns the underlying database.
func (s *Service) DB() *DB { return s.db }

// Players returns the player DAO.
func (s *Service) Players() repository.PlayerRepository { return s.players }

// Goals returns the goal DAO.
func (s *Service) Goals() repository.GoalRepository { return s.goals }

// Events

func (s *Service) InsertEvent(ctx context.Context, event *models.Event) (int64, error) {
	return s.events.Insert(ctx, event)
}

func (s *Service) UpdateEvent(ctx context.Context, event *models.Event) error {
	return s.events.Update(ctx, event)
}

func (s *Service) DeleteEvent(ctx context.Context, event *models.Event) error {
	return s.events.Delete(ctx, event)
}

func (s *Service) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *Service) GetAllEvents(ctx context.Context) ([]*models.Event, error) {
	return s.events.GetAll(ctx)
}

func (s *Service) GetEventsByPlayer(ctx context.Context, playerID int64) ([]*models.Event, error) {
	return s.events.GetByPlayer(ctx, playerID)
}

func (s *Service) GetEventsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Event, error) {
	return s.events.GetByDateRange(ctx, start, end)
}

func (s *Service) ObserveEvents(ctx context.Context) *events.Subscription[[]*models.Event] {
	return s.events.ObserveAll(ctx)
}

func (s *Service) ObserveEventsByPlayer(ctx context.Context, playerID int64) *events.Subscription[[]*models.Event] {
	return s.events.ObserveByPlayer(ctx, playerID)
}

func (s *Service) ObserveEvent(ctx context.Context, id int64) *events.Subscription[*models.Event] {
	return s.events.ObserveByID(ctx, id)
}

// Performance sheets

func (s *Service) InsertSheet(ctx context.Context, sheet *models.PerformanceSheet) (int64, error) {
	return s.sheets.Insert(ctx, sheet)
}

func (s *Service) UpdateSheet(ctx context.Context, sheet *models.PerformanceSheet) error {
	return s.sheets.Update(ctx, sheet)
}

func (s *Service) DeleteSheet(ctx context.Context, sheet *models.PerformanceSheet) error {
	return s.sheets.Delete(ctx, sheet)
}

func (s *Service) GetSheet(ctx context.Context, id int64) (*models.PerformanceSheet, error) {
	return s.sheets.GetByID(ctx, id)
}

func (s *Service) GetAllSheets(ctx context.Context) ([]*models.PerformanceSheet, error) {
	return s.sheets.GetAll(ctx)
}

func (s *Service) GetSheetsByPlayer(ctx context.Context, playerID int64) ([]*models.PerformanceSheet, error) {
	return s.sheets.GetByPlayer(ctx, playerID)
}

func (s *Service) GetSheetsByEvent(ctx context.Context, eventID int64) ([]*models.PerformanceSheet, error) {
	return s.sheets.GetByEvent(ctx, eventID)
}

func (s *Service) GetSheetsByDate(ctx context.Context, date time.Time) ([]*models.PerformanceSheet, error) {
	return s.sheets.GetByDate(ctx, date)
}

func (s *Service) GetRecentSheets(ctx context.Context, playerID int64, limit int) ([]*models.PerformanceSheet, error) {
	return s.sheets.GetRecentByPlayer(ctx, playerID, limit)
}

func (s *Service) ObserveSheets(ctx context.Context) *events.Subscription[[]*models.PerformanceSheet] {
	return s.sheets.ObserveAll(ctx)
}

func (s *Service) ObserveSheetsByPlayer(ctx context.Context, playerID int64) *events.Subscription[[]*models.PerformanceSheet] {
	return s.sheets.ObserveByPlayer(ctx, playerID)
}

func (s *Service) ObserveSheetsByEvent(ctx context.Context, eventID int64) *events.Subscription[[]*models.PerformanceSheet] {
	return s.sheets.ObserveByEvent(ctx, eventID)
}

// SaveEventWithSheet stores an event and then a sheet pointing at it.
// The two writes are independent: if the sheet fails, the event stays stored
// and its id is still returned.
func (s *Service) SaveEventWithSheet(ctx context.Context, event *models.Event, sheet *models.PerformanceSheet) (eventID, sheetID int64, err error) {
	eventID, err = s.events.Insert(ctx, event)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to save event: %w", err)
	}

	sheet.EventID = &eventID
	if sheet.PlayerID == 0 && event.PlayerID != nil {
		sheet.PlayerID = *event.PlayerID
	}
	if sheet.Date.IsZero() {
		sheet.Date = event.Timestamp
	}

	sheetID, err = s.sheets.Insert(ctx, sheet)
	if err != nil {
		return eventID, 0, fmt.Errorf("failed to save performance sheet for event %d: %w", eventID, err)
	}
	return eventID, sheetID, nil
}

// ClearAll removes every row from every table in one transaction.
// Used by the seed loader before a fresh import.
func (s *Service) ClearAll(ctx context.Context) error {
	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range events.AllTables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, table := range events.AllTables {
		events.PublishChange(ctx, s.dispatcher, table, events.OpDelete, 0)
	}
	return nil
}

// Close closes the database connection.
func (s *Service) Close() error {
	return s.db.Close()
}
