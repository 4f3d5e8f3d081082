package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ramonehamilton/hooplog/internal/events"
	"github.com/ramonehamilton/hooplog/internal/storage/convert"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// GoalRepository handles database operations for player goals.
type GoalRepository interface {
	// Insert stores a goal, replacing any row with the same id.
	Insert(ctx context.Context, goal *models.Goal) (int64, error)

	// Update replaces the stored goal with the same id. No-op if absent.
	Update(ctx context.Context, goal *models.Goal) error

	// Delete removes the stored goal with the same id.
	Delete(ctx context.Context, goal *models.Goal) error

	// GetByID retrieves a goal by ID. Returns nil if not found.
	GetByID(ctx context.Context, id int64) (*models.Goal, error)

	// GetByPlayer retrieves a player's goals, newest first.
	GetByPlayer(ctx context.Context, playerID int64) ([]*models.Goal, error)

	// GetByPlayerAndStatus retrieves a player's goals in one status, newest first.
	GetByPlayerAndStatus(ctx context.Context, playerID int64, status models.GoalStatus) ([]*models.Goal, error)

	// ObserveByPlayer is the live form of GetByPlayer.
	ObserveByPlayer(ctx context.Context, playerID int64) *events.Subscription[[]*models.Goal]
}

const goalColumns = `
	id, player_id, description, type, target_quantity, frequency,
	notes, created_at, completed_at, status, current_progress`

type goalRepository struct {
	db         *sql.DB
	dispatcher *events.EventDispatcher
}

// NewGoalRepository creates a new goal repository.
func NewGoalRepository(db *sql.DB, dispatcher *events.EventDispatcher) GoalRepository {
	if dispatcher == nil {
		dispatcher = events.NewEventDispatcher(nil)
	}
	return &goalRepository{db: db, dispatcher: dispatcher}
}

// Insert stores a goal, replacing any row with the same id.
func (r *goalRepository) Insert(ctx context.Context, goal *models.Goal) (int64, error) {
	if goal.Status == "" {
		goal.Status = models.GoalStatusInProgress
	}

	query := `
		INSERT OR REPLACE INTO goals (` + goalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		nullableID(goal.ID),
		goal.PlayerID,
		goal.Description,
		string(goal.Type),
		goal.TargetQuantity,
		string(goal.Frequency),
		goal.Notes,
		convert.Millis(goal.CreatedAt),
		convert.TimeToMillis(goal.CompletedAt),
		string(goal.Status),
		goal.CurrentProgress,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert goal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	goal.ID = id

	events.PublishChange(ctx, r.dispatcher, events.TableGoals, events.OpInsert, id)
	return id, nil
}

// Update replaces the stored goal with the same id.
func (r *goalRepository) Update(ctx context.Context, goal *models.Goal) error {
	query := `
		UPDATE goals
		SET player_id = ?, description = ?, type = ?, target_quantity = ?, frequency = ?,
			notes = ?, created_at = ?, completed_at = ?, status = ?, current_progress = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		goal.PlayerID,
		goal.Description,
		string(goal.Type),
		goal.TargetQuantity,
		string(goal.Frequency),
		goal.Notes,
		convert.Millis(goal.CreatedAt),
		convert.TimeToMillis(goal.CompletedAt),
		string(goal.Status),
		goal.CurrentProgress,
		goal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	if changed(result) {
		events.PublishChange(ctx, r.dispatcher, events.TableGoals, events.OpUpdate, goal.ID)
	}
	return nil
}

// Delete removes the stored goal with the same id.
func (r *goalRepository) Delete(ctx context.Context, goal *models.Goal) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, goal.ID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	if changed(result) {
		events.PublishChange(ctx, r.dispatcher, events.TableGoals, events.OpDelete, goal.ID)
	}
	return nil
}

// GetByID retrieves a goal by ID.
func (r *goalRepository) GetByID(ctx context.Context, id int64) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = ?`

	goal, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal by id: %w", err)
	}
	return goal, nil
}

// GetByPlayer retrieves a player's goals, newest first.
func (r *goalRepository) GetByPlayer(ctx context.Context, playerID int64) ([]*models.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE player_id = ?
		ORDER BY created_at DESC, id DESC
	`
	return r.query(ctx, "failed to get goals by player", query, playerID)
}

// GetByPlayerAndStatus retrieves a player's goals in one status, newest first.
func (r *goalRepository) GetByPlayerAndStatus(ctx context.Context, playerID int64, status models.GoalStatus) ([]*models.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE player_id = ? AND status = ?
		ORDER BY created_at DESC, id DESC
	`
	return r.query(ctx, "failed to get goals by status", query, playerID, string(status))
}

// ObserveByPlayer is the live form of GetByPlayer.
func (r *goalRepository) ObserveByPlayer(ctx context.Context, playerID int64) *events.Subscription[[]*models.Goal] {
	return events.Watch(ctx, r.dispatcher, []string{events.TableGoals}, func(ctx context.Context) ([]*models.Goal, error) {
		return r.GetByPlayer(ctx, playerID)
	})
}

func (r *goalRepository) query(ctx context.Context, errMsg, query string, args ...interface{}) ([]*models.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	defer func() { _ = rows.Close() }()

	goals := []*models.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return goals, nil
}

func scanGoal(row rowScanner) (*models.Goal, error) {
	goal := &models.Goal{}
	var (
		goalType, frequency, status string
		notes                       sql.NullString
		createdAt                   int64
		completedAt                 sql.NullInt64
	)

	err := row.Scan(
		&goal.ID,
		&goal.PlayerID,
		&goal.Description,
		&goalType,
		&goal.TargetQuantity,
		&frequency,
		&notes,
		&createdAt,
		&completedAt,
		&status,
		&goal.CurrentProgress,
	)
	if err != nil {
		return nil, err
	}

	goal.Type = models.GoalType(goalType)
	goal.Frequency = models.GoalFrequency(frequency)
	goal.Status = models.GoalStatus(status)
	goal.Notes = stringPtr(notes)
	goal.CreatedAt = convert.FromMillis(createdAt)
	goal.CompletedAt = convert.MillisToTime(int64Ptr(completedAt))

	return goal, nil
}
