package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ramonehamilton/hooplog/internal/events"
	"github.com/ramonehamilton/hooplog/internal/storage/convert"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// ErrDuplicateEmail is returned when a write would give two players the
// same email. Emails compare case-insensitively.
var ErrDuplicateEmail = errors.New("email already in use")

// PlayerRepository provides methods for managing players.
type PlayerRepository interface {
	Insert(ctx context.Context, player *models.Player) (int64, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int64) (*models.Player, error)
	// GetByEmail matches case-insensitively. Returns nil if not found.
	GetByEmail(ctx context.Context, email string) (*models.Player, error)
	// GetAll returns every player ordered by email.
	GetAll(ctx context.Context) ([]*models.Player, error)
	ObserveAll(ctx context.Context) *events.Subscription[[]*models.Player]
}

const playerColumns = `id, name, username, email, password_hash, jersey_number, position, team_id, photo_url, created_at`

type playerRepository struct {
	db         *sql.DB
	dispatcher *events.EventDispatcher
}

// NewPlayerRepository creates a new player repository.
func NewPlayerRepository(db *sql.DB, dispatcher *events.EventDispatcher) PlayerRepository {
	if dispatcher == nil {
		dispatcher = events.NewEventDispatcher(nil)
	}
	return &playerRepository{db: db, dispatcher: dispatcher}
}

// Insert stores a player. An id of 0 creates a new row. A known id replaces
// that row. An email held by another player is rejected with
// ErrDuplicateEmail and the stored rows are left alone.
func (r *playerRepository) Insert(ctx context.Context, player *models.Player) (int64, error) {
	query := `
		INSERT INTO players (` + playerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if player.ID != 0 {
		query += `
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, username = excluded.username, email = excluded.email,
			password_hash = excluded.password_hash, jersey_number = excluded.jersey_number,
			position = excluded.position, team_id = excluded.team_id,
			photo_url = excluded.photo_url, created_at = excluded.created_at
		`
	}
	result, err := r.db.ExecContext(ctx, query,
		nullableID(player.ID),
		player.Name,
		player.Username,
		player.Email,
		player.PasswordHash,
		player.JerseyNumber,
		player.Position,
		player.TeamID,
		player.PhotoURL,
		convert.Millis(player.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert player: %w", emailConflict(err))
	}

	if player.ID != 0 {
		events.PublishChange(ctx, r.dispatcher, events.TablePlayers, events.OpInsert, player.ID)
		return player.ID, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	player.ID = id

	events.PublishChange(ctx, r.dispatcher, events.TablePlayers, events.OpInsert, id)
	return id, nil
}

// Update replaces the stored player with the same id.
func (r *playerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET name = ?, username = ?, email = ?, password_hash = ?,
			jersey_number = ?, position = ?, team_id = ?, photo_url = ?, created_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		player.Name,
		player.Username,
		player.Email,
		player.PasswordHash,
		player.JerseyNumber,
		player.Position,
		player.TeamID,
		player.PhotoURL,
		convert.Millis(player.CreatedAt),
		player.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", emailConflict(err))
	}

	if changed(result) {
		events.PublishChange(ctx, r.dispatcher, events.TablePlayers, events.OpUpdate, player.ID)
	}
	return nil
}

// Delete removes the stored player. Owned events, sheets and goals are kept.
func (r *playerRepository) Delete(ctx context.Context, player *models.Player) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, player.ID)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	if changed(result) {
		events.PublishChange(ctx, r.dispatcher, events.TablePlayers, events.OpDelete, player.ID)
	}
	return nil
}

// GetByID retrieves a player by ID.
func (r *playerRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = ?`
	return r.getOne(ctx, "failed to get player by id", query, id)
}

// GetByEmail retrieves a player by email address.
func (r *playerRepository) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE email = ? COLLATE NOCASE`
	return r.getOne(ctx, "failed to get player by email", query, email)
}

// GetAll returns every player ordered by email.
func (r *playerRepository) GetAll(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY email ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	defer func() { _ = rows.Close() }()

	players := []*models.Player{}
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	return players, nil
}

// ObserveAll is the live form of GetAll.
func (r *playerRepository) ObserveAll(ctx context.Context) *events.Subscription[[]*models.Player] {
	return events.Watch(ctx, r.dispatcher, []string{events.TablePlayers}, r.GetAll)
}

func (r *playerRepository) getOne(ctx context.Context, errMsg, query string, arg interface{}) (*models.Player, error) {
	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return player, nil
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	player := &models.Player{}
	var (
		jerseyNumber, teamID sql.NullInt64
		position, photoURL   sql.NullString
		createdAt            int64
	)

	err := row.Scan(
		&player.ID,
		&player.Name,
		&player.Username,
		&player.Email,
		&player.PasswordHash,
		&jerseyNumber,
		&position,
		&teamID,
		&photoURL,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	player.JerseyNumber = intPtr(jerseyNumber)
	player.Position = stringPtr(position)
	player.TeamID = int64Ptr(teamID)
	player.PhotoURL = stringPtr(photoURL)
	player.CreatedAt = convert.FromMillis(createdAt)

	return player, nil
}

// emailConflict marks a unique violation on players.email with
// ErrDuplicateEmail.
func emailConflict(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) &&
		sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(sqliteErr.Error(), "players.email") {
		return errors.Join(ErrDuplicateEmail, err)
	}
	return err
}
