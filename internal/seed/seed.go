// Package seed loads demo journals from YAML fixtures.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ramonehamilton/hooplog/internal/auth"
	"github.com/ramonehamilton/hooplog/internal/goals"
	"github.com/ramonehamilton/hooplog/internal/storage"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// File is the root of a fixture document.
type File struct {
	// Reset clears every table before loading.
	Reset   bool     `yaml:"reset"`
	Players []Player `yaml:"players"`
}

// Player is a registered player with their journal.
type Player struct {
	Name         string  `yaml:"name"`
	Username     string  `yaml:"username"`
	Email        string  `yaml:"email"`
	Password     string  `yaml:"password"`
	JerseyNumber *int    `yaml:"jersey_number"`
	Position     string  `yaml:"position"`
	Events       []Event `yaml:"events"`
	Goals        []Goal  `yaml:"goals"`
}

// Event is a match or training session, optionally with the sheet
// recorded for it.
type Event struct {
	Type          models.EventType `yaml:"type"`
	Date          string           `yaml:"date"`
	Time          string           `yaml:"time"`
	Opponent      string           `yaml:"opponent"`
	TeamScore     *int             `yaml:"team_score"`
	OpponentScore *int             `yaml:"opponent_score"`
	Notes         string           `yaml:"notes"`
	Sheet         *Sheet           `yaml:"sheet"`
}

// Sheet holds counting stats. Its date is the event's date.
type Sheet struct {
	Points                 int `yaml:"points"`
	Assists                int `yaml:"assists"`
	OffensiveRebounds      int `yaml:"offensive_rebounds"`
	DefensiveRebounds      int `yaml:"defensive_rebounds"`
	Steals                 int `yaml:"steals"`
	Blocks                 int `yaml:"blocks"`
	Turnovers              int `yaml:"turnovers"`
	Fouls                  int `yaml:"fouls"`
	TwoPointersMade        int `yaml:"two_pointers_made"`
	TwoPointersAttempted   int `yaml:"two_pointers_attempted"`
	ThreePointersMade      int `yaml:"three_pointers_made"`
	ThreePointersAttempted int `yaml:"three_pointers_attempted"`
	FreeThrowsMade         int `yaml:"free_throws_made"`
	FreeThrowsAttempted    int `yaml:"free_throws_attempted"`
	MinutesPlayed          int `yaml:"minutes_played"`
	PlusMinus              int `yaml:"plus_minus"`
}

// Goal is a target. Status defaults to IN_PROGRESS.
type Goal struct {
	Type      models.GoalType      `yaml:"type"`
	Quantity  float64              `yaml:"quantity"`
	Frequency models.GoalFrequency `yaml:"frequency"`
	Status    models.GoalStatus    `yaml:"status"`
	Progress  float64              `yaml:"progress"`
	Notes     string               `yaml:"notes"`
}

// Result counts what a load stored.
type Result struct {
	Players int
	Events  int
	Sheets  int
	Goals   int
}

// Parse decodes a fixture. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// Loader writes fixtures through the storage service and authenticator.
type Loader struct {
	store    *storage.Service
	auth     *auth.Authenticator
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewLoader creates a loader. Event times are read in loc, UTC if nil.
func NewLoader(store *storage.Service, authenticator *auth.Authenticator, loc *time.Location, logger *zap.Logger) *Loader {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		store:    store,
		auth:     authenticator,
		location: loc,
		now:      time.Now,
		logger:   logger,
	}
}

// LoadFile parses and loads the fixture at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer file.Close()

	f, err := Parse(file)
	if err != nil {
		return Result{}, err
	}
	return l.Load(ctx, f)
}

// Load stores every player, event, sheet and goal in f. A player whose
// email is already registered is reused and their password is left alone.
func (l *Loader) Load(ctx context.Context, f *File) (Result, error) {
	var result Result

	if f.Reset {
		if err := l.store.ClearAll(ctx); err != nil {
			return result, err
		}
		l.logger.Info("cleared journal before seeding")
	}

	for i, p := range f.Players {
		player, err := l.player(ctx, p)
		if err != nil {
			return result, fmt.Errorf("player %d: %w", i+1, err)
		}
		result.Players++

		for j, e := range p.Events {
			hasSheet, err := l.event(ctx, player.ID, e)
			if err != nil {
				return result, fmt.Errorf("player %s, event %d: %w", player.Email, j+1, err)
			}
			result.Events++
			if hasSheet {
				result.Sheets++
			}
		}

		for j, g := range p.Goals {
			if err := l.goal(ctx, player.ID, g); err != nil {
				return result, fmt.Errorf("player %s, goal %d: %w", player.Email, j+1, err)
			}
			result.Goals++
		}
	}

	l.logger.Info("seeded journal",
		zap.Int("players", result.Players),
		zap.Int("events", result.Events),
		zap.Int("sheets", result.Sheets),
		zap.Int("goals", result.Goals))
	return result, nil
}

func (l *Loader) player(ctx context.Context, p Player) (*models.Player, error) {
	player, err := l.auth.Register(ctx, auth.Registration{
		Name:         p.Name,
		Username:     p.Username,
		Email:        p.Email,
		Password:     p.Password,
		JerseyNumber: p.JerseyNumber,
		Position:     models.StringPtr(strings.TrimSpace(p.Position)),
	})
	if errors.Is(err, auth.ErrEmailTaken) {
		return l.store.Players().GetByEmail(ctx, p.Email)
	}
	return player, err
}

func (l *Loader) event(ctx context.Context, playerID int64, e Event) (bool, error) {
	if !e.Type.Valid() {
		return false, fmt.Errorf("unknown event type %q", e.Type)
	}
	clock := e.Time
	if clock == "" {
		clock = "00:00"
	}
	ts, err := time.ParseInLocation(dateLayout+" "+timeLayout, e.Date+" "+clock, l.location)
	if err != nil {
		return false, fmt.Errorf("invalid date %q: %w", e.Date+" "+clock, err)
	}

	event := &models.Event{
		PlayerID:      &playerID,
		Type:          e.Type,
		Timestamp:     ts,
		Opponent:      models.StringPtr(strings.TrimSpace(e.Opponent)),
		TeamScore:     e.TeamScore,
		OpponentScore: e.OpponentScore,
		Notes:         models.StringPtr(strings.TrimSpace(e.Notes)),
	}
	event.Normalize()

	if e.Sheet == nil {
		_, err := l.store.InsertEvent(ctx, event)
		return false, err
	}

	day, _ := time.Parse(dateLayout, e.Date)
	sheet := e.Sheet.model(playerID, day)
	if err := sheet.Validate(); err != nil {
		return false, err
	}
	_, _, err = l.store.SaveEventWithSheet(ctx, event, sheet)
	return true, err
}

func (s *Sheet) model(playerID int64, day time.Time) *models.PerformanceSheet {
	return &models.PerformanceSheet{
		Date:                   day,
		PlayerID:               playerID,
		Points:                 s.Points,
		Assists:                s.Assists,
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
	}
}

func (l *Loader) goal(ctx context.Context, playerID int64, g Goal) error {
	if !g.Type.Valid() {
		return fmt.Errorf("unknown goal type %q", g.Type)
	}
	if !g.Frequency.Valid() {
		return fmt.Errorf("unknown goal frequency %q", g.Frequency)
	}
	status := g.Status
	if status == "" {
		status = models.GoalStatusInProgress
	}
	if !status.Valid() {
		return fmt.Errorf("unknown goal status %q", g.Status)
	}

	now := l.now()
	goal := &models.Goal{
		PlayerID:        playerID,
		Description:     goals.Describe(g.Type, g.Quantity, g.Frequency),
		Type:            g.Type,
		TargetQuantity:  g.Quantity,
		Frequency:       g.Frequency,
		Notes:           models.StringPtr(strings.TrimSpace(g.Notes)),
		CreatedAt:       now,
		Status:          status,
		CurrentProgress: g.Progress,
	}
	if status == models.GoalStatusCompleted {
		goal.CompletedAt = &now
	}

	_, err := l.store.Goals().Insert(ctx, goal)
	return err
}
