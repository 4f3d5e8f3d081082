package gui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ramonehamilton/hooplog/internal/goals"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// InvalidInputMessage is shown when a form cannot be parsed.
const InvalidInputMessage = "Por favor, revisa los datos introducidos"

// Form layouts for date and time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ErrInvalidInput is wrapped by every form parse error.
var ErrInvalidInput = errors.New("invalid input")

// FieldError names the form field that failed to parse.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value %q for %s", e.Value, e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// FormState is what a screen needs to render the result of a submit.
type FormState struct {
	InvalidInput bool   `json:"invalid_input"`
	Message      string `json:"message,omitempty"`
	Field        string `json:"field,omitempty"`
	Saved        bool   `json:"saved"`
	ID           int64  `json:"id,omitempty"`

	err error
}

// Err returns the error behind a failed submit.
func (s FormState) Err() error {
	return s.err
}

// StateFor turns a submit result into a FormState.
func StateFor(id int64, err error) FormState {
	if err == nil {
		return FormState{Saved: true, ID: id}
	}

	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return FormState{InvalidInput: true, Message: InvalidInputMessage, Field: fieldErr.Field, err: err}
	}
	if errors.Is(err, ErrInvalidInput) {
		return FormState{InvalidInput: true, Message: InvalidInputMessage, err: err}
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return FormState{Message: appErr.Message, err: err}
	}
	return FormState{Message: "No se ha podido guardar", err: err}
}

// parseCount parses a non-negative integer. Blank means zero.
func parseCount(field, value string) (int, error) {
	n, err := parseInt(field, value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &FieldError{Field: field, Value: value}
	}
	return n, nil
}

// parseInt parses a possibly negative integer. Blank means zero.
func parseInt(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(value, "+"))
	if err != nil {
		return 0, &FieldError{Field: field, Value: value}
	}
	return n, nil
}

// parseOptionalInt returns nil for a blank value.
func parseOptionalInt(field, value string) (*int, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	n, err := parseCount(field, value)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// parseQuantity accepts "." or "," as the decimal separator. NaN and
// infinities are rejected.
func parseQuantity(field, value string) (float64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	q, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, &FieldError{Field: field, Value: value}
	}
	return q, nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, &FieldError{Field: field, Value: value}
	}
	return d, nil
}

// SheetForm holds the free-text fields of the performance sheet screen.
type SheetForm struct {
	Date                   string `json:"date"`
	Points                 string `json:"points"`
	Assists                string `json:"assists"`
	OffensiveRebounds      string `json:"offensive_rebounds"`
	DefensiveRebounds      string `json:"defensive_rebounds"`
	Steals                 string `json:"steals"`
	Blocks                 string `json:"blocks"`
	Turnovers              string `json:"turnovers"`
	Fouls                  string `json:"fouls"`
	TwoPointersMade        string `json:"two_pointers_made"`
	TwoPointersAttempted   string `json:"two_pointers_attempted"`
	ThreePointersMade      string `json:"three_pointers_made"`
	ThreePointersAttempted string `json:"three_pointers_attempted"`
	FreeThrowsMade         string `json:"free_throws_made"`
	FreeThrowsAttempted    string `json:"free_throws_attempted"`
	MinutesPlayed          string `json:"minutes_played"`
	PlusMinus              string `json:"plus_minus"`
}

// Parse builds a sheet for playerID. eventID may be nil.
func (f SheetForm) Parse(playerID int64, eventID *int64) (*models.PerformanceSheet, error) {
	date, err := parseDate("date", f.Date)
	if err != nil {
		return nil, err
	}

	sheet := &models.PerformanceSheet{Date: date, PlayerID: playerID, EventID: eventID}
	counts := []struct {
		field string
		value string
		dst   *int
	}{
		{"points", f.Points, &sheet.Points},
		{"assists", f.Assists, &sheet.Assists},
		{"offensive_rebounds", f.OffensiveRebounds, &sheet.OffensiveRebounds},
		{"defensive_rebounds", f.DefensiveRebounds, &sheet.DefensiveRebounds},
		{"steals", f.Steals, &sheet.Steals},
		{"blocks", f.Blocks, &sheet.Blocks},
		{"turnovers", f.Turnovers, &sheet.Turnovers},
		{"fouls", f.Fouls, &sheet.Fouls},
		{"two_pointers_made", f.TwoPointersMade, &sheet.TwoPointersMade},
		{"two_pointers_attempted", f.TwoPointersAttempted, &sheet.TwoPointersAttempted},
		{"three_pointers_made", f.ThreePointersMade, &sheet.ThreePointersMade},
		{"three_pointers_attempted", f.ThreePointersAttempted, &sheet.ThreePointersAttempted},
		{"free_throws_made", f.FreeThrowsMade, &sheet.FreeThrowsMade},
		{"free_throws_attempted", f.FreeThrowsAttempted, &sheet.FreeThrowsAttempted},
		{"minutes_played", f.MinutesPlayed, &sheet.MinutesPlayed},
	}
	for _, c := range counts {
		if *c.dst, err = parseCount(c.field, c.value); err != nil {
			return nil, err
		}
	}
	if sheet.PlusMinus, err = parseInt("plus_minus", f.PlusMinus); err != nil {
		return nil, err
	}
	return sheet, nil
}

// SheetFormFrom fills a form from a stored sheet for editing.
func SheetFormFrom(s *models.PerformanceSheet) SheetForm {
	itoa := strconv.Itoa
	return SheetForm{
		Date:                   s.Date.Format(DateLayout),
		Points:                 itoa(s.Points),
		Assists:                itoa(s.Assists),
		OffensiveRebounds:      itoa(s.OffensiveRebounds),
		DefensiveRebounds:      itoa(s.DefensiveRebounds),
		Steals:                 itoa(s.Steals),
		Blocks:                 itoa(s.Blocks),
		Turnovers:              itoa(s.Turnovers),
		Fouls:                  itoa(s.Fouls),
		TwoPointersMade:        itoa(s.TwoPointersMade),
		TwoPointersAttempted:   itoa(s.TwoPointersAttempted),
		ThreePointersMade:      itoa(s.ThreePointersMade),
		ThreePointersAttempted: itoa(s.ThreePointersAttempted),
		FreeThrowsMade:         itoa(s.FreeThrowsMade),
		FreeThrowsAttempted:    itoa(s.FreeThrowsAttempted),
		MinutesPlayed:          itoa(s.MinutesPlayed),
		PlusMinus:              itoa(s.PlusMinus),
	}
}

// EventForm holds the fields of the event entry screen.
type EventForm struct {
	Type          string `json:"type"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Opponent      string `json:"opponent"`
	TeamScore     string `json:"team_score"`
	OpponentScore string `json:"opponent_score"`
	Notes         string `json:"notes"`
}

// Parse builds an event for playerID. Match-only fields are dropped for
// training sessions. Date and time are read in loc.
func (f EventForm) Parse(playerID int64, loc *time.Location) (*models.Event, error) {
	eventType := models.EventType(strings.ToUpper(strings.TrimSpace(f.Type)))
	if !eventType.Valid() {
		return nil, &FieldError{Field: "type", Value: f.Type}
	}

	if loc == nil {
		loc = time.UTC
	}
	clock := strings.TrimSpace(f.Time)
	if clock == "" {
		clock = "00:00"
	}
	ts, err := time.ParseInLocation(DateLayout+" "+TimeLayout, strings.TrimSpace(f.Date)+" "+clock, loc)
	if err != nil {
		return nil, &FieldError{Field: "date", Value: f.Date + " " + f.Time}
	}

	event := &models.Event{
		PlayerID:  &playerID,
		Type:      eventType,
		Timestamp: ts,
		Notes:     models.StringPtr(strings.TrimSpace(f.Notes)),
	}
	if eventType == models.EventTypeMatch {
		event.Opponent = models.StringPtr(strings.TrimSpace(f.Opponent))
		if event.TeamScore, err = parseOptionalInt("team_score", f.TeamScore); err != nil {
			return nil, err
		}
		if event.OpponentScore, err = parseOptionalInt("opponent_score", f.OpponentScore); err != nil {
			return nil, err
		}
	}
	return event, nil
}

// GoalForm holds the fields of the goal screen.
type GoalForm struct {
	Type      string `json:"type"`
	Quantity  string `json:"quantity"`
	Frequency string `json:"frequency"`
	Notes     string `json:"notes"`
}

// Parse builds a new in-progress goal with a generated description.
func (f GoalForm) Parse(playerID int64, now time.Time) (*models.Goal, error) {
	goalType := models.GoalType(strings.TrimSpace(f.Type))
	if !goalType.Valid() {
		return nil, &FieldError{Field: "type", Value: f.Type}
	}
	frequency := models.GoalFrequency(strings.TrimSpace(f.Frequency))
	if !frequency.Valid() {
		return nil, &FieldError{Field: "frequency", Value: f.Frequency}
	}
	quantity, err := parseQuantity("quantity", f.Quantity)
	if err != nil {
		return nil, err
	}

	return &models.Goal{
		PlayerID:       playerID,
		Description:    goals.Describe(goalType, quantity, frequency),
		Type:           goalType,
		TargetQuantity: quantity,
		Frequency:      frequency,
		Notes:          models.StringPtr(strings.TrimSpace(f.Notes)),
		CreatedAt:      now,
		Status:         models.GoalStatusInProgress,
	}, nil
}
