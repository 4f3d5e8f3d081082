package models

import "time"

// GoalType is the stat or fitness category a goal targets.
type GoalType string

const (
	GoalTypePoints               GoalType = "POINTS"
	GoalTypeAssists              GoalType = "ASSISTS"
	GoalTypeRebounds             GoalType = "REBOUNDS"
	GoalTypeOffensiveRebounds    GoalType = "OFFENSIVE_REBOUNDS"
	GoalTypeDefensiveRebounds    GoalType = "DEFENSIVE_REBOUNDS"
	GoalTypeSteals               GoalType = "STEALS"
	GoalTypeBlocks               GoalType = "BLOCKS"
	GoalTypeTurnovers            GoalType = "TURNOVERS"
	GoalTypeFouls                GoalType = "FOULS"
	GoalTypeTwoPointPercentage   GoalType = "TWO_POINT_PERCENTAGE"
	GoalTypeThreePointPercentage GoalType = "THREE_POINT_PERCENTAGE"
	GoalTypeFreeThrowPercentage  GoalType = "FREE_THROW_PERCENTAGE"
	GoalTypeThreePointersMade    GoalType = "THREE_POINTERS_MADE"
	GoalTypeMinutesPlayed        GoalType = "MINUTES_PLAYED"
	GoalTypePlusMinus            GoalType = "PLUS_MINUS"
	GoalTypeTrainingSessions     GoalType = "TRAINING_SESSIONS"
	GoalTypeRunningDistance      GoalType = "RUNNING_DISTANCE"
	GoalTypeVerticalJump         GoalType = "VERTICAL_JUMP"
	GoalTypeWeight               GoalType = "WEIGHT"
)

// GoalTypes lists every goal type in display order.
var GoalTypes = []GoalType{
	GoalTypePoints, GoalTypeAssists, GoalTypeRebounds, GoalTypeOffensiveRebounds,
	GoalTypeDefensiveRebounds, GoalTypeSteals, GoalTypeBlocks, GoalTypeTurnovers,
	GoalTypeFouls, GoalTypeTwoPointPercentage, GoalTypeThreePointPercentage,
	GoalTypeFreeThrowPercentage, GoalTypeThreePointersMade, GoalTypeMinutesPlayed,
	GoalTypePlusMinus, GoalTypeTrainingSessions, GoalTypeRunningDistance,
	GoalTypeVerticalJump, GoalTypeWeight,
}

// GoalFrequency qualifies how the target quantity is measured.
type GoalFrequency string

const (
	FrequencyPerGame            GoalFrequency = "PER_GAME"
	FrequencyPerMonth           GoalFrequency = "PER_MONTH"
	FrequencyPerSeason          GoalFrequency = "PER_SEASON"
	FrequencyOverall            GoalFrequency = "OVERALL"
	FrequencyLastXGames         GoalFrequency = "LAST_X_GAMES"
	FrequencyNextXGames         GoalFrequency = "NEXT_X_GAMES"
	FrequencySpecificGame       GoalFrequency = "SPECIFIC_GAME"
	FrequencyPersonalBest       GoalFrequency = "PERSONAL_BEST"
	FrequencyMaintainPercentage GoalFrequency = "MAINTAIN_PERCENTAGE"
)

// GoalFrequencies lists every frequency in display order.
var GoalFrequencies = []GoalFrequency{
	FrequencyPerGame, FrequencyPerMonth, FrequencyPerSeason, FrequencyOverall,
	FrequencyLastXGames, FrequencyNextXGames, FrequencySpecificGame,
	FrequencyPersonalBest, FrequencyMaintainPercentage,
}

// GoalStatus is the user-managed state of a goal.
type GoalStatus string

const (
	GoalStatusInProgress GoalStatus = "IN_PROGRESS"
	GoalStatusCompleted  GoalStatus = "COMPLETED"
	GoalStatusFailed     GoalStatus = "FAILED"
	GoalStatusCancelled  GoalStatus = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusInProgress, GoalStatusCompleted, GoalStatusFailed, GoalStatusCancelled:
		return true
	}
	return false
}

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	for _, known := range GoalTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Valid reports whether f is a known frequency.
func (f GoalFrequency) Valid() bool {
	for _, known := range GoalFrequencies {
		if f == known {
			return true
		}
	}
	return false
}

// Goal is a user-defined target expressed as (type, quantity, frequency).
// Status changes only when the user edits the goal.
type Goal struct {
	ID              int64         `json:"id"`
	PlayerID        int64         `json:"player_id"`
	Description     string        `json:"description"`
	Type            GoalType      `json:"type"`
	TargetQuantity  float64       `json:"target_quantity"`
	Frequency       GoalFrequency `json:"frequency"`
	Notes           *string       `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	Status          GoalStatus    `json:"status"`
	CurrentProgress float64       `json:"current_progress"`
}
