// Package goals builds the Spanish description stored with each goal.
package goals

import (
	"fmt"
	"strconv"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// Describe joins a quantity clause for goalType and a frequency clause.
// Unknown types get a generic clause and unknown frequencies add nothing.
func Describe(goalType models.GoalType, quantity float64, frequency models.GoalFrequency) string {
	return quantityClause(goalType, FormatQuantity(quantity)) + frequencyClause(frequency)
}

// FormatQuantity prints q without trailing zeros: 20 -> "20", 45.50 -> "45.5".
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func quantityClause(goalType models.GoalType, q string) string {
	switch goalType {
	case models.GoalTypePoints:
		return fmt.Sprintf("Anotar %s puntos", q)
	case models.GoalTypeAssists:
		return fmt.Sprintf("Dar %s asistencias", q)
	case models.GoalTypeRebounds:
		return fmt.Sprintf("Capturar %s rebotes", q)
	case models.GoalTypeOffensiveRebounds:
		return fmt.Sprintf("Capturar %s rebotes ofensivos", q)
	case models.GoalTypeDefensiveRebounds:
		return fmt.Sprintf("Capturar %s rebotes defensivos", q)
	case models.GoalTypeSteals:
		return fmt.Sprintf("Robar %s balones", q)
	case models.GoalTypeBlocks:
		return fmt.Sprintf("Poner %s tapones", q)
	case models.GoalTypeTurnovers:
		return fmt.Sprintf("No superar %s pérdidas", q)
	case models.GoalTypeFouls:
		return fmt.Sprintf("No superar %s faltas", q)
	case models.GoalTypeTwoPointPercentage:
		return fmt.Sprintf("Alcanzar un %s%% en tiros de dos", q)
	case models.GoalTypeThreePointPercentage:
		return fmt.Sprintf("Alcanzar un %s%% en triples", q)
	case models.GoalTypeFreeThrowPercentage:
		return fmt.Sprintf("Alcanzar un %s%% en tiros libres", q)
	case models.GoalTypeThreePointersMade:
		return fmt.Sprintf("Meter %s triples", q)
	case models.GoalTypeMinutesPlayed:
		return fmt.Sprintf("Jugar %s minutos", q)
	case models.GoalTypePlusMinus:
		return fmt.Sprintf("Lograr un +/- de %s", q)
	case models.GoalTypeTrainingSessions:
		return fmt.Sprintf("Completar %s entrenamientos", q)
	case models.GoalTypeRunningDistance:
		return fmt.Sprintf("Correr %s km", q)
	case models.GoalTypeVerticalJump:
		return fmt.Sprintf("Saltar %s cm en vertical", q)
	case models.GoalTypeWeight:
		return fmt.Sprintf("Alcanzar un peso de %s kg", q)
	default:
		return fmt.Sprintf("Alcanzar %s", q)
	}
}

func frequencyClause(frequency models.GoalFrequency) string {
	switch frequency {
	case models.FrequencyPerGame:
		return " por partido"
	case models.FrequencyPerMonth:
		return " al mes"
	case models.FrequencyPerSeason:
		return " en la temporada"
	case models.FrequencyOverall:
		return " en total"
	case models.FrequencyLastXGames:
		return " en los últimos partidos"
	case models.FrequencyNextXGames:
		return " en los próximos partidos"
	case models.FrequencySpecificGame:
		return " en un partido concreto"
	case models.FrequencyPersonalBest:
		return " como récord personal"
	case models.FrequencyMaintainPercentage:
		return " de forma constante"
	default:
		return ""
	}
}
