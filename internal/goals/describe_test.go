package goals

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		goalType  models.GoalType
		quantity  float64
		frequency models.GoalFrequency
		want      string
	}{
		{models.GoalTypePoints, 20.0, models.FrequencyPerGame, "Anotar 20 puntos por partido"},
		{models.GoalTypeThreePointPercentage, 45.5, models.FrequencyMaintainPercentage, "Alcanzar un 45.5% en triples de forma constante"},
		{models.GoalTypeAssists, 150, models.FrequencyPerSeason, "Dar 150 asistencias en la temporada"},
		{models.GoalTypeRunningDistance, 12.25, models.FrequencyPerMonth, "Correr 12.25 km al mes"},
		{models.GoalTypeTurnovers, 2, models.FrequencyLastXGames, "No superar 2 pérdidas en los últimos partidos"},
		{models.GoalType("DUNKS"), 3, models.FrequencyOverall, "Alcanzar 3 en total"},
		{models.GoalTypeBlocks, 4, models.GoalFrequency("SOMETIMES"), "Poner 4 tapones"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.goalType, tt.quantity, tt.frequency))
		})
	}
}

func TestDescribe_TotalOverEnumerations(t *testing.T) {
	for _, goalType := range models.GoalTypes {
		for _, frequency := range models.GoalFrequencies {
			got := Describe(goalType, 10, frequency)
			assert.Contains(t, got, "10", "%s/%s", goalType, frequency)
			assert.False(t, strings.HasPrefix(got, "Alcanzar 10"), "%s should have its own clause", goalType)
			assert.NotEqual(t, quantityClause(goalType, "10"), got, "%s should add a clause", frequency)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "20", FormatQuantity(20))
	assert.Equal(t, "45.5", FormatQuantity(45.50))
	assert.Equal(t, "0", FormatQuantity(0))
	assert.Equal(t, "-3", FormatQuantity(-3))
}
