package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

func TestWeekRangeFrom(t *testing.T) {
	// Wednesday
	ref := time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

	this := WeekRangeFrom(ref, 0)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), this.Start)
	assert.Equal(t, time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC), this.End)

	last := WeekRangeFrom(ref, -1)
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), last.Start)

	sunday := WeekRangeFrom(time.Date(2025, time.March, 16, 23, 0, 0, 0, time.UTC), 0)
	assert.Equal(t, this, sunday)
}

func TestMonthRangeFrom(t *testing.T) {
	ref := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	prev := MonthRangeFrom(ref, -1)
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), prev.Start)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), prev.End)
	assert.Equal(t, "2024-12-01 a 2024-12-31", prev.FormatPeriod())
}

func TestSeasonRangeFrom(t *testing.T) {
	spring := SeasonRangeFrom(time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC), 0)
	assert.Equal(t, time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC), spring.Start)
	assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), spring.End)
	assert.Equal(t, "2024-25", spring.SeasonLabel())

	autumn := SeasonRangeFrom(time.Date(2025, time.October, 2, 0, 0, 0, 0, time.UTC), -1)
	assert.Equal(t, spring, autumn)
}

func TestParsePeriod(t *testing.T) {
	ref := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)

	r, ok, err := ParsePeriod("month", ref)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, MonthRangeFrom(ref, 0), r)

	_, ok, err = ParsePeriod("all", ref)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = ParsePeriod("decade", ref)
	assert.Error(t, err)
}

func TestFilterSheets(t *testing.T) {
	r := MonthRangeFrom(day(15), 0)
	sheets := []*models.PerformanceSheet{
		{ID: 1, Date: day(1)},
		{ID: 2, Date: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Date: day(31)},
	}

	got := r.FilterSheets(sheets)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}
