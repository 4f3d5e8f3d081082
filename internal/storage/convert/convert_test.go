package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRoundTrip(t *testing.T) {
	dates := []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(1901, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	for _, d := range dates {
		t.Run(d.Format("2006-01-02"), func(t *testing.T) {
			got := DaysToDate(DateToDays(&d))
			require.NotNil(t, got)
			assert.True(t, d.Equal(*got), "expected %v, got %v", d, *got)
		})
	}
}

func TestDateToDays(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int64
	}{
		{"epoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"next day", time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC), 1},
		{"late in the day floors", time.Date(1970, 1, 2, 23, 59, 59, 0, time.UTC), 1},
		{"day before epoch", time.Date(1969, 12, 31, 12, 0, 0, 0, time.UTC), -1},
		{"local calendar day is kept", time.Date(2024, 3, 10, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600)), 19792},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DateToDays(&tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestTimestampRoundTripTruncatesToMillis(t *testing.T) {
	in := time.Date(2025, 5, 17, 18, 45, 12, 123456789, time.FixedZone("CEST", 2*3600))

	got := MillisToTime(TimeToMillis(&in))
	require.NotNil(t, got)

	want := in.Truncate(time.Millisecond)
	assert.True(t, want.Equal(*got), "expected %v, got %v", want, *got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestNilInNilOut(t *testing.T) {
	assert.Nil(t, DateToDays(nil))
	assert.Nil(t, DaysToDate(nil))
	assert.Nil(t, TimeToMillis(nil))
	assert.Nil(t, MillisToTime(nil))
}

func TestDateTruncatesToMidnightUTC(t *testing.T) {
	in := time.Date(2025, 1, 5, 17, 3, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), Date(in))
}
