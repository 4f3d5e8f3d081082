package stats

import (
	"fmt"
	"time"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// SeasonStartMonth is the month a basketball season begins.
const SeasonStartMonth = time.September

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && t.Before(tr.End)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekRangeFrom returns the Monday-to-Sunday week containing ref, shifted by
// offset weeks (0 = this week, -1 = last week).
func WeekRangeFrom(ref time.Time, offset int) TimeRange {
	weekday := int(ref.Weekday())
	if weekday == 0 {
		weekday = 7 // ISO 8601: Sunday ends the week
	}
	start := startOfDay(ref).AddDate(0, 0, -weekday+1+offset*7)
	return TimeRange{Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthRangeFrom returns the calendar month containing ref, shifted by offset months.
func MonthRangeFrom(ref time.Time, offset int) TimeRange {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, offset, 0)
	return TimeRange{Start: start, End: start.AddDate(0, 1, 0)}
}

// SeasonRangeFrom returns the season containing ref, shifted by offset seasons.
// A season runs from September 1 to August 31.
func SeasonRangeFrom(ref time.Time, offset int) TimeRange {
	year := ref.Year()
	if ref.Month() < SeasonStartMonth {
		year--
	}
	start := time.Date(year+offset, SeasonStartMonth, 1, 0, 0, 0, 0, ref.Location())
	return TimeRange{Start: start, End: start.AddDate(1, 0, 0)}
}

// WeekRange is WeekRangeFrom(time.Now(), offset).
func WeekRange(offset int) TimeRange { return WeekRangeFrom(time.Now(), offset) }

// MonthRange is MonthRangeFrom(time.Now(), offset).
func MonthRange(offset int) TimeRange { return MonthRangeFrom(time.Now(), offset) }

// SeasonRange is SeasonRangeFrom(time.Now(), offset).
func SeasonRange(offset int) TimeRange { return SeasonRangeFrom(time.Now(), offset) }

// ParsePeriod maps a period name to a range around ref.
// Accepted names are "week", "month", "season" and "all".
func ParsePeriod(name string, ref time.Time) (TimeRange, bool, error) {
	switch name {
	case "week":
		return WeekRangeFrom(ref, 0), true, nil
	case "month":
		return MonthRangeFrom(ref, 0), true, nil
	case "season":
		return SeasonRangeFrom(ref, 0), true, nil
	case "", "all":
		return TimeRange{}, false, nil
	default:
		return TimeRange{}, false, fmt.Errorf("unknown period %q", name)
	}
}

// FilterSheets returns the sheets dated inside tr, preserving order.
func (tr TimeRange) FilterSheets(sheets []*models.PerformanceSheet) []*models.PerformanceSheet {
	out := make([]*models.PerformanceSheet, 0, len(sheets))
	for _, s := range sheets {
		if tr.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// FormatPeriod returns "YYYY-MM-DD a YYYY-MM-DD" with an inclusive end day.
func (tr TimeRange) FormatPeriod() string {
	return fmt.Sprintf("%s a %s", tr.Start.Format("2006-01-02"), tr.End.AddDate(0, 0, -1).Format("2006-01-02"))
}

// SeasonLabel returns "2024-25" style labels.
func (tr TimeRange) SeasonLabel() string {
	return fmt.Sprintf("%d-%02d", tr.Start.Year(), (tr.Start.Year()+1)%100)
}
