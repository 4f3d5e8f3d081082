package stats

import (
	"fmt"
	"sort"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// Stat names accepted by Series.
const (
	StatPoints                 = "points"
	StatAssists                = "assists"
	StatRebounds               = "rebounds"
	StatOffensiveRebounds      = "offensive_rebounds"
	StatDefensiveRebounds      = "defensive_rebounds"
	StatSteals                 = "steals"
	StatBlocks                 = "blocks"
	StatTurnovers              = "turnovers"
	StatFouls                  = "fouls"
	StatTwoPointersMade        = "two_pointers_made"
	StatTwoPointersAttempted   = "two_pointers_attempted"
	StatThreePointersMade      = "three_pointers_made"
	StatThreePointersAttempted = "three_pointers_attempted"
	StatFreeThrowsMade         = "free_throws_made"
	StatFreeThrowsAttempted    = "free_throws_attempted"
	StatMinutesPlayed          = "minutes_played"
	StatPlusMinus              = "plus_minus"
)

var extractors = map[string]func(*models.PerformanceSheet) int{
	StatPoints:                 func(s *models.PerformanceSheet) int { return s.Points },
	StatAssists:                func(s *models.PerformanceSheet) int { return s.Assists },
	StatRebounds:               func(s *models.PerformanceSheet) int { return s.Rebounds() },
	StatOffensiveRebounds:      func(s *models.PerformanceSheet) int { return s.OffensiveRebounds },
	StatDefensiveRebounds:      func(s *models.PerformanceSheet) int { return s.DefensiveRebounds },
	StatSteals:                 func(s *models.PerformanceSheet) int { return s.Steals },
	StatBlocks:                 func(s *models.PerformanceSheet) int { return s.Blocks },
	StatTurnovers:              func(s *models.PerformanceSheet) int { return s.Turnovers },
	StatFouls:                  func(s *models.PerformanceSheet) int { return s.Fouls },
	StatTwoPointersMade:        func(s *models.PerformanceSheet) int { return s.TwoPointersMade },
	StatTwoPointersAttempted:   func(s *models.PerformanceSheet) int { return s.TwoPointersAttempted },
	StatThreePointersMade:      func(s *models.PerformanceSheet) int { return s.ThreePointersMade },
	StatThreePointersAttempted: func(s *models.PerformanceSheet) int { return s.ThreePointersAttempted },
	StatFreeThrowsMade:         func(s *models.PerformanceSheet) int { return s.FreeThrowsMade },
	StatFreeThrowsAttempted:    func(s *models.PerformanceSheet) int { return s.FreeThrowsAttempted },
	StatMinutesPlayed:          func(s *models.PerformanceSheet) int { return s.MinutesPlayed },
	StatPlusMinus:              func(s *models.PerformanceSheet) int { return s.PlusMinus },
}

// SeriesPoint is one chart sample.
type SeriesPoint struct {
	Index int    `json:"index"`
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// StatNames returns the stat names Series accepts, sorted.
func StatNames() []string {
	names := make([]string, 0, len(extractors))
	for name := range extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Series extracts one stat from every sheet, oldest first, indexed from 0.
func Series(stat string, sheets []*models.PerformanceSheet) ([]SeriesPoint, error) {
	extract, ok := extractors[stat]
	if !ok {
		return nil, fmt.Errorf("unknown stat %q", stat)
	}

	ordered := newestFirst(sheets)
	points := make([]SeriesPoint, len(ordered))
	for i := range ordered {
		s := ordered[len(ordered)-1-i]
		points[i] = SeriesPoint{Index: i, Date: s.Date.Format("2006-01-02"), Value: extract(s)}
	}
	return points, nil
}
