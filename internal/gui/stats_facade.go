package gui

import (
	"context"

	"github.com/ramonehamilton/hooplog/internal/events"
	"github.com/ramonehamilton/hooplog/internal/stats"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// StatsFacade feeds the summary and chart screens. Everything is derived from
// the player's sheets and events on each emission.
type StatsFacade struct {
	services *Services
}

// NewStatsFacade creates a new StatsFacade.
func NewStatsFacade(services *Services) *StatsFacade {
	return &StatsFacade{services: services}
}

// Overview is the summary screen state.
type Overview struct {
	Summary models.PlayerStatsSummary  `json:"summary"`
	Recent  []*models.PerformanceSheet `json:"recent"`
}

func (f *StatsFacade) sheets(ctx context.Context, period stats.TimeRange, filtered bool) (*events.Subscription[[]*models.PerformanceSheet], error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	sub := f.services.Storage.ObserveSheetsByPlayer(ctx, playerID)
	if !filtered {
		return sub, nil
	}
	return events.Map(sub, period.FilterSheets), nil
}

// ObserveOverview streams the summary and the DefaultRecentWindow most
// recent sheets.
func (f *StatsFacade) ObserveOverview(ctx context.Context) (*events.Subscription[Overview], error) {
	sub, err := f.sheets(ctx, stats.TimeRange{}, false)
	if err != nil {
		return nil, err
	}
	playerID := f.services.Session.PlayerID()
	return events.Map(sub, func(sheets []*models.PerformanceSheet) Overview {
		summary := stats.Summarize(sheets)
		summary.PlayerID = playerID
		return Overview{
			Summary: summary,
			Recent:  stats.LastN(sheets, stats.DefaultRecentWindow),
		}
	}), nil
}

// ObserveSummary streams the summary for sheets inside period.
// filtered=false uses every sheet.
func (f *StatsFacade) ObserveSummary(ctx context.Context, period stats.TimeRange, filtered bool) (*events.Subscription[models.PlayerStatsSummary], error) {
	sub, err := f.sheets(ctx, period, filtered)
	if err != nil {
		return nil, err
	}
	playerID := f.services.Session.PlayerID()
	return events.Map(sub, func(sheets []*models.PerformanceSheet) models.PlayerStatsSummary {
		summary := stats.Summarize(sheets)
		summary.PlayerID = playerID
		return summary
	}), nil
}

// ObserveSeries streams chart points for stat. Unknown stats fail up front.
func (f *StatsFacade) ObserveSeries(ctx context.Context, stat string) (*events.Subscription[[]stats.SeriesPoint], error) {
	if _, err := stats.Series(stat, nil); err != nil {
		return nil, &AppError{Message: InvalidInputMessage, Err: &FieldError{Field: "stat", Value: stat}}
	}

	sub, err := f.sheets(ctx, stats.TimeRange{}, false)
	if err != nil {
		return nil, err
	}
	return events.Map(sub, func(sheets []*models.PerformanceSheet) []stats.SeriesPoint {
		points, _ := stats.Series(stat, sheets)
		return points
	}), nil
}

// Record is the match record screen state.
type Record struct {
	Record  stats.MatchRecordStats `json:"record"`
	Streaks stats.StreakStats      `json:"streaks"`
}

// ObserveRecord streams wins, losses, draws and streaks.
func (f *StatsFacade) ObserveRecord(ctx context.Context) (*events.Subscription[Record], error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	sub := f.services.Storage.ObserveEventsByPlayer(ctx, playerID)
	return events.Map(sub, func(evs []*models.Event) Record {
		return Record{Record: stats.MatchRecord(evs), Streaks: stats.CalculateStreaks(evs)}
	}), nil
}

func (f *StatsFacade) loadSheets(ctx context.Context) ([]*models.PerformanceSheet, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	return f.services.Storage.GetSheetsByPlayer(ctx, playerID)
}

// Summary returns the summary for sheets inside period. filtered=false uses
// every sheet.
func (f *StatsFacade) Summary(ctx context.Context, period stats.TimeRange, filtered bool) (models.PlayerStatsSummary, error) {
	sheets, err := f.loadSheets(ctx)
	if err != nil {
		return models.PlayerStatsSummary{}, err
	}
	if filtered {
		sheets = period.FilterSheets(sheets)
	}
	summary := stats.Summarize(sheets)
	summary.PlayerID = f.services.Session.PlayerID()
	return summary, nil
}

// Series returns chart points for stat, oldest game first.
func (f *StatsFacade) Series(ctx context.Context, stat string) ([]stats.SeriesPoint, error) {
	if _, err := stats.Series(stat, nil); err != nil {
		return nil, &AppError{Message: InvalidInputMessage, Err: &FieldError{Field: "stat", Value: stat}}
	}
	sheets, err := f.loadSheets(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Series(stat, sheets)
}

// Last returns the n most recent sheets.
func (f *StatsFacade) Last(ctx context.Context, n int) ([]*models.PerformanceSheet, error) {
	if n <= 0 {
		n = stats.DefaultRecentWindow
	}
	sheets, err := f.loadSheets(ctx)
	if err != nil {
		return nil, err
	}
	return stats.LastN(sheets, n), nil
}

// Record returns wins, losses, draws and streaks.
func (f *StatsFacade) Record(ctx context.Context) (Record, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return Record{}, err
	}
	evs, err := f.services.Storage.GetEventsByPlayer(ctx, playerID)
	if err != nil {
		return Record{}, err
	}
	return Record{Record: stats.MatchRecord(evs), Streaks: stats.CalculateStreaks(evs)}, nil
}
