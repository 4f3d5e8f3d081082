package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/hooplog/internal/api/response"
	"github.com/ramonehamilton/hooplog/internal/charts"
	"github.com/ramonehamilton/hooplog/internal/gui"
	"github.com/ramonehamilton/hooplog/internal/stats"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// StatsHandler serves the summary, series, streak and chart endpoints.
type StatsHandler struct {
	base
	location *time.Location
	charts   charts.ChartConfig
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(services *gui.Services, loc *time.Location, chartConfig charts.ChartConfig) *StatsHandler {
	return &StatsHandler{base: base{services: services}, location: loc, charts: chartConfig}
}

func (h *StatsHandler) facade(r *http.Request) *gui.StatsFacade {
	return gui.NewStatsFacade(h.scoped(r))
}

// SummaryResponse is a summary plus the period it covers.
type SummaryResponse struct {
	Period  string                    `json:"period,omitempty"`
	Summary models.PlayerStatsSummary `json:"summary"`
}

// GetSummary returns totals, averages and shooting percentages. The
// optional period query (week, month, season, all) limits the sheets.
func (h *StatsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	period, filtered, err := stats.ParsePeriod(r.URL.Query().Get("period"), time.Now().In(h.location))
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	summary, err := h.facade(r).Summary(r.Context(), period, filtered)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := SummaryResponse{Summary: summary}
	if filtered {
		resp.Period = period.FormatPeriod()
	}
	response.Success(w, resp)
}

// GetStatNames lists the stats accepted by the series endpoints.
func (h *StatsHandler) GetStatNames(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, stats.StatNames())
}

// GetSeries returns chart points for one stat, oldest game first.
func (h *StatsHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	points, err := h.facade(r).Series(r.Context(), chi.URLParam(r, "stat"))
	if err != nil {
		writeError(w, err)
		return
	}
	if points == nil {
		points = []stats.SeriesPoint{}
	}
	response.Success(w, points)
}

// GetLast returns the n most recent sheets.
func (h *StatsHandler) GetLast(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "n", stats.DefaultRecentWindow)
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	sheets, err := h.facade(r).Last(r.Context(), n)
	writeSheets(w, sheets, err)
}

// StreaksResponse adds display fields to the match record.
type StreaksResponse struct {
	gui.Record
	CurrentStreakLabel string  `json:"current_streak_label"`
	WinRate            float64 `json:"win_rate"`
}

// GetStreaks returns wins, losses, draws and streaks over scored matches.
func (h *StatsHandler) GetStreaks(w http.ResponseWriter, r *http.Request) {
	record, err := h.facade(r).Record(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, StreaksResponse{
		Record:             record,
		CurrentStreakLabel: stats.FormatCurrentStreak(record.Streaks.CurrentStreak),
		WinRate:            record.Record.WinRate(),
	})
}

// GetSeriesChart renders the stat series as an HTML line chart.
func (h *StatsHandler) GetSeriesChart(w http.ResponseWriter, r *http.Request) {
	stat := chi.URLParam(r, "stat")
	points, err := h.facade(r).Series(r.Context(), stat)
	if err != nil {
		writeError(w, err)
		return
	}

	config := h.charts
	config.Title = charts.StatLabel(stat)
	var buf bytes.Buffer
	if err := charts.RenderSeries(&buf, stat, points, config); err != nil {
		response.InternalError(w, err)
		return
	}
	response.HTML(w, buf.Bytes())
}

// GetAveragesChart renders per-game averages as an HTML bar chart.
func (h *StatsHandler) GetAveragesChart(w http.ResponseWriter, r *http.Request) {
	summary, err := h.facade(r).Summary(r.Context(), stats.TimeRange{}, false)
	if err != nil {
		writeError(w, err)
		return
	}

	config := h.charts
	config.Title = "Medias por partido"
	var buf bytes.Buffer
	if err := charts.RenderAverages(&buf, summary, config); err != nil {
		response.InternalError(w, err)
		return
	}
	response.HTML(w, buf.Bytes())
}
