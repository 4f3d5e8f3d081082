// Package charts renders stat series and averages as interactive HTML pages.
package charts

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/hooplog/internal/stats"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // go-echarts theme name
	ShowLegend bool     // Show legend
	Smooth     bool     // Smooth line (for line charts)
	Colors     []string // Series colors, cycled
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Smooth:     true,
		Colors:     []string{"#EE6C4D", "#3D5A80", "#98C1D9", "#293241", "#F4A259", "#5B8E7D", "#BC4B51"},
	}
}

// ErrNoSeries is returned when a multi-series chart gets nothing to draw.
var ErrNoSeries = errors.New("no data series provided")

// Spanish axis labels for the stat names Series accepts.
var statLabels = map[string]string{
	stats.StatPoints:                 "Puntos",
	stats.StatAssists:                "Asistencias",
	stats.StatRebounds:               "Rebotes",
	stats.StatOffensiveRebounds:      "Rebotes ofensivos",
	stats.StatDefensiveRebounds:      "Rebotes defensivos",
	stats.StatSteals:                 "Robos",
	stats.StatBlocks:                 "Tapones",
	stats.StatTurnovers:              "Pérdidas",
	stats.StatFouls:                  "Faltas",
	stats.StatTwoPointersMade:        "Tiros de 2 anotados",
	stats.StatTwoPointersAttempted:   "Tiros de 2 intentados",
	stats.StatThreePointersMade:      "Triples anotados",
	stats.StatThreePointersAttempted: "Triples intentados",
	stats.StatFreeThrowsMade:         "Tiros libres anotados",
	stats.StatFreeThrowsAttempted:    "Tiros libres intentados",
	stats.StatMinutesPlayed:          "Minutos",
	stats.StatPlusMinus:              "+/-",
}

// StatLabel returns the display label for stat.
func StatLabel(stat string) string {
	if label, ok := statLabels[stat]; ok {
		return label
	}
	return stat
}

func (c ChartConfig) color(i int) string {
	if len(c.Colors) == 0 {
		return ""
	}
	return c.Colors[i%len(c.Colors)]
}

func (c ChartConfig) globalOptions() []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  c.Width,
			Height: c.Height,
			Theme:  c.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    c.Title,
			Subtitle: c.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(c.ShowLegend),
		}),
	}
}

// RenderSeries writes a line chart of one stat across games, oldest first.
func RenderSeries(w io.Writer, stat string, points []stats.SeriesPoint, config ChartConfig) error {
	return RenderMultiSeries(w, map[string][]stats.SeriesPoint{stat: points}, []string{stat}, config)
}

// RenderMultiSeries writes one line per stat in order. X labels come from
// the first stat's points; every series comes from the same sheets, so they
// line up.
func RenderMultiSeries(w io.Writer, series map[string][]stats.SeriesPoint, order []string, config ChartConfig) error {
	if len(order) == 0 {
		return ErrNoSeries
	}

	line := charts.NewLine()
	line.SetGlobalOptions(config.globalOptions()...)

	first := series[order[0]]
	xLabels := make([]string, len(first))
	for i, p := range first {
		xLabels[i] = p.Date
	}
	line.SetXAxis(xLabels)

	for i, stat := range order {
		points := series[stat]
		yData := make([]opts.LineData, len(points))
		for j, p := range points {
			yData[j] = opts.LineData{Value: p.Value}
		}

		line.AddSeries(StatLabel(stat), yData).
			SetSeriesOptions(
				charts.WithLineChartOpts(opts.LineChart{
					Smooth: opts.Bool(config.Smooth),
				}),
				charts.WithLabelOpts(opts.Label{
					Show: opts.Bool(false),
				}),
				charts.WithItemStyleOpts(opts.ItemStyle{
					Color: config.color(i),
				}),
			)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderAverages writes a bar chart of the per-game averages in summary.
func RenderAverages(w io.Writer, summary models.PlayerStatsSummary, config ChartConfig) error {
	avg := summary.Averages
	bars := []struct {
		stat  string
		value float64
	}{
		{stats.StatPoints, avg.Points},
		{stats.StatAssists, avg.Assists},
		{stats.StatRebounds, avg.Rebounds},
		{stats.StatSteals, avg.Steals},
		{stats.StatBlocks, avg.Blocks},
		{stats.StatTurnovers, avg.Turnovers},
		{stats.StatFouls, avg.Fouls},
		{stats.StatMinutesPlayed, avg.MinutesPlayed},
	}

	xLabels := make([]string, len(bars))
	yData := make([]opts.BarData, len(bars))
	for i, b := range bars {
		xLabels[i] = StatLabel(b.stat)
		yData[i] = opts.BarData{Value: b.value}
	}

	if config.Subtitle == "" {
		config.Subtitle = fmt.Sprintf("%d partidos", summary.GamesPlayed)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(config.globalOptions()...)
	bar.SetXAxis(xLabels).
		AddSeries("Media por partido", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(true),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: config.color(0),
			}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderToFile creates outputPath and passes it to render.
func RenderToFile(outputPath string, render func(io.Writer) error) error {
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create chart directory: %w", err)
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
