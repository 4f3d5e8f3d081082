package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ramonehamilton/hooplog/internal/charts"
	"github.com/ramonehamilton/hooplog/internal/gui"
	"github.com/ramonehamilton/hooplog/internal/stats"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

func (a *app) summaryCmd() *cobra.Command {
	var (
		email  string
		period string
		last   int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a player's totals, averages, shooting and record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rng, filtered, err := stats.ParsePeriod(period, time.Now())
			if err != nil {
				return err
			}

			svc, err := a.openStorage(true)
			if err != nil {
				return err
			}
			defer a.closeQuietly(svc)

			services, err := a.playerServices(ctx, svc, email)
			if err != nil {
				return err
			}
			facade := gui.NewStatsFacade(services)

			summary, err := facade.Summary(ctx, rng, filtered)
			if err != nil {
				return err
			}
			record, err := facade.Record(ctx)
			if err != nil {
				return err
			}
			recent, err := facade.Last(ctx, last)
			if err != nil {
				return err
			}

			heading := services.Session.Player.Name
			if heading == "" {
				heading = services.Session.Player.Username
			}
			if filtered {
				heading += " · " + rng.FormatPeriod()
			}
			writeSummary(cmd.OutOrStdout(), heading, summary, record, recent)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "player", "", "email of the player to report on")
	cmd.Flags().StringVar(&period, "period", "all", "week, month, season or all")
	cmd.Flags().IntVar(&last, "last", stats.DefaultRecentWindow, "number of recent sheets to list")
	return cmd
}

var summaryStats = []string{
	stats.StatPoints,
	stats.StatAssists,
	stats.StatRebounds,
	stats.StatOffensiveRebounds,
	stats.StatDefensiveRebounds,
	stats.StatSteals,
	stats.StatBlocks,
	stats.StatTurnovers,
	stats.StatFouls,
	stats.StatMinutesPlayed,
	stats.StatPlusMinus,
}

func summaryRow(stat string, s models.PlayerStatsSummary) (int, float64) {
	t, avg := s.Totals, s.Averages
	switch stat {
	case stats.StatPoints:
		return t.Points, avg.Points
	case stats.StatAssists:
		return t.Assists, avg.Assists
	case stats.StatRebounds:
		return t.Rebounds, avg.Rebounds
	case stats.StatOffensiveRebounds:
		return t.OffensiveRebounds, avg.OffensiveRebounds
	case stats.StatDefensiveRebounds:
		return t.DefensiveRebounds, avg.DefensiveRebounds
	case stats.StatSteals:
		return t.Steals, avg.Steals
	case stats.StatBlocks:
		return t.Blocks, avg.Blocks
	case stats.StatTurnovers:
		return t.Turnovers, avg.Turnovers
	case stats.StatFouls:
		return t.Fouls, avg.Fouls
	case stats.StatMinutesPlayed:
		return t.MinutesPlayed, avg.MinutesPlayed
	case stats.StatPlusMinus:
		return t.PlusMinus, avg.PlusMinus
	}
	return 0, 0
}

func writeSummary(w io.Writer, heading string, summary models.PlayerStatsSummary, record gui.Record, recent []*models.PerformanceSheet) {
	fmt.Fprintln(w, titleStyle.Render(heading))
	fmt.Fprintf(w, "Partidos: %d\n\n", summary.GamesPlayed)

	totals := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Estadística", "Total", "Media")
	for _, stat := range summaryStats {
		total, avg := summaryRow(stat, summary)
		totals.Row(charts.StatLabel(stat), strconv.Itoa(total), strconv.FormatFloat(avg, 'f', 1, 64))
	}
	fmt.Fprintln(w, totals.Render())

	t := summary.Totals
	shooting := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Tiro", "Anotados", "Intentados", "%").
		Row("2P", strconv.Itoa(t.TwoPointersMade), strconv.Itoa(t.TwoPointersAttempted), percent(summary.Percentages.TwoPoint)).
		Row("3P", strconv.Itoa(t.ThreePointersMade), strconv.Itoa(t.ThreePointersAttempted), percent(summary.Percentages.ThreePoint)).
		Row("TL", strconv.Itoa(t.FreeThrowsMade), strconv.Itoa(t.FreeThrowsAttempted), percent(summary.Percentages.FreeThrow)).
		Row("TC", strconv.Itoa(t.TwoPointersMade+t.ThreePointersMade), strconv.Itoa(t.TwoPointersAttempted+t.ThreePointersAttempted), percent(summary.Percentages.FieldGoal))
	fmt.Fprintln(w, shooting.Render())

	r := record.Record
	fmt.Fprintf(w, "Balance: %d-%d-%d (%s victorias) · %s\n", r.Wins, r.Losses, r.Draws,
		percent(r.WinRate()), stats.FormatCurrentStreak(record.Streaks.CurrentStreak))
	fmt.Fprintf(w, "Mejor racha: %d · Peor racha: %d\n", record.Streaks.LongestWinStreak, record.Streaks.LongestLossStreak)

	if len(recent) == 0 {
		return
	}
	fmt.Fprintln(w)
	lastSheets := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Fecha", "Pts", "Ast", "Reb", "Min", "+/-")
	for _, s := range recent {
		lastSheets.Row(s.Date.Format("2006-01-02"), strconv.Itoa(s.Points), strconv.Itoa(s.Assists),
			strconv.Itoa(s.Rebounds()), strconv.Itoa(s.MinutesPlayed), strconv.Itoa(s.PlusMinus))
	}
	fmt.Fprintln(w, lastSheets.Render())
}

func percent(p float64) string {
	return strconv.Itoa(stats.DisplayPercentage(p)) + "%"
}

func (a *app) chartCmd() *cobra.Command {
	var (
		email    string
		output   string
		averages bool
		open     bool
	)

	cmd := &cobra.Command{
		Use:   "chart [stat...]",
		Short: "Render stat progress or per-game averages to an HTML chart",
		Long: `Writes a line chart of the given stats, one series each, across the
player's sheets. With --averages it writes a bar chart of per-game averages.

Stats: ` + strings.Join(stats.StatNames(), ", "),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !averages && len(args) == 0 {
				return fmt.Errorf("name at least one stat, or pass --averages")
			}
			ctx := cmd.Context()

			svc, err := a.openStorage(true)
			if err != nil {
				return err
			}
			defer a.closeQuietly(svc)

			services, err := a.playerServices(ctx, svc, email)
			if err != nil {
				return err
			}
			facade := gui.NewStatsFacade(services)
			config := a.chartConfig()

			var render func(io.Writer) error
			if averages {
				summary, err := facade.Summary(ctx, stats.TimeRange{}, false)
				if err != nil {
					return err
				}
				config.Title = "Medias"
				render = func(w io.Writer) error { return charts.RenderAverages(w, summary, config) }
			} else {
				series := make(map[string][]stats.SeriesPoint, len(args))
				for _, stat := range args {
					points, err := facade.Series(ctx, stat)
					if err != nil {
						return fmt.Errorf("%s: %w", stat, err)
					}
					series[stat] = points
				}
				config.Title = "Progreso"
				render = func(w io.Writer) error { return charts.RenderMultiSeries(w, series, args, config) }
			}

			if err := charts.RenderToFile(output, render); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chart written to %s\n", output)
			if open {
				return charts.OpenInBrowser(output)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "player", "", "email of the player to chart")
	cmd.Flags().StringVarP(&output, "output", "o", "hooplog-chart.html", "output HTML file")
	cmd.Flags().BoolVar(&averages, "averages", false, "chart per-game averages instead of stat series")
	cmd.Flags().BoolVar(&open, "open", false, "open the chart in the default browser")
	return cmd
}
