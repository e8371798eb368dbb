package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"pygrade/internal/core/app"
	"pygrade/internal/data/history"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#64748B")).
			Padding(0, 1)

	scoreGoodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	scoreFairStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	scorePoorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return scoreGoodStyle
	case score >= 60:
		return scoreFairStyle
	default:
		return scorePoorStyle
	}
}

func (r *Renderer) outcomeDashboard(outcome *app.Outcome) error {
	if _, err := fmt.Fprintln(r.out, titleStyle("Source Quality Report"), "-", outcome.Filename); err != nil {
		return err
	}

	banner := scoreStyle(outcome.Score.Score).Render(
		fmt.Sprintf("Score: %d / 100 (%s)", outcome.Score.Score, PlainLabel(outcome.Score.Score)))
	if _, err := fmt.Fprintln(r.out, panelStyle.Render(banner)); err != nil {
		return err
	}

	m := outcome.Metrics
	table := tablewriter.NewWriter(r.out)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	rows := [][]string{
		{"Lines", strconv.Itoa(m.TotalLines)},
		{"Functions", strconv.Itoa(m.FunctionCount)},
		{"Imports", strconv.Itoa(m.ImportCount)},
		{"Module docstring", yesNo(m.HasModuleDocstring)},
		{"Type hints", yesNo(m.UsesTypeHints)},
		{"Long functions", strconv.Itoa(m.LongFunctionCount)},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(outcome.Score.Deductions) > 0 {
		deductions := tablewriter.NewWriter(r.out)
		deductions.Header([]string{"Deduction", "Points"})
		deductions.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		var rows [][]string
		for _, d := range outcome.Score.Deductions {
			rows = append(rows, []string{d.Rule, fmt.Sprintf("-%d", d.Amount)})
		}
		if err := deductions.Bulk(rows); err != nil {
			return err
		}
		if err := deductions.Render(); err != nil {
			return err
		}
	}

	if outcome.Recorded {
		if err := r.statsPanel(outcome.Stats); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintln(r.out, statusStyle.Render("Warning: this run was not recorded in history")); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) historyDashboard(entries []history.Entry, stats history.Stats) error {
	if _, err := fmt.Fprintln(r.out, titleStyle("Analysis History")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(r.out)
	table.Header([]string{"Timestamp", "File", "Score", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var rows [][]string
	for _, e := range entries {
		rows = append(rows, []string{
			e.Timestamp.Format(time.RFC3339),
			e.Filename,
			strconv.Itoa(e.Score),
			ColorLabel(e.Score),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	return r.statsPanel(stats)
}

func (r *Renderer) trendDashboard(report history.TrendReport) error {
	if _, err := fmt.Fprintln(r.out, titleStyle("Score Trend")); err != nil {
		return err
	}
	window := statusStyle.Render(fmt.Sprintf("%d runs, moving average window %s, %s to %s",
		report.RunCount, report.Window,
		report.Since.Format(time.RFC3339), report.Until.Format(time.RFC3339)))
	if _, err := fmt.Fprintln(r.out, window); err != nil {
		return err
	}

	table := tablewriter.NewWriter(r.out)
	table.Header([]string{"Timestamp", "File", "Score", "Delta", "Avg", "Best"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var rows [][]string
	for _, p := range report.Points {
		rows = append(rows, []string{
			p.Timestamp.Format(time.RFC3339),
			p.Filename,
			strconv.Itoa(p.Score),
			fmt.Sprintf("%+d", p.DeltaScore),
			strconv.FormatFloat(p.AvgScore, 'f', 2, 64),
			strconv.Itoa(p.BestSoFar),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func (r *Renderer) statsPanel(stats history.Stats) error {
	panel := panelStyle.Render(fmt.Sprintf(
		"Analyses: %d | Average: %.2f | Best: %d",
		stats.TotalAnalyses, stats.AverageScore, stats.BestScore))
	_, err := fmt.Fprintln(r.out, panel)
	return err
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
