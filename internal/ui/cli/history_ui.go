package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pygrade/internal/data/history"
	"pygrade/internal/ui/report"
)

var (
	uiDocStyle = lipgloss.NewStyle().Margin(1, 2)

	uiStatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type historyItem struct {
	title, desc string
}

func (i historyItem) Title() string       { return i.title }
func (i historyItem) Description() string { return i.desc }
func (i historyItem) FilterValue() string { return i.title + i.desc }

type historyModel struct {
	entryList list.Model
	stats     history.Stats
}

func (m historyModel) Init() tea.Cmd {
	return nil
}

func (m historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := uiDocStyle.GetFrameSize()
		height := msg.Height - v - 2
		if height < 5 {
			height = 5
		}
		m.entryList.SetSize(msg.Width-h, height)
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m historyModel) View() string {
	status := uiStatusStyle.Render(fmt.Sprintf(
		"Analyses: %d | Average: %.2f | Best: %d | q to quit",
		m.stats.TotalAnalyses, m.stats.AverageScore, m.stats.BestScore))
	return uiDocStyle.Render(m.entryList.View() + "\n" + status)
}

func runHistoryUI(entries []history.Entry, stats history.Stats) error {
	// Newest first so the latest run is in view on open.
	items := make([]list.Item, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		items = append(items, historyItem{
			title: fmt.Sprintf("%s - %d (%s)", e.Filename, e.Score, report.PlainLabel(e.Score)),
			desc:  e.Timestamp.Format(time.RFC3339),
		})
	}

	entryList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	entryList.Title = "Analysis History"
	entryList.SetShowStatusBar(false)
	entryList.SetFilteringEnabled(true)

	program := tea.NewProgram(historyModel{entryList: entryList, stats: stats}, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
