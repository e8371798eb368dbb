package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pygrade/internal/core/app"
	cerrors "pygrade/internal/core/errors"
	"pygrade/internal/data/history"
	"pygrade/internal/engine/metrics"
	"pygrade/internal/engine/score"
)

func sampleOutcome() *app.Outcome {
	return &app.Outcome{
		RunID:    "run-1",
		Path:     "/tmp/sample.py",
		Filename: "sample.py",
		Metrics: metrics.Record{
			FunctionCount:      2,
			ImportCount:        3,
			HasModuleDocstring: true,
			UsesTypeHints:      false,
			LongFunctionCount:  1,
			TotalLines:         120,
		},
		Score: score.Result{
			Score: 70,
			Deductions: []score.Deduction{
				{Rule: score.RuleNoTypeHints, Amount: 10},
				{Rule: score.RuleLongFunctions, Amount: 10},
			},
		},
		Stats:    history.Stats{TotalAnalyses: 4, AverageScore: 82.5, BestScore: 95},
		Recorded: true,
	}
}

func TestPlainLabelBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, GoodValue},
		{80, GoodValue},
		{79, FairValue},
		{60, FairValue},
		{59, PoorValue},
		{0, PoorValue},
	}
	for _, tc := range cases {
		if got := PlainLabel(tc.score); got != tc.want {
			t.Errorf("PlainLabel(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestColorLabelText(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	assert.Equal(t, GoodValue, ColorLabel(90))
	assert.Equal(t, PoorValue, ColorLabel(10))
}

func TestNewRendererRejectsUnknownFormat(t *testing.T) {
	_, err := NewRenderer(&bytes.Buffer{}, "yaml")
	require.Error(t, err)
	assert.True(t, cerrors.IsCode(err, cerrors.CodeValidationError))
}

func TestOutcomeJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatJSON)
	require.NoError(t, err)
	require.NoError(t, r.Outcome(sampleOutcome()))

	var decoded app.Outcome
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "sample.py", decoded.Filename)
	assert.Equal(t, 70, decoded.Score.Score)
	assert.Len(t, decoded.Score.Deductions, 2)
	assert.Equal(t, 4, decoded.Stats.TotalAnalyses)
}

func TestOutcomeTSV(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatTSV)
	require.NoError(t, err)
	require.NoError(t, r.Outcome(sampleOutcome()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	fields := strings.Split(lines[1], "\t")
	require.Len(t, fields, 9)
	assert.Equal(t, "sample.py", fields[0])
	assert.Equal(t, "70", fields[1])
	assert.Equal(t, FairValue, fields[2])
}

func TestOutcomeDashboard(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatTable)
	require.NoError(t, err)
	require.NoError(t, r.Outcome(sampleOutcome()))

	out := buf.String()
	assert.Contains(t, out, "Score: 70 / 100")
	assert.Contains(t, out, "Functions")
	assert.Contains(t, out, score.RuleNoTypeHints)
	assert.Contains(t, out, "Analyses: 4")
}

func TestOutcomeDashboardWarnsWhenNotRecorded(t *testing.T) {
	outcome := sampleOutcome()
	outcome.Recorded = false

	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatTable)
	require.NoError(t, err)
	require.NoError(t, r.Outcome(outcome))

	assert.Contains(t, buf.String(), "not recorded")
}

func TestHistoryTSV(t *testing.T) {
	entries := []history.Entry{
		{Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), Filename: "a.py", Score: 90},
		{Timestamp: time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC), Filename: "b.py", Score: 50},
	}

	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatTSV)
	require.NoError(t, err)
	require.NoError(t, r.History(entries, history.ComputeStats(entries)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "a.py")
	assert.Contains(t, lines[2], "b.py")
}

func TestTrendJSON(t *testing.T) {
	entries := []history.Entry{
		{Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), Filename: "a.py", Score: 60},
		{Timestamp: time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC), Filename: "a.py", Score: 80},
	}
	trend, err := history.BuildTrendReport(entries, 48*time.Hour)
	require.NoError(t, err)

	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatJSON)
	require.NoError(t, err)
	require.NoError(t, r.Trend(trend))

	var decoded history.TrendReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.RunCount)
	require.Len(t, decoded.Points, 2)
	assert.Equal(t, 20, decoded.Points[1].DeltaScore)
}
