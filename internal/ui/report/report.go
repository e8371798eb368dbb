package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"pygrade/internal/core/app"
	cerrors "pygrade/internal/core/errors"
	"pygrade/internal/data/history"
)

// Output format constants.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatTSV   = "tsv"
)

// Renderer writes analysis results to a single destination in one of the
// supported output formats.
type Renderer struct {
	out    io.Writer
	format string
}

func NewRenderer(out io.Writer, format string) (*Renderer, error) {
	switch format {
	case FormatTable, FormatJSON, FormatTSV:
		return &Renderer{out: out, format: format}, nil
	default:
		return nil, cerrors.New(cerrors.CodeValidationError,
			fmt.Sprintf("unknown output format %q (expected table, json or tsv)", format))
	}
}

// Outcome renders the result of one analysis run.
func (r *Renderer) Outcome(outcome *app.Outcome) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(r.out, outcome)
	case FormatTSV:
		return r.outcomeTSV(outcome)
	default:
		return r.outcomeDashboard(outcome)
	}
}

// History renders the recorded log together with its aggregate stats.
func (r *Renderer) History(entries []history.Entry, stats history.Stats) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(r.out, struct {
			Entries []history.Entry `json:"entries"`
			Stats   history.Stats   `json:"stats"`
		}{Entries: entries, Stats: stats})
	case FormatTSV:
		return r.historyTSV(entries)
	default:
		return r.historyDashboard(entries, stats)
	}
}

// Trend renders a score trend report.
func (r *Renderer) Trend(report history.TrendReport) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(r.out, report)
	case FormatTSV:
		return r.trendTSV(report)
	default:
		return r.trendDashboard(report)
	}
}

func (r *Renderer) outcomeTSV(outcome *app.Outcome) error {
	if err := writeTSVRow(r.out,
		"filename", "score", "label",
		"lines", "functions", "imports",
		"has_docstring", "uses_type_hints", "long_functions",
	); err != nil {
		return err
	}
	m := outcome.Metrics
	return writeTSVRow(r.out,
		outcome.Filename,
		strconv.Itoa(outcome.Score.Score),
		PlainLabel(outcome.Score.Score),
		strconv.Itoa(m.TotalLines),
		strconv.Itoa(m.FunctionCount),
		strconv.Itoa(m.ImportCount),
		strconv.FormatBool(m.HasModuleDocstring),
		strconv.FormatBool(m.UsesTypeHints),
		strconv.Itoa(m.LongFunctionCount),
	)
}

func (r *Renderer) historyTSV(entries []history.Entry) error {
	if err := writeTSVRow(r.out, "timestamp", "filename", "score"); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writeTSVRow(r.out,
			e.Timestamp.Format(time.RFC3339),
			e.Filename,
			strconv.Itoa(e.Score),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) trendTSV(report history.TrendReport) error {
	if err := writeTSVRow(r.out,
		"timestamp", "filename", "score", "delta", "avg", "best",
	); err != nil {
		return err
	}
	for _, p := range report.Points {
		if err := writeTSVRow(r.out,
			p.Timestamp.Format(time.RFC3339),
			p.Filename,
			strconv.Itoa(p.Score),
			strconv.Itoa(p.DeltaScore),
			strconv.FormatFloat(p.AvgScore, 'f', 2, 64),
			strconv.Itoa(p.BestSoFar),
		); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTSVRow(w io.Writer, fields ...string) error {
	for i, f := range fields {
		if i > 0 {
			if _, err := io.WriteString(w, "\t"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, f); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}
