package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	cerrors "pygrade/internal/core/errors"
	"pygrade/internal/core/ports"
	"pygrade/internal/data/history"
	"pygrade/internal/engine/metrics"
	"pygrade/internal/engine/score"
	"pygrade/internal/shared/observability"
	"pygrade/internal/shared/telemetry"
)

// Service runs one analysis end to end: read, parse, extract, score,
// persist, aggregate. It owns nothing long-lived beyond the injected store
// handle.
type Service struct {
	parser ports.SourceParser
	store  ports.HistoryStore
	now    func() time.Time
}

// Outcome carries everything one invocation produced. Metrics and Score are
// discarded after reporting; only the recorded history entry outlives the run.
type Outcome struct {
	RunID    string         `json:"run_id"`
	Path     string         `json:"path"`
	Filename string         `json:"filename"`
	Metrics  metrics.Record `json:"metrics"`
	Score    score.Result   `json:"score"`
	Stats    history.Stats  `json:"stats"`
	// Recorded is false when the run scored but history could not be
	// updated; the caller must surface that, not swallow it.
	Recorded bool `json:"recorded"`
}

func NewService(parser ports.SourceParser, store ports.HistoryStore) *Service {
	return &Service{
		parser: parser,
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Analyze grades the file at path. A parse failure aborts before scoring and
// records nothing. A persistence failure still returns the scored outcome
// alongside the error so the run can be reported with a history warning.
func (s *Service) Analyze(ctx context.Context, path string) (*Outcome, error) {
	runID := uuid.NewString()
	ctx, span := telemetry.Tracer("").Start(ctx, "service.Analyze", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("source.path", path),
	))
	defer span.End()

	started := time.Now()
	defer func() {
		observability.AnalysisDuration.Observe(time.Since(started).Seconds())
	}()

	content, err := s.readSource(path)
	if err != nil {
		observability.AnalysesTotal.WithLabelValues(observability.OutcomeNotFound).Inc()
		return nil, err
	}

	parseStarted := time.Now()
	file, err := s.parser.ParseFile(path, content)
	observability.ParsingDuration.Observe(time.Since(parseStarted).Seconds())
	if err != nil {
		observability.AnalysesTotal.WithLabelValues(outcomeLabel(err)).Inc()
		slog.Debug("parse failed", "path", path, "run_id", runID, "error", err)
		return nil, err
	}

	record := metrics.Extract(file)
	result := score.Compute(record)
	span.SetAttributes(attribute.Int("score", result.Score))
	observability.LastScore.Set(float64(result.Score))

	outcome := &Outcome{
		RunID:    runID,
		Path:     path,
		Filename: filepath.Base(path),
		Metrics:  record,
		Score:    result,
	}

	entry := history.Entry{
		Timestamp: s.now(),
		Filename:  outcome.Filename,
		Score:     result.Score,
	}
	if err := s.store.Record(entry); err != nil {
		observability.HistoryWriteFailures.Inc()
		observability.AnalysesTotal.WithLabelValues(observability.OutcomePersistence).Inc()
		slog.Warn("history not updated", "path", path, "run_id", runID, "error", err)
		return outcome, err
	}
	outcome.Recorded = true

	stats, err := s.store.Stats()
	if err != nil {
		observability.AnalysesTotal.WithLabelValues(observability.OutcomePersistence).Inc()
		return outcome, err
	}
	outcome.Stats = stats

	observability.AnalysesTotal.WithLabelValues(observability.OutcomeOK).Inc()
	slog.Info("analysis complete",
		"path", path,
		"run_id", runID,
		"score", result.Score,
		"total_analyses", stats.TotalAnalyses,
	)
	return outcome, nil
}

func (s *Service) readSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, cerrors.AddContext(
			cerrors.Wrap(err, cerrors.CodeNotFound, "source path does not exist or is unreadable"),
			cerrors.CtxPath, path)
	}
	if info.IsDir() {
		return nil, cerrors.AddContext(
			cerrors.New(cerrors.CodeNotFound, "source path is a directory"),
			cerrors.CtxPath, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, cerrors.AddContext(
			cerrors.Wrap(err, cerrors.CodeNotFound, "read source"),
			cerrors.CtxPath, path)
	}
	return content, nil
}

func outcomeLabel(err error) string {
	switch {
	case cerrors.IsCode(err, cerrors.CodeParseError):
		return observability.OutcomeParseError
	case cerrors.IsCode(err, cerrors.CodeNotFound):
		return observability.OutcomeNotFound
	case cerrors.IsCode(err, cerrors.CodePersistence):
		return observability.OutcomePersistence
	default:
		return observability.OutcomeInternal
	}
}
