package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pygrade_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pygrade_analysis_seconds",
		Help:    "Time for a full analyze-score-persist run.",
		Buckets: prometheus.DefBuckets,
	})

	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pygrade_analyses_total",
		Help: "Total number of analysis runs by outcome.",
	}, []string{"outcome"})

	LastScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pygrade_last_score",
		Help: "Score of the most recent analysis run.",
	})

	HistoryWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pygrade_history_write_failures_total",
		Help: "Total number of failed history record calls.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pygrade_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

// Analysis outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeParseError  = "parse_error"
	OutcomeNotFound    = "not_found"
	OutcomePersistence = "persistence_error"
	OutcomeInternal    = "internal_error"
)
