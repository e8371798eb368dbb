// Package history persists analysis outcomes as an append-only log and
// derives aggregate statistics from it.
package history

import (
	"time"
)

const SchemaVersion = 1

// Entry is one completed analysis outcome. Entries are immutable once
// recorded and are never individually deleted.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Filename  string    `json:"filename"`
	Score     int       `json:"score"`
}

// Stats is derived from the full log on every request, never cached.
// On an empty log all fields are zero: average and best are defined as 0.
type Stats struct {
	TotalAnalyses int     `json:"total_analyses"`
	AverageScore  float64 `json:"average_score"`
	BestScore     int     `json:"best_score"`
}

// document is the on-disk shape of the JSON backend.
type document struct {
	SchemaVersion int     `json:"schema_version"`
	Entries       []Entry `json:"entries"`
}

// ComputeStats recomputes aggregates over the entries in one pass.
func ComputeStats(entries []Entry) Stats {
	stats := Stats{TotalAnalyses: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	sum := 0
	for _, e := range entries {
		sum += e.Score
		if e.Score > stats.BestScore {
			stats.BestScore = e.Score
		}
	}
	stats.AverageScore = float64(sum) / float64(len(entries))
	return stats
}
