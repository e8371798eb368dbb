package history

import (
	"math"
	"time"

	cerrors "pygrade/internal/core/errors"
)

type TrendPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Filename   string    `json:"filename"`
	Score      int       `json:"score"`
	DeltaScore int       `json:"delta_score"`
	AvgScore   float64   `json:"avg_score"`
	BestSoFar  int       `json:"best_so_far"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	RunCount      int          `json:"run_count"`
	Points        []TrendPoint `json:"points"`
}

// BuildTrendReport derives per-run deltas and a moving score average over the
// given window from the chronological entry log.
func BuildTrendReport(entries []Entry, window time.Duration) (TrendReport, error) {
	if len(entries) == 0 {
		return TrendReport{}, cerrors.New(cerrors.CodeNotFound, "no history entries available")
	}

	points := make([]TrendPoint, 0, len(entries))
	best := 0
	for i, current := range entries {
		if current.Score > best {
			best = current.Score
		}

		point := TrendPoint{
			Timestamp: current.Timestamp,
			Filename:  current.Filename,
			Score:     current.Score,
			BestSoFar: best,
		}
		if i > 0 {
			point.DeltaScore = current.Score - entries[i-1].Score
		}
		point.AvgScore = round2(movingAverage(entries, i, window))
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         entries[0].Timestamp,
		Until:         entries[len(entries)-1].Timestamp,
		Window:        window.String(),
		RunCount:      len(points),
		Points:        points,
	}, nil
}

func movingAverage(entries []Entry, index int, window time.Duration) float64 {
	if window <= 0 {
		return float64(entries[index].Score)
	}

	cutoff := entries[index].Timestamp.Add(-window)
	total := 0
	count := 0
	for i := index; i >= 0; i-- {
		if entries[i].Timestamp.Before(cutoff) {
			break
		}
		total += entries[i].Score
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
