// Package ports defines the narrow contracts the orchestrator consumes, so
// stores and parsers can be swapped in tests without touching the core flow.
package ports

import (
	"iter"

	"pygrade/internal/data/history"
	"pygrade/internal/engine/parser"
)

// SourceParser turns raw source text into structural facts.
type SourceParser interface {
	ParseFile(path string, content []byte) (*parser.SourceFile, error)
}

// HistoryStore is the durable append-only score log.
type HistoryStore interface {
	// Record appends durably before returning; a failed write leaves the
	// prior log intact.
	Record(entry history.Entry) error
	// Stats recomputes aggregates from the full log on every call.
	Stats() (history.Stats, error)
	// Entries yields the log oldest-first as a restartable sequence.
	Entries() (iter.Seq[history.Entry], error)
	Close() error
}
