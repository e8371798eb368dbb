package history

import (
	"database/sql"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	cerrors "pygrade/internal/core/errors"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// SQLiteStore is the alternate history backend. A single connection plus
// busy_timeout/WAL serializes concurrent writers without a lock file.
type SQLiteStore struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, cerrors.New(cerrors.CodeValidationError, "history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, cerrors.AddContext(
			cerrors.New(cerrors.CodeValidationError, "history path is a directory, expected file"),
			cerrors.CtxPath, cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, cerrors.Wrap(err, cerrors.CodePersistence, "create history directory")
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CodePersistence, "open sqlite history")
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, cerrors.AddContext(
			cerrors.Wrap(err, cerrors.CodePersistence, "ping sqlite history"),
			cerrors.CtxPath, cleanPath)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, cerrors.AddContext(
			cerrors.Wrap(err, cerrors.CodePersistence, "initialize sqlite schema"),
			cerrors.CtxPath, cleanPath)
	}

	return &SQLiteStore{path: cleanPath, db: db}, nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Record(entry Entry) error {
	if entry.Score < 0 || entry.Score > 100 {
		return cerrors.New(cerrors.CodeValidationError,
			fmt.Sprintf("score %d outside [0,100]", entry.Score))
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withRetry("record score", func() error {
		_, err := s.db.Exec(
			`INSERT INTO scores (ts_utc, filename, score) VALUES (?, ?, ?)`,
			entry.Timestamp.UTC().Format(time.RFC3339Nano),
			entry.Filename,
			entry.Score,
		)
		return err
	})
}

func (s *SQLiteStore) Stats() (Stats, error) {
	entries, err := s.loadEntries()
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(entries), nil
}

func (s *SQLiteStore) Entries() (iter.Seq[Entry], error) {
	entries, err := s.loadEntries()
	if err != nil {
		return nil, err
	}
	return func(yield func(Entry) bool) {
		for _, e := range entries {
			if !yield(e) {
				return
			}
		}
	}, nil
}

func (s *SQLiteStore) loadEntries() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load scores", func() error {
		var qErr error
		rows, qErr = s.db.Query(`SELECT ts_utc, filename, score FROM scores ORDER BY id ASC`)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			tsRaw string
			entry Entry
		)
		if err := rows.Scan(&tsRaw, &entry.Filename, &entry.Score); err != nil {
			return nil, cerrors.Wrap(err, cerrors.CodePersistence, "scan score row")
		}
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, cerrors.Wrap(err, cerrors.CodePersistence,
				fmt.Sprintf("parse score timestamp %q", tsRaw))
		}
		entry.Timestamp = ts.UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, cerrors.Wrap(err, cerrors.CodePersistence, "iterate score rows")
	}

	return entries, nil
}

func (s *SQLiteStore) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return cerrors.AddContext(
		cerrors.Wrap(lastErr, cerrors.CodePersistence, op),
		cerrors.CtxPath, s.path)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
