package history

import (
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	cerrors "pygrade/internal/core/errors"
)

// FileStore keeps the log as a single JSON document. Every Record call
// rewrites the whole document through a temp file and an atomic rename, so a
// reader observes either the prior log or the fully updated one, never a torn
// write. A sibling lock file serializes concurrent processes; the in-process
// mutex serializes concurrent goroutines on the same handle.
type FileStore struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

func OpenFile(path string) (*FileStore, error) {
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

	return &FileStore{
		path: cleanPath,
		lock: flock.New(cleanPath + ".lock"),
	}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Close() error {
	return nil
}

// Record appends the entry durably: the updated document is synced to disk
// before the rename lands and before Record returns.
func (s *FileStore) Record(entry Entry) error {
	if entry.Score < 0 || entry.Score > 100 {
		return cerrors.New(cerrors.CodeValidationError,
			fmt.Sprintf("score %d outside [0,100]", entry.Score))
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	entry.Timestamp = entry.Timestamp.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return cerrors.Wrap(err, cerrors.CodePersistence, "acquire history lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	doc, err := s.load()
	if err != nil {
		return err
	}

	doc.Entries = append(doc.Entries, entry)
	return s.writeAtomic(doc)
}

func (s *FileStore) Stats() (Stats, error) {
	entries, err := s.snapshot()
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(entries), nil
}

// Entries yields the log oldest-first. The returned sequence iterates over a
// point-in-time snapshot and can be ranged multiple times.
func (s *FileStore) Entries() (iter.Seq[Entry], error) {
	entries, err := s.snapshot()
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

func (s *FileStore) snapshot() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.RLock(); err != nil {
		return nil, cerrors.Wrap(err, cerrors.CodePersistence, "acquire history lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

// load reads the current document. A missing or empty file is an empty log;
// anything unreadable or structurally invalid is a persistence failure, not
// silently discarded history.
func (s *FileStore) load() (document, error) {
	doc := document{SchemaVersion: SchemaVersion}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return doc, cerrors.AddContext(
			cerrors.Wrap(err, cerrors.CodePersistence, "read history log"),
			cerrors.CtxPath, s.path)
	}
	if len(data) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, cerrors.AddContext(
			cerrors.Wrap(err, cerrors.CodePersistence, "history log is corrupt"),
			cerrors.CtxPath, s.path)
	}
	if doc.SchemaVersion > SchemaVersion {
		return doc, cerrors.New(cerrors.CodePersistence,
			fmt.Sprintf("history schema version %d is newer than supported version %d", doc.SchemaVersion, SchemaVersion))
	}
	doc.SchemaVersion = SchemaVersion
	return doc, nil
}

func (s *FileStore) writeAtomic(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return cerrors.Wrap(err, cerrors.CodePersistence, "encode history log")
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".history-*.tmp")
	if err != nil {
		return cerrors.Wrap(err, cerrors.CodePersistence, "create temp history file")
	}
	tmpPath := tmp.Name()

	cleanup := func(cause error, msg string) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return cerrors.AddContext(
			cerrors.Wrap(cause, cerrors.CodePersistence, msg),
			cerrors.CtxPath, s.path)
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err, "write history log")
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err, "sync history log")
	}
	if err := tmp.Close(); err != nil {
		return cleanup(err, "close history log")
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return cerrors.AddContext(
			cerrors.Wrap(err, cerrors.CodePersistence, "replace history log"),
			cerrors.CtxPath, s.path)
	}
	return nil
}
