package history

import (
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

func sqliteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreRecordAndLoad(t *testing.T) {
	store := sqliteStore(t)
	base := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)

	entries := []Entry{
		{Timestamp: base, Filename: "a.py", Score: 70},
		{Timestamp: base.Add(time.Hour), Filename: "b.py", Score: 95},
	}
	for _, e := range entries {
		if err := store.Record(e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	seq, err := store.Entries()
	if err != nil {
		t.Fatal(err)
	}
	got := slices.Collect(seq)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Filename != "a.py" || got[1].Filename != "b.py" {
		t.Errorf("entries out of insertion order: %+v", got)
	}
	if !got[0].Timestamp.Equal(base) {
		t.Errorf("timestamp not preserved: %v", got[0].Timestamp)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalAnalyses != 2 || stats.BestScore != 95 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestSQLiteStoreEmptyLog(t *testing.T) {
	store := sqliteStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalAnalyses != 0 || stats.AverageScore != 0 || stats.BestScore != 0 {
		t.Errorf("empty store must report zeros, got %+v", stats)
	}
}

func TestSQLiteStoreSchemaReopens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Record(Entry{Filename: "a.py", Score: 40}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	fresh, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen with existing schema: %v", err)
	}
	defer fresh.Close()

	stats, err := fresh.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalAnalyses != 1 {
		t.Errorf("expected entry to survive reopen, got %+v", stats)
	}
}

func TestSQLiteStoreConcurrentRecords(t *testing.T) {
	store := sqliteStore(t)

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := store.Record(Entry{Filename: "c.py", Score: 10 * (n % 10)}); err != nil {
				t.Errorf("concurrent record: %v", err)
			}
		}(i)
	}
	wg.Wait()

	stats, err := store.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalAnalyses != writers {
		t.Errorf("expected %d entries, got %d", writers, stats.TotalAnalyses)
	}
}
