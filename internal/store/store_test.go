package store

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

type kvStore interface {
	LoadSettings() (map[string]string, error)
	SaveSettings(map[string]string) error
	LoadUndo() ([]int, error)
	SaveUndo([]int) error
	Clear() error
	Close() error
}

func openDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "quotaclock.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStores(t *testing.T) {
	impls := map[string]func(t *testing.T) kvStore{
		"sqlite": func(t *testing.T) kvStore { return openDB(t) },
		"memory": func(t *testing.T) kvStore { return NewMemory() },
	}
	for name, mk := range impls {
		t.Run(name, func(t *testing.T) {
			s := mk(t)

			got, err := s.LoadSettings()
			if err != nil || len(got) != 0 {
				t.Fatalf("LoadSettings() on empty store = %v, %v", got, err)
			}

			if err := s.SaveSettings(map[string]string{"totalHours": "100", "darkMode": "false"}); err != nil {
				t.Fatalf("SaveSettings() error: %v", err)
			}
			if err := s.SaveSettings(map[string]string{"darkMode": "true"}); err != nil {
				t.Fatalf("SaveSettings() error: %v", err)
			}
			got, err = s.LoadSettings()
			if err != nil {
				t.Fatalf("LoadSettings() error: %v", err)
			}
			if got["totalHours"] != "100" || got["darkMode"] != "true" {
				t.Fatalf("LoadSettings() = %v, want totalHours=100 darkMode=true", got)
			}

			if err := s.SaveUndo([]int{300, 200, 100}); err != nil {
				t.Fatalf("SaveUndo() error: %v", err)
			}
			if err := s.SaveUndo([]int{5, 6}); err != nil {
				t.Fatalf("SaveUndo() error: %v", err)
			}
			undo, err := s.LoadUndo()
			if err != nil {
				t.Fatalf("LoadUndo() error: %v", err)
			}
			if !slices.Equal(undo, []int{5, 6}) {
				t.Fatalf("LoadUndo() = %v, want [5 6]", undo)
			}

			if err := s.Clear(); err != nil {
				t.Fatalf("Clear() error: %v", err)
			}
			got, _ = s.LoadSettings()
			undo, _ = s.LoadUndo()
			if len(got) != 0 || len(undo) != 0 {
				t.Fatalf("after Clear settings=%v undo=%v, want empty", got, undo)
			}
		})
	}
}

func TestDBPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotaclock.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := db.SaveSettings(map[string]string{"resetDay": "3"}); err != nil {
		t.Fatalf("SaveSettings() error: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer func() { _ = db.Close() }()

	got, err := db.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if got["resetDay"] != "3" {
		t.Fatalf("resetDay = %q, want 3", got["resetDay"])
	}
}

func TestClosedDB(t *testing.T) {
	db := openDB(t)
	_ = db.Close()
	if _, err := db.LoadSettings(); !errors.Is(err, ErrClosed) {
		t.Fatalf("LoadSettings() after Close error = %v, want ErrClosed", err)
	}
}

func TestMemoryFailWith(t *testing.T) {
	boom := errors.New("disk full")
	m := NewMemory()
	m.FailWith = boom
	if err := m.SaveSettings(map[string]string{"a": "b"}); !errors.Is(err, boom) {
		t.Fatalf("SaveSettings() error = %v, want %v", err, boom)
	}
}
