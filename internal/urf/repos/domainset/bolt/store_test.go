package bolt

import (
	"path/filepath"
	"testing"

	"github.com/haukened/rr-urf/internal/urf/repos/domainset"
)

func newTestStore(t *testing.T) domainset.Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestExists(t *testing.T) {
	s := newTestStore(t)
	if err := s.RebuildAll([]string{"malware.com", "phish.org"}, 1, 100); err != nil {
		t.Fatal(err)
	}

	ok, err := s.Exists("malware.com")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected malware.com to exist")
	}
	ok, err = s.Exists("clean.com")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected clean.com to not exist")
	}
}

func TestRebuildAll_ReplacesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.RebuildAll([]string{"old.com"}, 1, 100); err != nil {
		t.Fatal(err)
	}
	if err := s.RebuildAll([]string{"new.com"}, 2, 200); err != nil {
		t.Fatal(err)
	}

	if ok, _ := s.Exists("old.com"); ok {
		t.Error("old entry should be gone after rebuild")
	}
	if ok, _ := s.Exists("new.com"); !ok {
		t.Error("new entry should exist after rebuild")
	}

	stats := s.Stats()
	if stats.Entries != 1 || stats.Version != 2 || stats.UpdatedUnix != 200 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RebuildAll([]string{"malware.com"}, 9, 900); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if ok, _ := reopened.Exists("malware.com"); !ok {
		t.Error("entry should survive a close and reopen")
	}
	stats := reopened.Stats()
	if stats.Version != 9 || stats.UpdatedUnix != 900 {
		t.Errorf("snapshot metadata should persist, got %+v", stats)
	}
}

func TestEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if ok, _ := s.Exists("anything.com"); ok {
		t.Error("fresh store should contain nothing")
	}
	stats := s.Stats()
	if stats.Entries != 0 {
		t.Errorf("fresh store should report zero entries, got %d", stats.Entries)
	}
}
