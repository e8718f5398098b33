package session

import (
	"path/filepath"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	if _, ok := s.Get("k"); ok {
		t.Fatalf("unexpected hit on empty store")
	}
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok := s.Get("k")
	if !ok || v != "v" {
		t.Fatalf("get: %q %v", v, ok)
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.json")

	first := NewFileStore(path)
	if err := first.Set(sessionIDKey, "sess_ABC"); err != nil {
		t.Fatalf("set: %v", err)
	}

	second := NewFileStore(path)
	v, ok := second.Get(sessionIDKey)
	if !ok || v != "sess_ABC" {
		t.Fatalf("expected persisted id, got %q %v", v, ok)
	}
}

func TestFileStore_MissingFileIsMiss(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
	if _, ok := s.Get("k"); ok {
		t.Fatalf("missing file must read as a miss")
	}
}
