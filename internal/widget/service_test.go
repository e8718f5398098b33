package widget

import (
	"context"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "widgets.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Widget{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewRepo(openTestDB(t)))
}

func TestCreate_Defaults(t *testing.T) {
	svc := newTestService(t)

	w, err := svc.Create(context.Background(), "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.ID == "" {
		t.Fatalf("expected generated id")
	}
	if w.Name != "My Chat Widget" {
		t.Fatalf("unexpected default name: %q", w.Name)
	}
	if !w.IsActive {
		t.Fatalf("new widget must be active")
	}
	if w.AI.Provider != "openai" || !w.AI.RestrictToBusinessTopics {
		t.Fatalf("unexpected ai defaults: %+v", w.AI)
	}
	if w.Behavior.AutoOpenDelay != 5 || !w.Behavior.SoundEnabled {
		t.Fatalf("unexpected behavior defaults: %+v", w.Behavior)
	}

	got, err := svc.Get(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Style.PrimaryColor != "#059669" {
		t.Fatalf("json column did not round-trip: %+v", got.Style)
	}
}

func TestUpdate_PreservesIdentity(t *testing.T) {
	svc := newTestService(t)

	w, err := svc.Create(context.Background(), "Original")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edited := *w
	edited.ID = "attempted-overwrite"
	edited.Name = "Renamed"
	edited.Style.PrimaryColor = "#123456"

	got, err := svc.Update(context.Background(), w.ID, edited)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ID != w.ID {
		t.Fatalf("id must be preserved, got %q", got.ID)
	}
	if got.Name != "Renamed" || got.Style.PrimaryColor != "#123456" {
		t.Fatalf("edits lost: %+v", got)
	}
	if !got.CreatedAt.Equal(w.CreatedAt) {
		t.Fatalf("creation time must be preserved")
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)

	w, err := svc.Create(context.Background(), "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := svc.Delete(context.Background(), w.ID)
	if err != nil || !deleted {
		t.Fatalf("delete: %v %v", deleted, err)
	}
	deleted, err = svc.Delete(context.Background(), w.ID)
	if err != nil || deleted {
		t.Fatalf("second delete must report not found, got %v %v", deleted, err)
	}
}

func TestDuplicate(t *testing.T) {
	svc := newTestService(t)

	w, err := svc.Create(context.Background(), "Support Bot")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	clone, err := svc.Duplicate(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if clone.ID == w.ID {
		t.Fatalf("clone must get a fresh id")
	}
	if clone.Name != "Support Bot (Copy)" {
		t.Fatalf("unexpected clone name: %q", clone.Name)
	}

	ws, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ws) != 2 {
		t.Fatalf("expected 2 widgets, got %d", len(ws))
	}
}

func TestAddContextSource(t *testing.T) {
	svc := newTestService(t)

	w, err := svc.Create(context.Background(), "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.AddContextSource(context.Background(), w.ID, ContextSource{
		Type:    "website",
		Name:    "Homepage",
		URL:     "https://example.com",
		Content: "extracted text",
	})
	if err != nil {
		t.Fatalf("add source: %v", err)
	}
	if len(got.ContextSources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(got.ContextSources))
	}
	src := got.ContextSources[0]
	if src.ID == "" || src.AddedAt.IsZero() {
		t.Fatalf("source must be stamped: %+v", src)
	}

	reloaded, err := svc.Get(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(reloaded.ContextSources) != 1 || reloaded.ContextSources[0].Content != "extracted text" {
		t.Fatalf("source did not persist: %+v", reloaded.ContextSources)
	}
}
