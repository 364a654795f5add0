package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/lifebind/internal/domain"
)

func TestStatusFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "status.json")
	repo := NewStatusFileRepository(path)

	expected := domain.Status{
		Runner:    "Running",
		Owner:     "main",
		State:     "Resumed",
		BindingID: "abc",
		Phase:     "active",
		Policy:    "defer-until-active",
		Source:    "observable",
		Delivered: 3,
		LastValue: "2",
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	if err := repo.Save(context.Background(), expected); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != expected {
		t.Fatalf("Load() = %+v, want %+v", got, expected)
	}
	if repo.Path() != path {
		t.Fatalf("Path() = %s, want %s", repo.Path(), path)
	}
}

func TestStatusFileLoadMissing(t *testing.T) {
	repo := NewStatusFileRepository(filepath.Join(t.TempDir(), "status.json"))

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != (domain.Status{}) {
		t.Fatalf("Load() = %+v, want empty status", got)
	}
}

func TestStatusFileLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewStatusFileRepository(path).Load(context.Background()); err == nil {
		t.Fatal("Load() expected error for corrupt file")
	}
}

func TestStatusFileSaveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewStatusFileRepository(filepath.Join(t.TempDir(), "status.json"))
	if err := repo.Save(ctx, domain.Status{}); err == nil {
		t.Fatal("Save() expected error for canceled context")
	}
}
