package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/errors"
)

func sampleLayout(name string) cursor.Layout {
	return cursor.Layout{
		Name: name,
		Cursors: []cursor.Record{
			{ID: "a", Name: "A", Position: 1, Color: "#0000ff"},
			{ID: "b", Name: "B", Position: 4, Delta: -3, Color: "#ff0000", Reference: "a"},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, sampleLayout("bench")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load(ctx, "bench")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Cursors) != 2 || got.Cursors[1].Reference != "a" || got.Cursors[1].Delta != -3 {
		t.Errorf("loaded = %+v", got)
	}

	g := cursor.NewGraph()
	if err := g.Restore(got); err != nil {
		t.Fatalf("restore loaded layout: %v", err)
	}
}

func TestFileStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Save(ctx, sampleLayout(name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	names, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 3 || names[0] != "alpha" || names[2] != "zeta" {
		t.Errorf("names = %v", names)
	}

	if err := s.Delete(ctx, "mid"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "mid"); err != nil {
		t.Errorf("deleting twice: %v", err)
	}
	if _, err := s.Load(ctx, "mid"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("load deleted = %v, want NOT_FOUND", err)
	}
}

func TestFileStoreRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())
	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		t.Run(name, func(t *testing.T) {
			if err := s.Save(ctx, sampleLayout(name)); !errors.Is(err, errors.ErrCodeInvalidName) {
				t.Errorf("Save(%q) = %v", name, err)
			}
			if _, err := s.Load(ctx, name); !errors.Is(err, errors.ErrCodeInvalidName) {
				t.Errorf("Load(%q) = %v", name, err)
			}
		})
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(context.Background(), "broken"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), Options{Backend: "s3"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v", err)
	}
	s, err := Open(context.Background(), Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("default backend = %T, want *FileStore", s)
	}
}
