package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/errors"
	"github.com/matzehuels/scopeplot/pkg/observability"
)

// FileStore keeps layouts as JSON files in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store. If baseDir is empty, defaults to
// ~/.local/share/scopeplot/layouts/.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".local", "share", "scopeplot", "layouts")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create layout dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) layoutPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) Save(ctx context.Context, l cursor.Layout) error {
	if err := errors.ValidateLayoutName(l.Name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}
	err = os.WriteFile(s.layoutPath(l.Name), data, 0o600)
	observability.Store().OnSave(ctx, BackendFile, len(data), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write layout file")
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, name string) (cursor.Layout, error) {
	if err := errors.ValidateLayoutName(name); err != nil {
		return cursor.Layout{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	data, err := os.ReadFile(s.layoutPath(name))
	observability.Store().OnLoad(ctx, BackendFile, err == nil, time.Since(start))
	if err != nil {
		if os.IsNotExist(err) {
			return cursor.Layout{}, notFound(name)
		}
		return cursor.Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "read layout file")
	}

	var l cursor.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return cursor.Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse layout %q", name)
	}
	return l, nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read layout dir")
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	slices.Sort(names)
	return names, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateLayoutName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.layoutPath(name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove layout file")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for layout files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
