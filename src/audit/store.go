// Package audit keeps the append-only record of every resolved verdict.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Store is an append-only audit log.
type Store interface {
	// Append stamps e with the current time and persists it.
	Append(ctx context.Context, e Entry) (Entry, error)
	// ReadAll returns every entry in append order.
	ReadAll(ctx context.Context) ([]Entry, error)
}

// FileStore keeps the log as a single JSON array. Every append reads the whole file and
// rewrites it, so it is meant for modest volumes.
type FileStore struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the parent directory of path if needed.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("audit: log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("audit: create log dir: %w", err)
	}
	return &FileStore{path: path, now: time.Now}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Append(ctx context.Context, e Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		// A file that fails to parse is never rewritten.
		return Entry{}, err
	}
	e.Timestamp = s.now().UTC().Truncate(time.Millisecond)
	entries = append(entries, e)

	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return Entry{}, fmt.Errorf("audit: encode: %w", err)
	}
	if err := writeFileAtomic(s.path, raw); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *FileStore) ReadAll(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) read() ([]Entry, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("audit: read %s: %w", s.path, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("audit: parse %s: %w", s.path, err)
	}
	return entries, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("audit: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("audit: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("audit: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("audit: replace %s: %w", path, err)
	}
	return nil
}
