package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"

	"go-violet/config"
	"go-violet/debug"
)

// Store persists the mapping table.
type Store interface {
	Load() (Table, error)
	Save(Table) error
}

// FileName is the mapping file inside the config directory.
const FileName = "midi-mappings.json"

// DefaultPath returns the mapping file in the config directory.
func DefaultPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// FileStore keeps the table as JSON on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads the table, returning the default table if the file is absent.
func (s *FileStore) Load() (Table, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTable(), nil
		}
		return DefaultTable(), fmt.Errorf("read mappings: %w", err)
	}

	t := DefaultTable()
	if err := json.Unmarshal(data, &t); err != nil {
		return DefaultTable(), fmt.Errorf("parse mappings %s: %w", s.path, err)
	}
	return t, nil
}

func (s *FileStore) Save(t Table) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// DebouncedStore coalesces bursts of saves into one write.
type DebouncedStore struct {
	inner    Store
	debounce func(func())

	mu      sync.Mutex
	pending *Table
}

func NewDebouncedStore(inner Store, after time.Duration) *DebouncedStore {
	return &DebouncedStore{inner: inner, debounce: debounce.New(after)}
}

func (s *DebouncedStore) Load() (Table, error) {
	return s.inner.Load()
}

// Save queues t; the write happens once saves stop arriving.
func (s *DebouncedStore) Save(t Table) error {
	s.mu.Lock()
	s.pending = &t
	s.mu.Unlock()
	s.debounce(func() {
		if err := s.Flush(); err != nil {
			debug.Log("mapping", "deferred save failed: %v", err)
		}
	})
	return nil
}

// Flush writes any queued table now.
func (s *DebouncedStore) Flush() error {
	s.mu.Lock()
	t := s.pending
	s.pending = nil
	s.mu.Unlock()
	if t == nil {
		return nil
	}
	return s.inner.Save(*t)
}
