package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var errCorruptFile = errors.New("corrupt store file")

// FileBackend stores checkpoints in a single JSON file mapping each key to its
// blob, kept as an opaque string.
type FileBackend struct {
	path string
	mu   sync.Mutex
}

// NewFileBackend returns a backend writing to path. The file is created on first save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (f *FileBackend) readAll() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w %s: %v", errCorruptFile, f.path, err)
	}
	return entries, nil
}

// Load returns the blob under key. A file that does not parse holds no checkpoints.
func (f *FileBackend) Load(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.readAll()
	if errors.Is(err, errCorruptFile) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	raw, ok := entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(raw), nil
}

func (f *FileBackend) Save(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("checkpoint for %s is not valid JSON", key)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.readAll()
	switch {
	case errors.Is(err, errCorruptFile):
		// Corrupt files are overwritten.
		entries = map[string]string{}
	case err != nil:
		return err
	}
	entries[key] = string(value)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	// Atomic write: temp file, then rename
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileBackend) Close() error { return nil }
