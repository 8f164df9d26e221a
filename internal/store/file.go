package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Logger receives watcher errors.
type Logger interface {
	Warn(msg string, args ...any)
}

// FileStore keeps every key in a single JSON object on disk.
// Writes go to a temporary file that is renamed over the original.
type FileStore struct {
	mu     sync.Mutex
	path   string
	last   []byte
	closed bool
	logger Logger
}

// NewFileStore creates a store backed by the JSON file at path.
// The file and its directory are created on first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("file store: resolving %s: %w", path, err)
	}
	return &FileStore{path: abs}, nil
}

// SetLogger sets where watcher errors are reported.
func (s *FileStore) SetLogger(l Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// Path returns the absolute file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false, ErrClosed
	}
	doc, err := s.readLocked()
	if err != nil {
		return nil, false, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

// Set implements Store.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("file store: value for %q is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	doc, err := s.readLocked()
	if err != nil {
		return err
	}
	doc[key] = json.RawMessage(append([]byte(nil), value...))
	return s.writeLocked(doc)
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	doc, err := s.readLocked()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return s.writeLocked(doc)
}

// Close implements Store.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// readLocked loads the whole document. A missing file is an empty document.
func (s *FileStore) readLocked() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("file store: reading %s: %w", s.path, err)
	}
	s.last = data
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("file store: decoding %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) writeLocked(doc map[string]json.RawMessage) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("file store: encoding: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file store: creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".canvaskeys-*.tmp")
	if err != nil {
		return fmt.Errorf("file store: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file store: writing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file store: writing: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file store: replacing %s: %w", s.path, err)
	}

	s.last = data
	return nil
}

// changedExternally reports whether the file differs from what this store
// last read or wrote.
func (s *FileStore) changedExternally() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if bytes.Equal(data, s.last) {
		return false
	}
	s.last = data
	return true
}

// Watch calls onChange whenever another process rewrites the file.
// The watch ends when ctx is cancelled.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file store: creating watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		w.Close()
		return fmt.Errorf("file store: creating %s: %w", dir, err)
	}
	// Watch the directory: rename-based writes replace the file's inode.
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("file store: watching %s: %w", dir, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != s.path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if s.changedExternally() {
					onChange()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.mu.Lock()
				logger := s.logger
				s.mu.Unlock()
				if logger != nil {
					logger.Warn("watching %s: %v", s.path, err)
				}
			}
		}
	}()

	return nil
}
