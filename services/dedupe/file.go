package dedupe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore implements Store on a single JSON document mapping URL to
// the RFC3339 timestamp it was first surfaced. The process is
// single-instance per run, so no locking is needed.
type FileStore struct {
	path string
	seen map[string]string
}

// NewFileStore creates a file store backed by the document at path
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		seen: make(map[string]string),
	}
}

// IsNew reports whether the URL has not been surfaced before
func (s *FileStore) IsNew(url string) bool {
	_, exists := s.seen[url]
	return !exists
}

// Record marks a URL as surfaced
func (s *FileStore) Record(url string, seenAt time.Time) {
	s.seen[url] = seenAt.UTC().Format(time.RFC3339)
}

// Size returns the number of recorded URLs
func (s *FileStore) Size() int {
	return len(s.seen)
}

// Load reads the document, starting empty on the first run
func (s *FileStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.seen = make(map[string]string)
			return nil
		}
		return fmt.Errorf("failed to read dedupe store: %w", err)
	}

	seen := make(map[string]string)
	if err := json.Unmarshal(data, &seen); err != nil {
		return fmt.Errorf("failed to parse dedupe store: %w", err)
	}

	s.seen = seen
	return nil
}

// Persist writes the full mapping. The write goes to a temp file that
// is renamed over the document, so an interrupted run leaves the
// previous document intact.
func (s *FileStore) Persist() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(s.seen)
	if err != nil {
		return fmt.Errorf("failed to encode dedupe store: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".processed_courses-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write dedupe store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace dedupe store: %w", err)
	}

	return nil
}
