package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/tools/txtar"
)

// Sink receives rendered files.
type Sink interface {
	Write(name string, data []byte) error
}

// DirSink writes files into a directory, creating it on first use.
type DirSink struct {
	Dir string
}

// Write implements Sink.
func (s DirSink) Write(name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(s.Path(name), data, 0o644)
}

// Path returns where name is written.
func (s DirSink) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// BundleSink collects files into a single txtar archive. It is safe for
// concurrent use; Close writes the archive.
type BundleSink struct {
	path  string
	mu    sync.Mutex
	files map[string][]byte
}

// NewBundleSink returns a sink archiving into path.
func NewBundleSink(path string) *BundleSink {
	return &BundleSink{path: path, files: make(map[string][]byte)}
}

// Write implements Sink. Writing the same name twice keeps the last data.
func (s *BundleSink) Write(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = append([]byte(nil), data...)
	return nil
}

// Archive returns the collected files sorted by name.
func (s *BundleSink) Archive() *txtar.Archive {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	ar := &txtar.Archive{}
	for _, name := range names {
		ar.Files = append(ar.Files, txtar.File{Name: name, Data: s.files[name]})
	}
	return ar
}

// Close writes the archive to its path.
func (s *BundleSink) Close() error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("backend: create bundle dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, txtar.Format(s.Archive()), 0o644); err != nil {
		return fmt.Errorf("backend: write bundle: %w", err)
	}
	return nil
}

// ReadBundle parses a bundle written by BundleSink.
func ReadBundle(path string) (map[string][]byte, error) {
	ar, err := txtar.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("backend: read bundle: %w", err)
	}
	files := make(map[string][]byte, len(ar.Files))
	for _, f := range ar.Files {
		files[f.Name] = f.Data
	}
	return files, nil
}
