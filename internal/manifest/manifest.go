// Package manifest records every file written by a generation run in a
// SQLite database.
package manifest

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// Entry is one written file.
type Entry struct {
	Buffer string
	// Config is the canonical key of the buffer configuration.
	Config string
	Module string
	Path   string
	Bytes  int
	Digest string
}

const createTable = `CREATE TABLE IF NOT EXISTS artifacts (
	Buffer TEXT NOT NULL,
	Config TEXT NOT NULL,
	Module TEXT NOT NULL,
	Path TEXT NOT NULL,
	Bytes INTEGER NOT NULL,
	Digest TEXT NOT NULL
);`

// SQLiteRecorder buffers entries and writes them in batches. It is safe for
// concurrent use.
type SQLiteRecorder struct {
	*sql.DB

	filename  string
	batchSize int

	mu      sync.Mutex
	pending []Entry
}

// New creates the database at path. An empty path picks a unique name in
// the working directory; a path without extension gets ".sqlite3". The
// database must not exist yet. Pending entries are flushed at exit.
func New(path string) (*SQLiteRecorder, error) {
	if path == "" {
		path = "bufgen_manifest_" + xid.New().String()
	}
	if filepath.Ext(path) == "" {
		path += ".sqlite3"
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("manifest: file %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", path, err)
	}
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("manifest: create table: %w", err)
	}

	r := &SQLiteRecorder{DB: db, filename: path, batchSize: 1000}
	atexit.Register(func() { _ = r.Flush() })
	return r, nil
}

// Filename is the database file.
func (r *SQLiteRecorder) Filename() string {
	return r.filename
}

// Record queues an entry for data written to path.
func (r *SQLiteRecorder) Record(buffer, config, module, path string, data []byte) error {
	sum := sha256.Sum256(data)
	r.mu.Lock()
	r.pending = append(r.pending, Entry{
		Buffer: buffer,
		Config: config,
		Module: module,
		Path:   path,
		Bytes:  len(data),
		Digest: hex.EncodeToString(sum[:]),
	})
	full := len(r.pending) >= r.batchSize
	r.mu.Unlock()

	if full {
		return r.Flush()
	}
	return nil
}

// Flush writes every queued entry in one transaction.
func (r *SQLiteRecorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 {
		return nil
	}

	tx, err := r.Begin()
	if err != nil {
		return fmt.Errorf("manifest: begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO artifacts (Buffer, Config, Module, Path, Bytes, Digest) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("manifest: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range r.pending {
		if _, err := stmt.Exec(e.Buffer, e.Config, e.Module, e.Path, e.Bytes, e.Digest); err != nil {
			tx.Rollback()
			return fmt.Errorf("manifest: insert %s: %w", e.Path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("manifest: commit: %w", err)
	}
	r.pending = r.pending[:0]
	return nil
}

// ListEntries flushes and returns every recorded entry in insertion order.
func (r *SQLiteRecorder) ListEntries() ([]Entry, error) {
	if err := r.Flush(); err != nil {
		return nil, err
	}
	rows, err := r.Query(`SELECT Buffer, Config, Module, Path, Bytes, Digest FROM artifacts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("manifest: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Buffer, &e.Config, &e.Module, &e.Path, &e.Bytes, &e.Digest); err != nil {
			return nil, fmt.Errorf("manifest: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close flushes and closes the database.
func (r *SQLiteRecorder) Close() error {
	if err := r.Flush(); err != nil {
		r.DB.Close()
		return err
	}
	return r.DB.Close()
}
