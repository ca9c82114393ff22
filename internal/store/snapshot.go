// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     store
// Description: SQLite persistence for FDL document snapshots
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"

	fdlerr "github.com/msto63/fdl/pkg/core/error"
	"github.com/msto63/fdl/pkg/core/log"
	"github.com/msto63/fdl/pkg/fdl"
	"github.com/msto63/fdl/pkg/fdl/parser"
)

// Snapshot is a stored document together with the outcome of parsing it
type Snapshot struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Source     string    `json:"source,omitempty"`
	Size       int       `json:"size"`
	Compressed bool      `json:"compressed"`
	Valid      bool      `json:"valid"`
	Error      string    `json:"error,omitempty"`
	Stats      fdl.Stats `json:"stats"`
	CreatedAt  time.Time `json:"created_at"`
}

// SnapshotStore defines the interface for snapshot persistence
type SnapshotStore interface {
	Save(ctx context.Context, name, source string) (*Snapshot, error)
	Get(ctx context.Context, id string) (*Snapshot, error)
	List(ctx context.Context, limit, offset int) ([]*Snapshot, error)
	Delete(ctx context.Context, id string) error
	Resolve(ctx context.Context, prefix string) (string, error)
	Statistics(ctx context.Context) (map[string]interface{}, error)
	Close() error
}

// Config holds configuration for the SQLite store
type Config struct {
	Path               string
	DisableCompression bool
	Logger             *log.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/snapshots.db",
	}
}

// SQLiteStore implements SnapshotStore using SQLite. Sources are stored
// zstd-compressed unless compression is disabled.
type SQLiteStore struct {
	db       *sql.DB
	mu       sync.RWMutex
	compress bool
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
	parser   *parser.Parser
	logger   *log.Logger
}

var _ SnapshotStore = (*SQLiteStore)(nil)

// New opens (and creates if needed) the store at cfg.Path
func New(cfg Config) (*SQLiteStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Nop()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, storeErr(err, "failed to create directory")
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, storeErr(err, "failed to open database")
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, storeErr(err, "failed to create encoder")
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, storeErr(err, "failed to create decoder")
	}

	s := &SQLiteStore{
		db:       db,
		compress: !cfg.DisableCompression,
		encoder:  encoder,
		decoder:  decoder,
		logger:   cfg.Logger.WithField("component", "store"),
	}
	s.parser = parser.New(parser.Options{Logger: s.logger})

	if err := s.initSchema(); err != nil {
		s.Close()
		return nil, storeErr(err, "failed to initialize schema")
	}

	return s, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		source BLOB NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		compressed INTEGER NOT NULL DEFAULT 0,
		valid INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		roots INTEGER NOT NULL DEFAULT 0,
		things INTEGER NOT NULL DEFAULT 0,
		props INTEGER NOT NULL DEFAULT 0,
		max_depth INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save parses source and stores it with the parse outcome. Invalid
// documents are stored too; their error is recorded.
func (s *SQLiteStore) Save(ctx context.Context, name, source string) (*Snapshot, error) {
	snap := &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    source,
		Size:      len(source),
		CreatedAt: time.Now().UTC(),
	}

	forest, err := fdl.ParseSource(s.parser, source)
	if err != nil {
		snap.Error = fdl.FormatError(err)
	} else {
		snap.Valid = true
		snap.Stats = fdl.Summarize(forest)
	}

	blob := []byte(source)
	if s.compress {
		blob = s.encoder.EncodeAll(blob, nil)
		snap.Compressed = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, name, source, size, compressed, valid, error,
			roots, things, props, max_depth, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Name, blob, snap.Size, snap.Compressed, snap.Valid, snap.Error,
		snap.Stats.Roots, snap.Stats.Things, snap.Stats.Props, snap.Stats.MaxDepth, snap.CreatedAt)
	if err != nil {
		return nil, storeErr(err, "failed to save snapshot")
	}

	s.logger.Debug("Snapshot saved", log.Fields{
		"id":    snap.ID,
		"name":  snap.Name,
		"valid": snap.Valid,
		"bytes": len(blob),
	})
	return snap, nil
}

// Get retrieves a snapshot including its source
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, source, size, compressed, valid, error,
			roots, things, props, max_depth, created_at
		FROM snapshots WHERE id = ?
	`, id)

	var snap Snapshot
	var blob []byte
	err := row.Scan(&snap.ID, &snap.Name, &blob, &snap.Size, &snap.Compressed, &snap.Valid, &snap.Error,
		&snap.Stats.Roots, &snap.Stats.Things, &snap.Stats.Props, &snap.Stats.MaxDepth, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, storeErr(err, "failed to get snapshot")
	}

	if snap.Compressed {
		blob, err = s.decoder.DecodeAll(blob, nil)
		if err != nil {
			return nil, storeErr(err, "failed to decompress snapshot").WithDetail("id", id)
		}
	}
	snap.Source = string(blob)
	return &snap, nil
}

// List returns snapshots without their source, newest first
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, size, compressed, valid, error,
			roots, things, props, max_depth, created_at
		FROM snapshots
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, storeErr(err, "failed to list snapshots")
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Size, &snap.Compressed, &snap.Valid, &snap.Error,
			&snap.Stats.Roots, &snap.Stats.Things, &snap.Stats.Props, &snap.Stats.MaxDepth, &snap.CreatedAt); err != nil {
			return nil, storeErr(err, "failed to scan snapshot")
		}
		snapshots = append(snapshots, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to list snapshots")
	}
	return snapshots, nil
}

// Delete removes a snapshot
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return storeErr(err, "failed to delete snapshot")
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		return notFound(id)
	}
	return nil
}

// Resolve expands a unique ID prefix to the full snapshot ID
func (s *SQLiteStore) Resolve(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fdlerr.New("empty snapshot id").WithCode(fdlerr.CodeInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM snapshots WHERE substr(id, 1, ?) = ? LIMIT 2`,
		len(prefix), prefix)
	if err != nil {
		return "", storeErr(err, "failed to resolve snapshot id")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", storeErr(err, "failed to scan snapshot id")
		}
		ids = append(ids, id)
	}

	switch len(ids) {
	case 0:
		return "", notFound(prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fdlerr.Newf("snapshot id prefix %q is ambiguous", prefix).
			WithCode(fdlerr.CodeInvalidInput)
	}
}

// Statistics returns counts over all stored snapshots
func (s *SQLiteStore) Statistics(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total, valid, bytes, stored sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(valid), SUM(size), SUM(length(source)) FROM snapshots
	`).Scan(&total, &valid, &bytes, &stored)
	if err != nil {
		return nil, storeErr(err, "failed to read statistics")
	}

	return map[string]interface{}{
		"total_snapshots": total.Int64,
		"valid_snapshots": valid.Int64,
		"source_bytes":    bytes.Int64,
		"stored_bytes":    stored.Int64,
	}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}

func storeErr(err error, msg string) *fdlerr.Error {
	return fdlerr.Wrap(err, msg).WithCode(fdlerr.CodeStore)
}

func notFound(id string) *fdlerr.Error {
	return fdlerr.Newf("snapshot not found: %s", id).
		WithCode(fdlerr.CodeNotFound).
		WithDetail("id", id)
}

// Ping verifies the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
