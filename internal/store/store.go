// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/vibectl/internal/pattern"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound reports a pattern name with no saved entry.
var ErrNotFound = errors.New("pattern not found")

// Store wraps SQLite access for the pattern library and play history.
type Store struct {
	db *sql.DB
}

// PatternInfo summarizes a saved pattern.
type PatternInfo struct {
	Name       string
	Kind       pattern.Kind
	DurationMs int
	CreatedAt  time.Time
}

// Play records one playback for the history log.
type Play struct {
	ID         int64
	Name       string
	Kind       string
	DurationMs int
	PlayedAt   time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS patterns (
			name TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			body TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			played_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_plays_played_at ON plays(played_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SavePattern stores a pattern's TOML source under its name, replacing any
// previous version.
func (s *Store) SavePattern(ctx context.Context, p pattern.Pattern) error {
	if p.Name == "" {
		return fmt.Errorf("pattern has no name")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO patterns (name, kind, duration_ms, body, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			kind = excluded.kind,
			duration_ms = excluded.duration_ms,
			body = excluded.body,
			created_at = excluded.created_at`,
		p.Name,
		string(p.Kind),
		p.DurationMs(),
		p.Source,
		time.Now().Format(time.RFC3339Nano),
	)
	return err
}

// GetPattern loads and re-decodes a saved pattern.
func (s *Store) GetPattern(ctx context.Context, name string) (pattern.Pattern, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM patterns WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return pattern.Pattern{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return pattern.Pattern{}, err
	}
	return pattern.Decode([]byte(body))
}

// ListPatterns returns saved pattern summaries ordered by name.
func (s *Store) ListPatterns(ctx context.Context) ([]PatternInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, kind, duration_ms, created_at FROM patterns ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var infos []PatternInfo
	for rows.Next() {
		var info PatternInfo
		var kind, createdAt string
		if err := rows.Scan(&info.Name, &kind, &info.DurationMs, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		info.Kind = pattern.Kind(kind)
		info.CreatedAt = parsed
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}

// DeletePattern removes a saved pattern.
func (s *Store) DeletePattern(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM patterns WHERE name = ?`, name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// InsertPlay appends one playback record to the history.
func (s *Store) InsertPlay(ctx context.Context, play Play) error {
	playedAt := play.PlayedAt
	if playedAt.IsZero() {
		playedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO plays (name, kind, duration_ms, played_at) VALUES (?, ?, ?, ?)`,
		play.Name,
		play.Kind,
		play.DurationMs,
		playedAt.Format(time.RFC3339Nano),
	)
	return err
}

// ListPlays returns the most recent playback records, newest first. A limit
// of zero returns everything.
func (s *Store) ListPlays(ctx context.Context, limit int) ([]Play, error) {
	query := `SELECT id, name, kind, duration_ms, played_at FROM plays ORDER BY played_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var plays []Play
	for rows.Next() {
		var play Play
		var playedAt string
		if err := rows.Scan(&play.ID, &play.Name, &play.Kind, &play.DurationMs, &playedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, playedAt)
		if err != nil {
			return nil, err
		}
		play.PlayedAt = parsed
		plays = append(plays, play)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plays, nil
}
