// Package store persists a local listening history in SQLite.
//
// Played tracks are recorded by the player commands and listed by the
// history command. Duplicate plays (same track at the same instant) are
// deduplicated via a UNIQUE constraint and silently ignored.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS plays (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	track_id TEXT NOT NULL,
	title TEXT NOT NULL,
	artist TEXT NOT NULL DEFAULT '',
	album TEXT NOT NULL DEFAULT '',
	played_at TIMESTAMP NOT NULL,
	UNIQUE(track_id, played_at)
);
CREATE INDEX IF NOT EXISTS idx_plays_played_at ON plays(played_at DESC);
`

// Play is one recorded listening-history entry.
type Play struct {
	ID       int64
	TrackID  string
	Title    string
	Artist   string
	Album    string
	PlayedAt time.Time
}

// Store wraps the SQLite connection holding the listening history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at the specified path.
// The path can be ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Configure sets connection pool settings for the underlying database.
func (s *Store) Configure(maxOpenConns, maxIdleConns int) {
	s.db.SetMaxOpenConns(maxOpenConns)
	s.db.SetMaxIdleConns(maxIdleConns)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordPlay inserts a listening-history entry.
// Returns nil if the same play was already recorded (deduplication).
func (s *Store) RecordPlay(p Play) error {
	if p.TrackID == "" {
		return fmt.Errorf("missing track id")
	}
	if p.PlayedAt.IsZero() {
		p.PlayedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO plays (track_id, title, artist, album, played_at) VALUES (?, ?, ?, ?, ?)`,
		p.TrackID, p.Title, p.Artist, p.Album, p.PlayedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to record play: %w", err)
	}

	return nil
}

// RecentPlays lists the most recent entries, newest first.
func (s *Store) RecentPlays(limit int) ([]Play, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, track_id, title, artist, album, played_at FROM plays ORDER BY played_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var p Play
		if err := rows.Scan(&p.ID, &p.TrackID, &p.Title, &p.Artist, &p.Album, &p.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		plays = append(plays, p)
	}

	return plays, rows.Err()
}
