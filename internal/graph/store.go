// Package graph is the store adapter for the social graph: profile,
// playlist, and song-marker nodes joined by labeled edges. Every toggle
// operation runs its existence probe and its mutation inside one database
// transaction, so callers never observe a half-applied check-then-act and
// a failed operation leaves no partial mutation behind.
package graph

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Edge labels. The graph carries exactly three relationship kinds.
const (
	LabelCreated  = "created"
	LabelFollows  = "follows"
	LabelIncludes = "includes"
)

// PlaylistName returns the deterministic playlist key for a user. Playlists
// are never independently named; one exists per profile.
func PlaylistName(userName string) string {
	return userName + "-favorites"
}

// Store is the sqlx-backed graph store adapter.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an already-opened graph database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *Store) q(query string) string { return s.db.Rebind(query) }

// withTx runs fn inside a transaction, rolling back on any error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ProfileExists reports whether a profile node with the given userName exists.
func (s *Store) ProfileExists(ctx context.Context, userName string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM profiles WHERE user_name = ?`, userName)
}

// SongMarkerExists reports whether a song marker node with the given id exists.
func (s *Store) SongMarkerExists(ctx context.Context, songID string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM song_markers WHERE song_id = ?`, songID)
}

func noRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }

func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := s.db.GetContext(ctx, &one, s.q(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("existence probe: %w", err)
	}
	return true, nil
}

// edgeExists probes for a (src, label, dst) edge inside tx.
func edgeExists(ctx context.Context, tx *sqlx.Tx, src, label, dst string) (bool, error) {
	var one int
	err := tx.GetContext(ctx, &one,
		tx.Rebind(`SELECT 1 FROM edges WHERE src = ? AND label = ? AND dst = ?`),
		src, label, dst)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("edge probe: %w", err)
	}
	return true, nil
}

func insertEdge(ctx context.Context, tx *sqlx.Tx, src, label, dst string) error {
	_, err := tx.ExecContext(ctx,
		tx.Rebind(`INSERT INTO edges (src, label, dst, created_at) VALUES (?, ?, ?, ?)`),
		src, label, dst, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert %s edge: %w", label, err)
	}
	return nil
}

func deleteEdge(ctx context.Context, tx *sqlx.Tx, src, label, dst string) error {
	_, err := tx.ExecContext(ctx,
		tx.Rebind(`DELETE FROM edges WHERE src = ? AND label = ? AND dst = ?`),
		src, label, dst)
	if err != nil {
		return fmt.Errorf("delete %s edge: %w", label, err)
	}
	return nil
}
