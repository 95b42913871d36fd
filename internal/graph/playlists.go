package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// CreateSongMarker creates a bare song marker node. Idempotent merge
// semantics: creating an existing marker succeeds with created=false, so a
// retried registration converges instead of failing.
func (s *Store) CreateSongMarker(ctx context.Context, songID string) (created bool, err error) {
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		var one int
		err := tx.GetContext(ctx, &one,
			tx.Rebind(`SELECT 1 FROM song_markers WHERE song_id = ?`), songID)
		if err == nil {
			return nil
		}
		if !noRows(err) {
			return fmt.Errorf("marker probe: %w", err)
		}
		created = true
		_, err = tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO song_markers (song_id, created_at) VALUES (?, ?)`),
			songID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("insert marker: %w", err)
		}
		return nil
	})
	return created, err
}

// ToggleLike creates the includes edge from the user's playlist to the song
// marker if absent. Reports created=false when the song was already liked.
func (s *Store) ToggleLike(ctx context.Context, userName, songID string) (created bool, err error) {
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := edgeExists(ctx, tx, PlaylistName(userName), LabelIncludes, songID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		created = true
		return insertEdge(ctx, tx, PlaylistName(userName), LabelIncludes, songID)
	})
	return created, err
}

// ToggleUnlike removes the includes edge if present. Reports removed=false
// when the song was not liked, so the caller short-circuits before any
// counter decrement.
func (s *Store) ToggleUnlike(ctx context.Context, userName, songID string) (removed bool, err error) {
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := edgeExists(ctx, tx, PlaylistName(userName), LabelIncludes, songID)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		removed = true
		return deleteEdge(ctx, tx, PlaylistName(userName), LabelIncludes, songID)
	})
	return removed, err
}

// DeleteSongMarker removes the marker node and every edge touching it in one
// transaction, a detach-delete cascade. Deleting an absent marker is a
// no-op so the delete protocol can be retried safely.
func (s *Store) DeleteSongMarker(ctx context.Context, songID string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`DELETE FROM edges WHERE (dst = ? AND label = ?) OR src = ?`),
			songID, LabelIncludes, songID); err != nil {
			return fmt.Errorf("detach marker edges: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`DELETE FROM song_markers WHERE song_id = ?`), songID); err != nil {
			return fmt.Errorf("delete marker: %w", err)
		}
		return nil
	})
}

// LikedSongIDs returns the song ids on the user's playlist. Order is not
// guaranteed.
func (s *Store) LikedSongIDs(ctx context.Context, userName string) ([]string, error) {
	ids := []string{}
	err := s.db.SelectContext(ctx, &ids,
		s.q(`SELECT dst FROM edges WHERE src = ? AND label = ?`),
		PlaylistName(userName), LabelIncludes)
	if err != nil {
		return nil, fmt.Errorf("list liked songs: %w", err)
	}
	return ids, nil
}
