// Package catalog is the store adapter for the song catalog: one document
// per song holding its descriptive metadata and the favourites counter. The
// counter update is a single conditional UPDATE serialized per row by the
// database, so concurrent likes of the same song never lose an increment
// and the count can never be driven below zero.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/chorusproject/chorus/internal/status"
)

// Song is a catalog document. FavouritesCount is maintained exclusively by
// AdjustFavourites.
type Song struct {
	ID              string    `db:"id" json:"id"`
	SongName        string    `db:"song_name" json:"songName"`
	ArtistFullName  string    `db:"song_artist_full_name" json:"songArtistFullName"`
	Album           string    `db:"song_album" json:"songAlbum"`
	FavouritesCount int64     `db:"favourites_count" json:"songAmountFavourites"`
	CreatedAt       time.Time `db:"created_at" json:"-"`
	UpdatedAt       time.Time `db:"updated_at" json:"-"`
}

// Store is the sqlx-backed catalog store adapter.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an already-opened catalog database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *Store) q(query string) string { return s.db.Rebind(query) }

// Insert assigns a new primary key and stores the document. All three
// descriptive fields must be non-empty.
func (s *Store) Insert(ctx context.Context, songName, artistFullName, album string) (*Song, error) {
	if songName == "" || artistFullName == "" || album == "" {
		return nil, fmt.Errorf("song fields must be non-empty: %w", status.ErrInvalidOperation)
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO songs (id, song_name, song_artist_full_name, song_album, favourites_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
	`), id, songName, artistFullName, album, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert song: %w", err)
	}
	return s.FindByID(ctx, id)
}

// FindByID returns the document with the given id, or status.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (*Song, error) {
	var song Song
	err := s.db.GetContext(ctx, &song, s.q(`SELECT * FROM songs WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("song %q: %w", id, status.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find song: %w", err)
	}
	return &song, nil
}

// DeleteByID removes the document, or returns status.ErrNotFound if no row
// matched.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM songs WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("song %q: %w", id, status.ErrNotFound)
	}
	return nil
}

// AdjustFavourites applies delta (+1 or -1) to the favourites counter and
// returns the new count. The guard clause makes the decrement-below-zero
// case fail inside the UPDATE itself rather than in application code; a
// rejected decrement returns status.ErrInvalidOperation and leaves the row
// untouched.
func (s *Store) AdjustFavourites(ctx context.Context, id string, delta int64) (int64, error) {
	var count int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE songs
			SET favourites_count = favourites_count + ?, updated_at = ?
			WHERE id = ? AND favourites_count + ? >= 0
		`), delta, time.Now().UTC(), id, delta)
		if err != nil {
			return fmt.Errorf("adjust favourites: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("adjust favourites: %w", err)
		}
		if n == 0 {
			// Nothing matched: either the song is gone or the guard
			// rejected a would-be-negative count.
			var one int
			err := tx.GetContext(ctx, &one, tx.Rebind(`SELECT 1 FROM songs WHERE id = ?`), id)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("song %q: %w", id, status.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("adjust favourites probe: %w", err)
			}
			return fmt.Errorf("favourites count cannot go below zero: %w", status.ErrInvalidOperation)
		}
		return tx.GetContext(ctx, &count,
			tx.Rebind(`SELECT favourites_count FROM songs WHERE id = ?`), id)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

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
