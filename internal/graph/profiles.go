package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chorusproject/chorus/internal/status"
)

// CreateProfile creates a profile node, its playlist node, and the created
// edge between them as one transaction. Returns status.ErrAlreadyExists if
// the userName is taken; the duplicate check and the inserts share the
// transaction so two concurrent registrations cannot both pass the probe
// and commit.
func (s *Store) CreateProfile(ctx context.Context, userName, fullName, password string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var one int
		err := tx.GetContext(ctx, &one,
			tx.Rebind(`SELECT 1 FROM profiles WHERE user_name = ?`), userName)
		if err == nil {
			return fmt.Errorf("profile %q: %w", userName, status.ErrAlreadyExists)
		}
		if !noRows(err) {
			return fmt.Errorf("profile probe: %w", err)
		}

		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO profiles (user_name, full_name, password, created_at) VALUES (?, ?, ?, ?)`),
			userName, fullName, password, now); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO playlists (pl_name, created_at) VALUES (?, ?)`),
			PlaylistName(userName), now); err != nil {
			return fmt.Errorf("insert playlist: %w", err)
		}
		return insertEdge(ctx, tx, userName, LabelCreated, PlaylistName(userName))
	})
}

// ToggleFollow creates the follows edge from userName to friendUserName if
// absent. Reports created=false when the edge already existed; that is not
// an error, but callers surface it as a distinct outcome.
func (s *Store) ToggleFollow(ctx context.Context, userName, friendUserName string) (created bool, err error) {
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := edgeExists(ctx, tx, userName, LabelFollows, friendUserName)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		created = true
		return insertEdge(ctx, tx, userName, LabelFollows, friendUserName)
	})
	return created, err
}

// ToggleUnfollow removes the follows edge if present. Reports removed=false
// when there was nothing to remove.
func (s *Store) ToggleUnfollow(ctx context.Context, userName, friendUserName string) (removed bool, err error) {
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := edgeExists(ctx, tx, userName, LabelFollows, friendUserName)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		removed = true
		return deleteEdge(ctx, tx, userName, LabelFollows, friendUserName)
	})
	return removed, err
}

// FriendsOf returns the userNames this user follows. Order is not
// guaranteed.
func (s *Store) FriendsOf(ctx context.Context, userName string) ([]string, error) {
	friends := []string{}
	err := s.db.SelectContext(ctx, &friends,
		s.q(`SELECT dst FROM edges WHERE src = ? AND label = ?`),
		userName, LabelFollows)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return friends, nil
}
