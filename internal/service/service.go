// Package service holds the cross-store orchestrators. Each logical
// operation is an ordered sequence of calls against the graph store and the
// song catalog; there is no transaction spanning the two, so a sequence
// that succeeds on one store and fails on the other reports a partial
// failure instead of pretending atomicity. No rollback is attempted; the
// inconsistency window is declared, counted, and left to be retried.
package service

import "context"

// SongCatalog is the catalog capability the profile orchestrator consumes
// across the sibling-service boundary.
type SongCatalog interface {
	// TitleByID resolves a song id to its title; status.ErrNotFound means
	// the catalog no longer knows the song.
	TitleByID(ctx context.Context, songID string) (string, error)
	// AdjustFavourites applies delta (+1 or -1) and returns the new count.
	AdjustFavourites(ctx context.Context, songID string, delta int64) (int64, error)
}

// MarkerGraph is the graph capability the song orchestrator consumes across
// the sibling-service boundary.
type MarkerGraph interface {
	CreateSongMarker(ctx context.Context, songID string) error
	DeleteSongMarker(ctx context.Context, songID string) error
}

const msgMissingParameter = "missing body parameter"
