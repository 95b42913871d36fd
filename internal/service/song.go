package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/chorusproject/chorus/internal/catalog"
	"github.com/chorusproject/chorus/internal/metrics"
	"github.com/chorusproject/chorus/internal/status"
)

// SongOrchestrator sequences operations that start at the song catalog. The
// catalog is local; the graph store is reached through the sibling service.
type SongOrchestrator struct {
	catalog *catalog.Store
	graph   MarkerGraph
	log     *log.Logger
}

// NewSongOrchestrator wires the orchestrator to its two stores.
func NewSongOrchestrator(c *catalog.Store, g MarkerGraph, logger *log.Logger) *SongOrchestrator {
	return &SongOrchestrator{catalog: c, graph: g, log: logger.With("component", "song-orchestrator")}
}

// Register stores the song document, then creates its graph marker. The
// catalog write is authoritative: if the marker call fails the document
// stays, the outcome is a partial failure, and a retried registration will
// converge because marker creation is idempotent.
func (o *SongOrchestrator) Register(ctx context.Context, songName, artistFullName, album string) status.Status {
	if songName == "" || artistFullName == "" || album == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}

	song, err := o.catalog.Insert(ctx, songName, artistFullName, album)
	if err != nil {
		o.log.Error("register failed", "songName", songName, "err", err)
		return status.New(status.Unavailable, "song catalog unavailable")
	}

	if err := o.graph.CreateSongMarker(ctx, song.ID); err != nil {
		metrics.PartialFailuresTotal.WithLabelValues("register_song").Inc()
		o.log.Warn("song stored but marker not created", "songId", song.ID, "err", err)
		return status.New(status.PartialFailure,
			fmt.Sprintf("song %q stored but graph marker not created; retry registration", song.ID))
	}
	return status.OkData("song registered", song)
}

// Get returns the full song document.
func (o *SongOrchestrator) Get(ctx context.Context, songID string) status.Status {
	if songID == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}
	song, err := o.catalog.FindByID(ctx, songID)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return status.New(status.NotFound, "song not found")
		}
		return status.New(status.Unavailable, "song catalog unavailable")
	}
	return status.OkData("", song)
}

// Title returns just the song's title; the fan-out on the profile side
// calls this for every liked song id.
func (o *SongOrchestrator) Title(ctx context.Context, songID string) status.Status {
	if songID == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}
	song, err := o.catalog.FindByID(ctx, songID)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return status.New(status.NotFound, "song not found")
		}
		return status.New(status.Unavailable, "song catalog unavailable")
	}
	return status.OkData("", song.SongName)
}

// Delete removes the song document, then its graph marker and edges. A
// missing document stops the sequence with not-found before anything is
// touched. A marker delete failure leaves an orphaned marker behind and is
// reported as a partial failure; re-running the delete will not resurrect
// the document, and the marker delete is idempotent.
func (o *SongOrchestrator) Delete(ctx context.Context, songID string) status.Status {
	if songID == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}

	if err := o.catalog.DeleteByID(ctx, songID); err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return status.New(status.NotFound, "song not found")
		}
		o.log.Error("delete failed", "songId", songID, "err", err)
		return status.New(status.Unavailable, "song catalog unavailable")
	}

	if err := o.graph.DeleteSongMarker(ctx, songID); err != nil {
		metrics.PartialFailuresTotal.WithLabelValues("delete_song").Inc()
		o.log.Warn("song deleted but marker remains", "songId", songID, "err", err)
		return status.New(status.PartialFailure,
			fmt.Sprintf("song %q deleted but graph marker remains; retry deletion", songID))
	}
	return status.Ok("song deleted")
}

// AdjustFavourites applies a single increment or decrement to the song's
// favourites counter.
func (o *SongOrchestrator) AdjustFavourites(ctx context.Context, songID string, decrement bool) status.Status {
	if songID == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}
	delta := int64(1)
	if decrement {
		delta = -1
	}

	count, err := o.catalog.AdjustFavourites(ctx, songID, delta)
	if err != nil {
		switch {
		case errors.Is(err, status.ErrNotFound):
			return status.New(status.NotFound, "song not found")
		case errors.Is(err, status.ErrInvalidOperation):
			return status.New(status.Conflict, "favourites count cannot go below zero")
		default:
			o.log.Error("adjust favourites failed", "songId", songID, "err", err)
			return status.New(status.Unavailable, "song catalog unavailable")
		}
	}
	return status.OkData("favourites count updated", count)
}
