package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chorusproject/chorus/internal/status"
)

// ProfileService is the song service's client for the profile service,
// used to propagate song registration and deletion into the graph store.
type ProfileService struct {
	baseURL    string
	httpClient *http.Client
	log        *log.Logger
}

// NewProfileService builds a client with the given bounded per-call timeout.
func NewProfileService(baseURL string, timeout time.Duration, logger *log.Logger) *ProfileService {
	return &ProfileService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("client", "profile"),
	}
}

// CreateSongMarker registers the song id as a marker node in the graph
// store. An already-existing marker counts as success; marker creation is
// idempotent so registration can be retried.
func (c *ProfileService) CreateSongMarker(ctx context.Context, songID string) error {
	u := c.baseURL + "/addSong/" + url.PathEscape(songID)
	kind, _, err := call(ctx, c.httpClient, c.log, "profile", http.MethodPut, u)
	if err != nil {
		return err
	}
	switch kind {
	case status.OK, status.AlreadyExists:
		return nil
	default:
		return fmt.Errorf("create marker %q: %w", songID, status.ErrUnavailable)
	}
}

// DeleteSongMarker removes the marker node and its edges from the graph
// store.
func (c *ProfileService) DeleteSongMarker(ctx context.Context, songID string) error {
	u := c.baseURL + "/deleteAllSongsFromDb/" + url.PathEscape(songID)
	kind, _, err := call(ctx, c.httpClient, c.log, "profile", http.MethodPut, u)
	if err != nil {
		return err
	}
	if kind != status.OK {
		return fmt.Errorf("delete marker %q: %w", songID, status.ErrUnavailable)
	}
	return nil
}
