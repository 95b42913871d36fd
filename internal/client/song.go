package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chorusproject/chorus/internal/status"
)

// SongService is the profile service's client for the song service: title
// lookups during the friend-favourites fan-out and favourites-count sync
// after a fresh like or unlike.
type SongService struct {
	baseURL    string
	httpClient *http.Client
	log        *log.Logger
}

// NewSongService builds a client with the given bounded per-call timeout.
func NewSongService(baseURL string, timeout time.Duration, logger *log.Logger) *SongService {
	return &SongService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("client", "song"),
	}
}

// TitleByID resolves a song id to its title. Returns status.ErrNotFound
// when the catalog no longer has the song; the caller treats that as
// tolerable skew, not a failure.
func (c *SongService) TitleByID(ctx context.Context, songID string) (string, error) {
	u := c.baseURL + "/getSongTitleById/" + url.PathEscape(songID)
	kind, env, err := call(ctx, c.httpClient, c.log, "song", http.MethodGet, u)
	if err != nil {
		return "", err
	}
	switch kind {
	case status.OK:
		var title string
		if err := json.Unmarshal(env.Data, &title); err != nil {
			return "", fmt.Errorf("decode title: %w", status.ErrUnavailable)
		}
		return title, nil
	case status.NotFound:
		return "", fmt.Errorf("song %q: %w", songID, status.ErrNotFound)
	default:
		return "", fmt.Errorf("title lookup %q: %w", songID, status.ErrUnavailable)
	}
}

// AdjustFavourites asks the song service to apply delta (+1 or -1) to a
// song's favourites count and returns the new count.
func (c *SongService) AdjustFavourites(ctx context.Context, songID string, delta int64) (int64, error) {
	u := fmt.Sprintf("%s/updateSongFavouritesCount/%s?shouldDecrement=%t",
		c.baseURL, url.PathEscape(songID), delta < 0)
	kind, env, err := call(ctx, c.httpClient, c.log, "song", http.MethodPut, u)
	if err != nil {
		return 0, err
	}
	switch kind {
	case status.OK:
		var count int64
		if err := json.Unmarshal(env.Data, &count); err != nil {
			return 0, fmt.Errorf("decode favourites count: %w", status.ErrUnavailable)
		}
		return count, nil
	case status.NotFound:
		return 0, fmt.Errorf("song %q: %w", songID, status.ErrNotFound)
	case status.Conflict:
		return 0, fmt.Errorf("favourites adjust %q: %w", songID, status.ErrInvalidOperation)
	default:
		return 0, fmt.Errorf("favourites adjust %q: %w", songID, status.ErrUnavailable)
	}
}
