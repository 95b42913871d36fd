package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/chorusproject/chorus/internal/graph"
	"github.com/chorusproject/chorus/internal/metrics"
	"github.com/chorusproject/chorus/internal/status"
)

// fanoutLimit caps concurrent per-friend resolution during the
// friend-favourites aggregation.
const fanoutLimit = 8

// ProfileOrchestrator sequences operations that start at the graph store.
// The graph is local; the song catalog is reached through the sibling
// service.
type ProfileOrchestrator struct {
	graph *graph.Store
	songs SongCatalog
	log   *log.Logger
}

// NewProfileOrchestrator wires the orchestrator to its two stores.
func NewProfileOrchestrator(g *graph.Store, songs SongCatalog, logger *log.Logger) *ProfileOrchestrator {
	return &ProfileOrchestrator{graph: g, songs: songs, log: logger.With("component", "profile-orchestrator")}
}

// CreateProfile creates a profile and its playlist as one unit.
func (o *ProfileOrchestrator) CreateProfile(ctx context.Context, userName, fullName, password string) status.Status {
	if userName == "" || fullName == "" || password == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}
	if err := o.graph.CreateProfile(ctx, userName, fullName, password); err != nil {
		if errors.Is(err, status.ErrAlreadyExists) {
			return status.New(status.AlreadyExists, fmt.Sprintf("profile %q already exists", userName))
		}
		o.log.Error("create profile failed", "userName", userName, "err", err)
		return status.New(status.Unavailable, "graph store unavailable")
	}
	return status.Ok(fmt.Sprintf("profile %q created", userName))
}

// FollowFriend creates the follows edge after checking that both profiles
// exist and the user is not following themselves.
func (o *ProfileOrchestrator) FollowFriend(ctx context.Context, userName, friendUserName string) status.Status {
	if userName == "" || friendUserName == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}
	if st, ok := o.bothProfilesExist(ctx, userName, friendUserName); !ok {
		return st
	}
	if userName == friendUserName {
		return status.New(status.Conflict, "cannot follow yourself")
	}

	created, err := o.graph.ToggleFollow(ctx, userName, friendUserName)
	if err != nil {
		o.log.Error("follow failed", "userName", userName, "friend", friendUserName, "err", err)
		return status.New(status.Unavailable, "graph store unavailable")
	}
	if !created {
		return status.New(status.AlreadyExists, fmt.Sprintf("already following %q", friendUserName))
	}
	return status.Ok(fmt.Sprintf("now following %q", friendUserName))
}

// UnfollowFriend removes the follows edge if present.
func (o *ProfileOrchestrator) UnfollowFriend(ctx context.Context, userName, friendUserName string) status.Status {
	if userName == "" || friendUserName == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}
	if st, ok := o.bothProfilesExist(ctx, userName, friendUserName); !ok {
		return st
	}

	removed, err := o.graph.ToggleUnfollow(ctx, userName, friendUserName)
	if err != nil {
		o.log.Error("unfollow failed", "userName", userName, "friend", friendUserName, "err", err)
		return status.New(status.Unavailable, "graph store unavailable")
	}
	if !removed {
		return status.New(status.Conflict, fmt.Sprintf("not following %q", friendUserName))
	}
	return status.Ok(fmt.Sprintf("unfollowed %q", friendUserName))
}

// LikeSong adds the song to the user's favourites, then syncs the catalog
// counter. An already-liked song short-circuits before any catalog call. If
// the edge is created but the counter sync fails, the edge stays, with no
// rollback, and the outcome is a partial failure the caller must see.
func (o *ProfileOrchestrator) LikeSong(ctx context.Context, userName, songID string) status.Status {
	if userName == "" || songID == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}
	if st, ok := o.songAndUserExist(ctx, userName, songID); !ok {
		return st
	}

	created, err := o.graph.ToggleLike(ctx, userName, songID)
	if err != nil {
		o.log.Error("like failed", "userName", userName, "songId", songID, "err", err)
		return status.New(status.Unavailable, "graph store unavailable")
	}
	if !created {
		return status.New(status.AlreadyExists, "song already liked")
	}

	count, err := o.songs.AdjustFavourites(ctx, songID, +1)
	if err != nil {
		metrics.PartialFailuresTotal.WithLabelValues("like_song").Inc()
		o.log.Warn("like recorded but favourites sync failed", "songId", songID, "err", err)
		return status.New(status.PartialFailure, "song liked but favourites count not updated")
	}
	return status.OkData("song liked", map[string]int64{"favouritesCount": count})
}

// UnlikeSong removes the song from the user's favourites, then syncs the
// catalog counter down. A song that was never liked short-circuits before
// the decrement, which is what keeps the counter from being driven below
// zero by repeated unlikes.
func (o *ProfileOrchestrator) UnlikeSong(ctx context.Context, userName, songID string) status.Status {
	if userName == "" || songID == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}
	if st, ok := o.songAndUserExist(ctx, userName, songID); !ok {
		return st
	}

	removed, err := o.graph.ToggleUnlike(ctx, userName, songID)
	if err != nil {
		o.log.Error("unlike failed", "userName", userName, "songId", songID, "err", err)
		return status.New(status.Unavailable, "graph store unavailable")
	}
	if !removed {
		return status.New(status.Conflict, "song not in user's favourites")
	}

	count, err := o.songs.AdjustFavourites(ctx, songID, -1)
	if err != nil {
		metrics.PartialFailuresTotal.WithLabelValues("unlike_song").Inc()
		o.log.Warn("unlike recorded but favourites sync failed", "songId", songID, "err", err)
		return status.New(status.PartialFailure, "song unliked but favourites count not updated")
	}
	return status.OkData("song unliked", map[string]int64{"favouritesCount": count})
}

// FriendFavouriteTitles resolves every friend's liked songs to titles via
// the song service. A song the catalog no longer knows is dropped from that
// friend's list; any other catalog failure voids the whole aggregation,
// since a partial mapping would be indistinguishable from a complete one.
func (o *ProfileOrchestrator) FriendFavouriteTitles(ctx context.Context, userName string) status.Status {
	if userName == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}
	exists, err := o.graph.ProfileExists(ctx, userName)
	if err != nil {
		return status.New(status.Unavailable, "graph store unavailable")
	}
	if !exists {
		return status.New(status.NotFound, fmt.Sprintf("user %q non-existent", userName))
	}

	friends, err := o.graph.FriendsOf(ctx, userName)
	if err != nil {
		return status.New(status.Unavailable, "graph store unavailable")
	}

	timer := prometheus.NewTimer(metrics.FanoutDuration)
	defer timer.ObserveDuration()

	// Friends resolve concurrently; the shared context cancels the rest of
	// the fan-out as soon as one lookup hits a hard failure.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanoutLimit)
	titlesByFriend := make([][]string, len(friends))

	for i, friend := range friends {
		g.Go(func() error {
			songIDs, err := o.graph.LikedSongIDs(gctx, friend)
			if err != nil {
				return err
			}
			titles := make([]string, 0, len(songIDs))
			for _, songID := range songIDs {
				title, err := o.songs.TitleByID(gctx, songID)
				if errors.Is(err, status.ErrNotFound) {
					// Deleted from the catalog while the edge lingered.
					continue
				}
				if err != nil {
					return err
				}
				titles = append(titles, title)
			}
			titlesByFriend[i] = titles
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		o.log.Warn("friend favourites fan-out aborted", "userName", userName, "err", err)
		return status.New(status.Unavailable, "song catalog unavailable")
	}

	favourites := make(map[string][]string, len(friends))
	for i, friend := range friends {
		favourites[friend] = titlesByFriend[i]
	}
	return status.OkData("", favourites)
}

// AddSongMarker registers a song id in the graph. Called by the song
// service when a song is registered in the catalog. Idempotent: an existing
// marker reports a distinct outcome the caller also counts as success.
func (o *ProfileOrchestrator) AddSongMarker(ctx context.Context, songID string) status.Status {
	if songID == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}
	created, err := o.graph.CreateSongMarker(ctx, songID)
	if err != nil {
		o.log.Error("create song marker failed", "songId", songID, "err", err)
		return status.New(status.Unavailable, "graph store unavailable")
	}
	if !created {
		return status.New(status.AlreadyExists, "song marker already exists")
	}
	return status.Ok("song marker created")
}

// RemoveSongMarker deletes the marker node and every edge touching it.
// Called by the song service after a catalog delete.
func (o *ProfileOrchestrator) RemoveSongMarker(ctx context.Context, songID string) status.Status {
	if songID == "" {
		return status.New(status.MissingParameter, msgMissingParameter)
	}
	if err := o.graph.DeleteSongMarker(ctx, songID); err != nil {
		o.log.Error("delete song marker failed", "songId", songID, "err", err)
		return status.New(status.Unavailable, "graph store unavailable")
	}
	return status.Ok("song marker deleted")
}

func (o *ProfileOrchestrator) bothProfilesExist(ctx context.Context, userName, friendUserName string) (status.Status, bool) {
	for _, name := range []string{userName, friendUserName} {
		exists, err := o.graph.ProfileExists(ctx, name)
		if err != nil {
			return status.New(status.Unavailable, "graph store unavailable"), false
		}
		if !exists {
			return status.New(status.NotFound, "one or more users non-existent"), false
		}
	}
	return status.Status{}, true
}

func (o *ProfileOrchestrator) songAndUserExist(ctx context.Context, userName, songID string) (status.Status, bool) {
	songExists, err := o.graph.SongMarkerExists(ctx, songID)
	if err != nil {
		return status.New(status.Unavailable, "graph store unavailable"), false
	}
	userExists, err := o.graph.ProfileExists(ctx, userName)
	if err != nil {
		return status.New(status.Unavailable, "graph store unavailable"), false
	}
	if !songExists || !userExists {
		return status.New(status.NotFound, "song or user non-existent"), false
	}
	return status.Status{}, true
}
