package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chorusproject/chorus/internal/service"
	"github.com/chorusproject/chorus/internal/status"
)

type profileHandler struct {
	orch *service.ProfileOrchestrator
}

// NewProfileRouter assembles the profile service's router. The marker
// routes at the bottom are sibling-facing: the song service calls them to
// propagate registration and deletion into the graph.
func NewProfileRouter(orch *service.ProfileOrchestrator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/healthz", healthz)
	r.Handle("/metrics", promhttp.Handler())

	h := &profileHandler{orch: orch}
	r.Post("/profile", h.AddProfile)
	r.Put("/followFriend/{userName}/{friendUserName}", h.FollowFriend)
	r.Put("/unfollowFriend/{userName}/{friendUserName}", h.UnfollowFriend)
	r.Get("/getAllFriendFavouriteSongTitles/{userName}", h.FriendFavouriteTitles)
	r.Put("/likeSong/{userName}/{songId}", h.LikeSong)
	r.Put("/unlikeSong/{userName}/{songId}", h.UnlikeSong)
	r.Put("/addSong/{songId}", h.AddSongMarker)
	r.Put("/deleteAllSongsFromDb/{songId}", h.DeleteSongMarker)

	return r
}

type addProfileRequest struct {
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// AddProfile creates a profile and its favourites playlist.
// POST /profile
func (h *profileHandler) AddProfile(w http.ResponseWriter, r *http.Request) {
	var req addProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatus(w, r, status.New(status.MissingParameter, "invalid request body"))
		return
	}
	writeStatus(w, r, h.orch.CreateProfile(r.Context(), req.UserName, req.FullName, req.Password))
}

// FollowFriend handles PUT /followFriend/{userName}/{friendUserName}
func (h *profileHandler) FollowFriend(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, r, h.orch.FollowFriend(r.Context(),
		chi.URLParam(r, "userName"), chi.URLParam(r, "friendUserName")))
}

// UnfollowFriend handles PUT /unfollowFriend/{userName}/{friendUserName}
func (h *profileHandler) UnfollowFriend(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, r, h.orch.UnfollowFriend(r.Context(),
		chi.URLParam(r, "userName"), chi.URLParam(r, "friendUserName")))
}

// FriendFavouriteTitles handles GET /getAllFriendFavouriteSongTitles/{userName}
func (h *profileHandler) FriendFavouriteTitles(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, r, h.orch.FriendFavouriteTitles(r.Context(), chi.URLParam(r, "userName")))
}

// LikeSong handles PUT /likeSong/{userName}/{songId}
func (h *profileHandler) LikeSong(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, r, h.orch.LikeSong(r.Context(),
		chi.URLParam(r, "userName"), chi.URLParam(r, "songId")))
}

// UnlikeSong handles PUT /unlikeSong/{userName}/{songId}
func (h *profileHandler) UnlikeSong(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, r, h.orch.UnlikeSong(r.Context(),
		chi.URLParam(r, "userName"), chi.URLParam(r, "songId")))
}

// AddSongMarker handles PUT /addSong/{songId} (sibling-facing)
func (h *profileHandler) AddSongMarker(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, r, h.orch.AddSongMarker(r.Context(), chi.URLParam(r, "songId")))
}

// DeleteSongMarker handles PUT /deleteAllSongsFromDb/{songId} (sibling-facing)
func (h *profileHandler) DeleteSongMarker(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, r, h.orch.RemoveSongMarker(r.Context(), chi.URLParam(r, "songId")))
}
