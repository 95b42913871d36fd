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

type songHandler struct {
	orch *service.SongOrchestrator
}

// NewSongRouter assembles the song service's router.
func NewSongRouter(orch *service.SongOrchestrator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/healthz", healthz)
	r.Handle("/metrics", promhttp.Handler())

	h := &songHandler{orch: orch}
	r.Post("/addSong", h.AddSong)
	r.Get("/getSongById/{songId}", h.GetSong)
	r.Get("/getSongTitleById/{songId}", h.GetSongTitle)
	r.Delete("/deleteSongById/{songId}", h.DeleteSong)
	r.Put("/updateSongFavouritesCount/{songId}", h.UpdateFavouritesCount)

	return r
}

type addSongRequest struct {
	SongName           string `json:"songName"`
	SongArtistFullName string `json:"songArtistFullName"`
	SongAlbum          string `json:"songAlbum"`
}

// AddSong registers a song: catalog insert plus graph marker propagation.
// POST /addSong
func (h *songHandler) AddSong(w http.ResponseWriter, r *http.Request) {
	var req addSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatus(w, r, status.New(status.MissingParameter, "invalid request body"))
		return
	}
	writeStatus(w, r, h.orch.Register(r.Context(),
		req.SongName, req.SongArtistFullName, req.SongAlbum))
}

// GetSong handles GET /getSongById/{songId}
func (h *songHandler) GetSong(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, r, h.orch.Get(r.Context(), chi.URLParam(r, "songId")))
}

// GetSongTitle handles GET /getSongTitleById/{songId}
func (h *songHandler) GetSongTitle(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, r, h.orch.Title(r.Context(), chi.URLParam(r, "songId")))
}

// DeleteSong handles DELETE /deleteSongById/{songId}
func (h *songHandler) DeleteSong(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, r, h.orch.Delete(r.Context(), chi.URLParam(r, "songId")))
}

// UpdateFavouritesCount handles PUT /updateSongFavouritesCount/{songId}?shouldDecrement=bool
func (h *songHandler) UpdateFavouritesCount(w http.ResponseWriter, r *http.Request) {
	var decrement bool
	switch r.URL.Query().Get("shouldDecrement") {
	case "true":
		decrement = true
	case "false":
		decrement = false
	default:
		writeStatus(w, r, status.New(status.MissingParameter, "shouldDecrement must be true or false"))
		return
	}
	writeStatus(w, r, h.orch.AdjustFavourites(r.Context(), chi.URLParam(r, "songId"), decrement))
}
