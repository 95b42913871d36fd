package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/chorusproject/chorus/internal/api"
	"github.com/chorusproject/chorus/internal/catalog"
	"github.com/chorusproject/chorus/internal/graph"
	"github.com/chorusproject/chorus/internal/service"
	"github.com/chorusproject/chorus/internal/status"
	"github.com/chorusproject/chorus/internal/testutil"
)

type envelope struct {
	Path    string          `json:"path"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// stubSongCatalog answers title and counter calls with canned data.
type stubSongCatalog struct {
	titles map[string]string
	counts map[string]int64
}

func (s *stubSongCatalog) TitleByID(_ context.Context, songID string) (string, error) {
	title, ok := s.titles[songID]
	if !ok {
		return "", fmt.Errorf("song %q: %w", songID, status.ErrNotFound)
	}
	return title, nil
}

func (s *stubSongCatalog) AdjustFavourites(_ context.Context, songID string, delta int64) (int64, error) {
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[songID] += delta
	return s.counts[songID], nil
}

// stubMarkerGraph accepts every marker call.
type stubMarkerGraph struct{}

func (stubMarkerGraph) CreateSongMarker(context.Context, string) error { return nil }
func (stubMarkerGraph) DeleteSongMarker(context.Context, string) error { return nil }

func newProfileServer(t *testing.T) (*httptest.Server, *graph.Store, *stubSongCatalog) {
	t.Helper()
	g := graph.NewStore(testutil.NewGraphDB(t))
	songs := &stubSongCatalog{titles: map[string]string{}}
	orch := service.NewProfileOrchestrator(g, songs, log.New(io.Discard))
	srv := httptest.NewServer(api.NewProfileRouter(orch))
	t.Cleanup(srv.Close)
	return srv, g, songs
}

func newSongServer(t *testing.T) (*httptest.Server, *catalog.Store) {
	t.Helper()
	c := catalog.NewStore(testutil.NewCatalogDB(t))
	orch := service.NewSongOrchestrator(c, stubMarkerGraph{}, log.New(io.Discard))
	srv := httptest.NewServer(api.NewSongRouter(orch))
	t.Cleanup(srv.Close)
	return srv, c
}

// do issues the request and decodes the envelope.
func do(t *testing.T, method, url, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp.StatusCode, env
}
