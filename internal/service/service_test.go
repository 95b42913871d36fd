package service_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/chorusproject/chorus/internal/catalog"
	"github.com/chorusproject/chorus/internal/graph"
	"github.com/chorusproject/chorus/internal/service"
	"github.com/chorusproject/chorus/internal/status"
	"github.com/chorusproject/chorus/internal/testutil"
)

// fakeSongCatalog stands in for the song service on the far side of the
// sibling boundary. It is safe for the concurrent fan-out.
type fakeSongCatalog struct {
	mu          sync.Mutex
	titles      map[string]string
	failing     map[string]bool
	counts      map[string]int64
	adjustErr   error
	adjustCalls int
}

func newFakeSongCatalog() *fakeSongCatalog {
	return &fakeSongCatalog{
		titles:  map[string]string{},
		failing: map[string]bool{},
		counts:  map[string]int64{},
	}
}

func (f *fakeSongCatalog) TitleByID(_ context.Context, songID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[songID] {
		return "", fmt.Errorf("song service down: %w", status.ErrUnavailable)
	}
	title, ok := f.titles[songID]
	if !ok {
		return "", fmt.Errorf("song %q: %w", songID, status.ErrNotFound)
	}
	return title, nil
}

func (f *fakeSongCatalog) AdjustFavourites(_ context.Context, songID string, delta int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adjustCalls++
	if f.adjustErr != nil {
		return 0, f.adjustErr
	}
	f.counts[songID] += delta
	return f.counts[songID], nil
}

func (f *fakeSongCatalog) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.adjustCalls
}

func (f *fakeSongCatalog) count(songID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[songID]
}

// fakeMarkerGraph stands in for the profile service on the far side of the
// sibling boundary.
type fakeMarkerGraph struct {
	createErr error
	deleteErr error
	created   []string
	deleted   []string
}

func (f *fakeMarkerGraph) CreateSongMarker(_ context.Context, songID string) error {
	f.created = append(f.created, songID)
	return f.createErr
}

func (f *fakeMarkerGraph) DeleteSongMarker(_ context.Context, songID string) error {
	f.deleted = append(f.deleted, songID)
	return f.deleteErr
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newProfileOrchestrator(t *testing.T) (*service.ProfileOrchestrator, *graph.Store, *fakeSongCatalog) {
	t.Helper()
	g := graph.NewStore(testutil.NewGraphDB(t))
	songs := newFakeSongCatalog()
	return service.NewProfileOrchestrator(g, songs, testLogger()), g, songs
}

func newSongOrchestrator(t *testing.T) (*service.SongOrchestrator, *catalog.Store, *fakeMarkerGraph) {
	t.Helper()
	c := catalog.NewStore(testutil.NewCatalogDB(t))
	markers := &fakeMarkerGraph{}
	return service.NewSongOrchestrator(c, markers, testLogger()), c, markers
}

func seedProfile(t *testing.T, g *graph.Store, userName string) {
	t.Helper()
	if err := g.CreateProfile(context.Background(), userName, userName+" Test", "pw"); err != nil {
		t.Fatalf("seed profile %s: %v", userName, err)
	}
}

func seedMarker(t *testing.T, g *graph.Store, songID string) {
	t.Helper()
	if _, err := g.CreateSongMarker(context.Background(), songID); err != nil {
		t.Fatalf("seed marker %s: %v", songID, err)
	}
}

func seedFollow(t *testing.T, g *graph.Store, userName, friend string) {
	t.Helper()
	if _, err := g.ToggleFollow(context.Background(), userName, friend); err != nil {
		t.Fatalf("seed follow %s -> %s: %v", userName, friend, err)
	}
}

func seedLike(t *testing.T, g *graph.Store, userName, songID string) {
	t.Helper()
	if _, err := g.ToggleLike(context.Background(), userName, songID); err != nil {
		t.Fatalf("seed like %s -> %s: %v", userName, songID, err)
	}
}
