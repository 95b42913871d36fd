package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/chorusproject/chorus/internal/catalog"
	"github.com/chorusproject/chorus/internal/status"
	"github.com/chorusproject/chorus/internal/testutil"
)

func newStore(t *testing.T) *catalog.Store {
	t.Helper()
	return catalog.NewStore(testutil.NewCatalogDB(t))
}

func TestInsertAndFind(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	song, err := s.Insert(ctx, "Paranoid Android", "Radiohead", "OK Computer")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if song.ID == "" {
		t.Error("id not assigned")
	}
	if song.FavouritesCount != 0 {
		t.Errorf("favouritesCount = %d, want 0", song.FavouritesCount)
	}

	found, err := s.FindByID(ctx, song.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.SongName != "Paranoid Android" {
		t.Errorf("songName = %q, want %q", found.SongName, "Paranoid Android")
	}
	if found.ArtistFullName != "Radiohead" {
		t.Errorf("artist = %q, want %q", found.ArtistFullName, "Radiohead")
	}
}

func TestInsert_EmptyField(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		song   string
		artist string
		album  string
	}{
		{"empty name", "", "Radiohead", "OK Computer"},
		{"empty artist", "Airbag", "", "OK Computer"},
		{"empty album", "Airbag", "Radiohead", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Insert(ctx, tc.song, tc.artist, tc.album); !errors.Is(err, status.ErrInvalidOperation) {
				t.Errorf("err = %v, want ErrInvalidOperation", err)
			}
		})
	}
}

func TestFindByID_NotFound(t *testing.T) {
	s := newStore(t)
	if _, err := s.FindByID(context.Background(), "no-such-id"); !errors.Is(err, status.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteByID(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	song, err := s.Insert(ctx, "Airbag", "Radiohead", "OK Computer")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.DeleteByID(ctx, song.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if _, err := s.FindByID(ctx, song.ID); !errors.Is(err, status.ErrNotFound) {
		t.Errorf("find after delete: err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteByID(ctx, song.ID); !errors.Is(err, status.ErrNotFound) {
		t.Errorf("repeat delete: err = %v, want ErrNotFound", err)
	}
}

func TestAdjustFavourites(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	song, err := s.Insert(ctx, "Lucky", "Radiohead", "OK Computer")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	count, err := s.AdjustFavourites(ctx, song.ID, +1)
	if err != nil {
		t.Fatalf("AdjustFavourites +1: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	count, err = s.AdjustFavourites(ctx, song.ID, -1)
	if err != nil {
		t.Fatalf("AdjustFavourites -1: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestAdjustFavourites_RejectsNegative(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	song, err := s.Insert(ctx, "Let Down", "Radiohead", "OK Computer")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if _, err := s.AdjustFavourites(ctx, song.ID, -1); !errors.Is(err, status.ErrInvalidOperation) {
		t.Fatalf("err = %v, want ErrInvalidOperation", err)
	}

	// The rejected decrement left the row untouched.
	found, err := s.FindByID(ctx, song.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.FavouritesCount != 0 {
		t.Errorf("count = %d, want 0", found.FavouritesCount)
	}
}

func TestAdjustFavourites_NotFound(t *testing.T) {
	s := newStore(t)
	if _, err := s.AdjustFavourites(context.Background(), "no-such-id", +1); !errors.Is(err, status.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAdjustFavourites_Concurrent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	song, err := s.Insert(ctx, "Electioneering", "Radiohead", "OK Computer")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	const likers = 10
	var wg sync.WaitGroup
	for range likers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AdjustFavourites(ctx, song.ID, +1); err != nil {
				t.Errorf("concurrent AdjustFavourites: %v", err)
			}
		}()
	}
	wg.Wait()

	found, err := s.FindByID(ctx, song.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.FavouritesCount != likers {
		t.Errorf("count = %d, want %d (lost updates)", found.FavouritesCount, likers)
	}
}
