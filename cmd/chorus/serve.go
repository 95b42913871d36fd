package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/chorusproject/chorus/internal/api"
	"github.com/chorusproject/chorus/internal/catalog"
	"github.com/chorusproject/chorus/internal/client"
	"github.com/chorusproject/chorus/internal/config"
	"github.com/chorusproject/chorus/internal/db"
	"github.com/chorusproject/chorus/internal/graph"
	"github.com/chorusproject/chorus/internal/service"
)

func newServeProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-profile",
		Short: "Start the profile service (social graph store)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger("profile")

			conn, err := db.New(cfg.GraphDB.Driver, cfg.GraphDB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if err := db.Migrate(conn, cfg.GraphDB.Driver, db.GraphStore); err != nil {
				return err
			}

			graphStore := graph.NewStore(conn)
			songs := client.NewSongService(cfg.SongBaseURL, cfg.PeerTimeout, logger)
			orch := service.NewProfileOrchestrator(graphStore, songs, logger)
			router := api.NewProfileRouter(orch)

			logger.Info("listening", "addr", cfg.ProfileHTTP.Addr, "song_service", cfg.SongBaseURL)
			return http.ListenAndServe(cfg.ProfileHTTP.Addr, router)
		},
	}
}

func newServeSongCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-song",
		Short: "Start the song service (catalog store)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger("song")

			conn, err := db.New(cfg.CatalogDB.Driver, cfg.CatalogDB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if err := db.Migrate(conn, cfg.CatalogDB.Driver, db.CatalogStore); err != nil {
				return err
			}

			catalogStore := catalog.NewStore(conn)
			profiles := client.NewProfileService(cfg.ProfileBaseURL, cfg.PeerTimeout, logger)
			orch := service.NewSongOrchestrator(catalogStore, profiles, logger)
			router := api.NewSongRouter(orch)

			logger.Info("listening", "addr", cfg.SongHTTP.Addr, "profile_service", cfg.ProfileBaseURL)
			return http.ListenAndServe(cfg.SongHTTP.Addr, router)
		},
	}
}
