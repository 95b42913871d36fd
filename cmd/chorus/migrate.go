package main

import (
	"github.com/spf13/cobra"

	"github.com/chorusproject/chorus/internal/config"
	"github.com/chorusproject/chorus/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending migrations for both store databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger("migrate")

			graphConn, err := db.New(cfg.GraphDB.Driver, cfg.GraphDB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = graphConn.Close() }()
			if err := db.Migrate(graphConn, cfg.GraphDB.Driver, db.GraphStore); err != nil {
				return err
			}
			logger.Info("graph store migrated", "dsn", cfg.GraphDB.DSN)

			catalogConn, err := db.New(cfg.CatalogDB.Driver, cfg.CatalogDB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = catalogConn.Close() }()
			if err := db.Migrate(catalogConn, cfg.CatalogDB.Driver, db.CatalogStore); err != nil {
				return err
			}
			logger.Info("catalog store migrated", "dsn", cfg.CatalogDB.DSN)

			return nil
		},
	}
}
