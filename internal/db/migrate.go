package db

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var Migrations embed.FS

// Store names a migration set under migrations/.
type Store string

const (
	// GraphStore is the profile service's node/edge schema.
	GraphStore Store = "graph"
	// CatalogStore is the song service's document schema.
	CatalogStore Store = "catalog"
)

// Migrate runs all pending goose migrations for the given store from the
// embedded migration files. It must be called before the service starts
// accepting requests.
func Migrate(conn *sqlx.DB, driver string, store Store) error {
	gooseDriver, err := gooseDialect(driver)
	if err != nil {
		return err
	}

	if err := goose.SetDialect(gooseDriver); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	sub, err := fs.Sub(Migrations, "migrations/"+string(store))
	if err != nil {
		return fmt.Errorf("sub %s migrations fs: %w", store, err)
	}

	goose.SetBaseFS(sub)
	if err := goose.Up(conn.DB, "."); err != nil {
		return fmt.Errorf("run %s migrations: %w", store, err)
	}
	goose.SetBaseFS(nil)

	return nil
}

func gooseDialect(driver string) (string, error) {
	switch driver {
	case "sqlite3":
		return "sqlite3", nil
	case "mysql":
		return "mysql", nil
	case "postgres":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unknown driver for goose dialect: %q", driver)
	}
}
