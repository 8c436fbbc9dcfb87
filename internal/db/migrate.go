package db

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/edvin/botfarm/migrations"
)

// RunMigrations opens a connection to the database and applies all pending
// schema migrations from the embedded migration set.
func RunMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Core)
	defer goose.SetBaseFS(nil)

	if err := goose.Up(db, "core"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
