// Package migration applies the embedded schema migrations for whichever
// driver the connection uses.
package migration

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"

	db "github.com/vfg2006/sales-analytics-api/infrastructure/database"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Run applies all pending migrations. The SQL differs per driver (serial
// columns, timestamp defaults), so each driver ships its own directory.
func Run(conn *db.Connection) error {
	var driver database.Driver
	var err error

	switch conn.Driver() {
	case db.DriverPostgres:
		driver, err = migratepg.WithInstance(conn.DB, &migratepg.Config{})
	case db.DriverSQLite:
		driver, err = migratesqlite.WithInstance(conn.DB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("no migrations for driver %q", conn.Driver())
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+conn.Driver())
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, conn.Driver(), driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"driver":  conn.Driver(),
		"version": version,
		"dirty":   dirty,
	}).Info("database migrations applied")

	return nil
}
