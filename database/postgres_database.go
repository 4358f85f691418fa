package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"
)

// PostgresDB implements DBInterface for PostgreSQL
type PostgresDB struct {
	sqlStore
}

// SetupPostgresDatabase connects to PostgreSQL and runs migrations
func SetupPostgresDatabase(connString string) (*PostgresDB, error) {
	if connString == "" {
		return nil, fmt.Errorf("postgres connection string not set")
	}
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}
	if err := runMigrations(driver, "postgres", "migrations/postgres"); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresDB{sqlStore{db: db, numbered: true}}, nil
}

// EphemeralPostgresDB is a PostgresDB backed by an embedded server that is
// destroyed on Close
type EphemeralPostgresDB struct {
	*PostgresDB
	server  *embeddedpostgres.EmbeddedPostgres
	dataDir string
}

const ephemeralPort = 5433

// SetupEphemeralPostgresDatabase starts an embedded PostgreSQL for development
func SetupEphemeralPostgresDatabase() (*EphemeralPostgresDB, error) {
	dataDir, err := os.MkdirTemp("", "portal-pg-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	server := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		Port(ephemeralPort).
		Database("portal").
		Username("portal").
		Password("portal").
		RuntimePath(filepath.Join(dataDir, "runtime")).
		DataPath(filepath.Join(dataDir, "data")))
	Logger.Info("Starting embedded PostgreSQL", "port", ephemeralPort, "dir", dataDir)
	if err := server.Start(); err != nil {
		os.RemoveAll(dataDir)
		return nil, fmt.Errorf("failed to start embedded postgres: %w", err)
	}

	connString := fmt.Sprintf("host=localhost port=%d user=portal password=portal dbname=portal sslmode=disable", ephemeralPort)
	pg, err := SetupPostgresDatabase(connString)
	if err != nil {
		server.Stop()
		os.RemoveAll(dataDir)
		return nil, err
	}
	return &EphemeralPostgresDB{PostgresDB: pg, server: server, dataDir: dataDir}, nil
}

// Close closes the connection, stops the server and removes its files
func (e *EphemeralPostgresDB) Close() error {
	closeErr := e.PostgresDB.Close()
	if err := e.server.Stop(); err != nil {
		Logger.Error("Failed to stop embedded PostgreSQL", "error", err)
	}
	os.RemoveAll(e.dataDir)
	return closeErr
}
