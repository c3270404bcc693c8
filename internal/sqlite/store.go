package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"relief-router/internal/database"

	_ "modernc.org/sqlite"
)

const (
	DefaultDBFileName = "data.db"
	schemaVersion     = 1
	memoryPath        = ":memory:"
)

// Store is a SQLite-based data store implementing database.DataStore
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex

	zoneRepo     database.ZoneRepository
	roadRepo     database.RoadRepository
	shelterRepo  database.ShelterRepository
	resourceRepo database.ResourceRepository
	closureRepo  database.ClosureRepository
}

// New creates a new SQLite store at the specified path. ":memory:" opens a
// private in-memory database.
func New(dbPath string) (*Store, error) {
	if dbPath != memoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	log.Printf("Opening SQLite database at: %s", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	if dbPath != memoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	// Pragmas are per connection and an in-memory database is private to
	// its connection, so the pool is held to one.
	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	store.zoneRepo = &zoneRepository{store: store}
	store.roadRepo = &roadRepository{store: store}
	store.shelterRepo = &shelterRepository{store: store}
	store.resourceRepo = &resourceRepository{store: store}
	store.closureRepo = &closureRepository{store: store}

	return store, nil
}

func (s *Store) initSchema() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist, create everything
		return s.createSchema()
	}

	if version < schemaVersion {
		if err := s.runMigrations(version); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);
	INSERT INTO schema_version (version) VALUES (1);

	-- seq preserves load order, which decides shelter first pick
	CREATE TABLE IF NOT EXISTS zones (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		zone_id TEXT NOT NULL UNIQUE,
		zone_name TEXT NOT NULL DEFAULT '',
		population INTEGER NOT NULL CHECK (population >= 0),
		risk_level INTEGER NOT NULL,
		region TEXT NOT NULL DEFAULT ''
	);

	-- roads may reference zones without a zone record
	CREATE TABLE IF NOT EXISTS roads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_zone TEXT NOT NULL,
		to_zone TEXT NOT NULL,
		distance_km REAL NOT NULL CHECK (distance_km >= 0)
	);

	CREATE TABLE IF NOT EXISTS shelters (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		shelter_id TEXT NOT NULL UNIQUE,
		zone_id TEXT NOT NULL,
		capacity INTEGER NOT NULL CHECK (capacity >= 0),
		FOREIGN KEY (zone_id) REFERENCES zones(zone_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS resources (
		resource_type TEXT PRIMARY KEY,
		available INTEGER NOT NULL CHECK (available >= 0),
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS closures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		disaster TEXT NOT NULL,
		zone_a TEXT NOT NULL,
		zone_b TEXT NOT NULL,
		UNIQUE (disaster, zone_a, zone_b)
	);

	CREATE INDEX IF NOT EXISTS idx_shelters_zone ON shelters(zone_id);
	CREATE INDEX IF NOT EXISTS idx_closures_disaster ON closures(disaster);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("SQLite schema initialized (version %d)", schemaVersion)
	return nil
}

func (s *Store) runMigrations(fromVersion int) error {
	log.Printf("Migrating SQLite schema from version %d to %d", fromVersion, schemaVersion)
	_, err := s.db.Exec("UPDATE schema_version SET version = ?", schemaVersion)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		if s.dbPath != memoryPath {
			s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		}
		return s.db.Close()
	}
	return nil
}

// HealthCheck verifies the database connection
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Repository accessors
func (s *Store) Zones() database.ZoneRepository         { return s.zoneRepo }
func (s *Store) Roads() database.RoadRepository         { return s.roadRepo }
func (s *Store) Shelters() database.ShelterRepository   { return s.shelterRepo }
func (s *Store) Resources() database.ResourceRepository { return s.resourceRepo }
func (s *Store) Closures() database.ClosureRepository   { return s.closureRepo }
