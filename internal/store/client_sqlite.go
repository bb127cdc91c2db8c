package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	clientmigrations "github.com/MKhiriev/go-task-keeper/migrations/client"
)

// LocalDB wraps the SQLite connection that backs the client replica.
type LocalDB struct {
	*sql.DB
	logger *logger.Logger
}

func NewConnectSQLite(ctx context.Context, cfg config.Local, log *logger.Logger) (*LocalDB, error) {
	inMemory := cfg.DSN == ":memory:" || cfg.DSN == ""

	if !inMemory {
		if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
			log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
			return nil, fmt.Errorf("error creating database file")
		}
	}

	dsn := cfg.DSN
	if inMemory {
		dsn = ":memory:"
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB")
	}

	// the replica is accessed from the sync goroutine and the caller;
	// a single connection sidesteps SQLITE_BUSY on concurrent writes
	conn.SetMaxOpenConns(1)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}

	if err = clientmigrations.Migrate(conn); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error migrating local database")
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to local database successfully")

	return &LocalDB{DB: conn, logger: log}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		// if not found - create
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
