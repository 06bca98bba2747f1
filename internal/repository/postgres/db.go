// internal/repository/postgres/db.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/kiranakart/forecast/internal/config"
)

const (
	maxOpenConns = 25
	maxIdleConns = 5
	connLifetime = 5 * time.Minute

	// Forecast queries pull the whole sales history. Cap concurrent writers
	// so a bulk import cannot starve them of pool connections.
	maxConcurrentTx = 10
)

// DB wraps the sqlx pool with a write semaphore.
type DB struct {
	*sqlx.DB
	writers *semaphore.Weighted
}

var (
	dbInstance *DB
	once       sync.Once
)

// NewDB opens the shared connection pool. Subsequent calls return the same
// instance regardless of cfg.
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	var err error
	once.Do(func() {
		connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

		var db *sqlx.DB
		db, err = sqlx.Connect("postgres", connStr)
		if err != nil {
			return
		}

		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connLifetime)

		dbInstance = &DB{
			DB:      db,
			writers: semaphore.NewWeighted(maxConcurrentTx),
		}
	})

	return dbInstance, err
}

// NewDBFromURL opens a standalone pool from a DATABASE_URL style connection
// string over the pgx driver. Unlike NewDB it is not a singleton; the CLI
// owns and closes the returned pool.
func NewDBFromURL(url string) (*DB, error) {
	db, err := sqlx.Connect("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connLifetime)

	return &DB{
		DB:      db,
		writers: semaphore.NewWeighted(maxConcurrentTx),
	}, nil
}

// WithTx runs fn inside a transaction, rolling back on error.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := db.writers.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire transaction slot: %w", err)
	}
	defer db.writers.Release(1)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if err := fn(tx.Tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}
