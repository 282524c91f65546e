package store

import (
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/migrations"
	sq "github.com/Masterminds/squirrel"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// DB wraps a *sql.DB with the pieces every repository needs: a squirrel
// statement builder using the driver's placeholder format and an error
// classifier for the driver's error codes.
type DB struct {
	*sql.DB
	driver             string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewDB wraps an open connection. It is used by the connect functions and by
// tests that bring their own *sql.DB.
func NewDB(conn *sql.DB, driver string, log *logger.Logger) (*DB, error) {
	db := &DB{
		DB:     conn,
		driver: driver,
		logger: log,
	}

	switch driver {
	case DriverPostgres:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
		db.errorClassificator = NewPostgresErrorClassifier()
	case DriverSQLite:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
		db.errorClassificator = NewSQLiteErrorClassifier()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	return db, nil
}

// Driver returns the database/sql driver name.
func (db *DB) Driver() string {
	return db.driver
}

// Migrate applies pending migrations of the backup and ledger tables.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.driver)
}

// wrapError marks retryable driver errors with [ErrTransient] and wraps the
// result into sentinel.
func (db *DB) wrapError(sentinel, err error) error {
	if db.errorClassificator.Classify(err) == Retryable {
		return fmt.Errorf("%w: %w: %w", sentinel, ErrTransient, err)
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
