package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MKhiriev/go-purge-users/internal/logger"
)

// schemaRepository answers schema questions from information_schema on
// PostgreSQL and from sqlite_master on SQLite.
type schemaRepository struct {
	logger       *logger.Logger
	db           *DB
	tableQuery   string
	columnsQuery string
}

// NewSchemaRepository constructs a [SchemaRepository] using the schema
// lookups of the driver.
func NewSchemaRepository(db *DB, logger *logger.Logger) SchemaRepository {
	logger.Debug().Msg("creating schema repository")
	r := &schemaRepository{
		db:     db,
		logger: logger,
	}

	switch db.driver {
	case DriverSQLite:
		r.tableQuery, r.columnsQuery = sqliteTableExists, sqliteColumnExists
	default:
		r.tableQuery, r.columnsQuery = postgresTableExists, postgresColumnExists
	}
	return r
}

func (r *schemaRepository) TableExists(ctx context.Context, table string) (bool, error) {
	ok, err := r.exists(ctx, r.tableQuery, table)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*schemaRepository.TableExists").Str("table", table).Msg("error looking up table")
		return false, err
	}
	return ok, nil
}

func (r *schemaRepository) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	ok, err := r.exists(ctx, r.columnsQuery, table, column)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*schemaRepository.ColumnExists").Str("table", table).Str("column", column).Msg("error looking up column")
		return false, err
	}
	return ok, nil
}

func (r *schemaRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, r.db.wrapError(ErrExecutingQuery, err)
	}
	return true, nil
}
