package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/models"
)

// recordRepository reads, re-inserts and deletes single host rows. Tables are
// addressed by name, so every name is checked before it reaches a query.
type recordRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewRecordRepository constructs a [RecordRepository] for host rows.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	logger.Debug().Msg("creating record repository")
	return &recordRepository{
		db:     db,
		logger: logger,
	}
}

// GetRecord captures every column of the row with the given id.
//
// Error handling:
//   - no such row → [ErrRecordNotFound].
//   - driver error → [ErrExecutingQuery], marked [ErrTransient] when retryable.
func (r *recordRepository) GetRecord(ctx context.Context, table string, id int64) (models.Snapshot, error) {
	log := logger.FromContext(ctx)

	var (
		query string
		args  []any
		err   error
	)
	if r.db.Driver() == DriverSQLite {
		var columns []string
		if columns, err = r.tableColumns(ctx, table); err != nil {
			log.Err(err).Str("func", "*recordRepository.GetRecord").Str("table", table).Msg("error reading table columns")
			return nil, err
		}
		query, args, err = buildGetRawRecordQuery(r.db.builder, table, columns, id)
	} else {
		query, args, err = buildGetRecordQuery(r.db.builder, table, id)
	}
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.GetRecord").Str("table", table).Msg("error building query")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.GetRecord").Str("table", table).Int64("record_id", id).Msg("error selecting record")
		return nil, r.db.wrapError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		return nil, fmt.Errorf("%w: %s id=%d", ErrRecordNotFound, table, id)
	}

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if err = rows.Scan(pointers...); err != nil {
		log.Err(err).Str("func", "*recordRepository.GetRecord").Str("table", table).Int64("record_id", id).Msg("error scanning record")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	snapshot, err := models.NewSnapshot(columns, values)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return snapshot, nil
}

// tableColumns lists the columns of a SQLite table in declaration order. An
// unknown table yields no columns.
func (r *recordRepository) tableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, sqliteTableColumns, table)
	if err != nil {
		return nil, r.db.wrapError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var column string
		if err = rows.Scan(&column); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		columns = append(columns, column)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return columns, nil
}

// InsertRecord writes record back into table with its original column values.
// A primary key conflict yields [ErrRecordAlreadyExists].
func (r *recordRepository) InsertRecord(ctx context.Context, table string, record models.Snapshot) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertRecordQuery(r.db.builder, table, record)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.InsertRecord").Str("table", table).Msg("error building query")
		return err
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*recordRepository.InsertRecord").Str("table", table).Msg("error inserting record")
		if r.db.errorClassificator.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrRecordAlreadyExists, table)
		}
		return r.db.wrapError(ErrExecutingStatement, err)
	}

	return nil
}

// DeleteRecord removes the row with the given id. Deleting a missing row is
// not an error.
func (r *recordRepository) DeleteRecord(ctx context.Context, table string, id int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteRecordQuery(r.db.builder, table, id)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.DeleteRecord").Str("table", table).Msg("error building query")
		return err
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*recordRepository.DeleteRecord").Str("table", table).Int64("record_id", id).Msg("error deleting record")
		return r.db.wrapError(ErrExecutingStatement, err)
	}

	return nil
}

func (r *recordRepository) RecordExists(ctx context.Context, table string, id int64) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildRecordExistsQuery(r.db.builder, table, id)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.RecordExists").Str("table", table).Msg("error building query")
		return false, err
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.RecordExists").Str("table", table).Int64("record_id", id).Msg("error checking record")
		return false, r.db.wrapError(ErrExecutingQuery, err)
	}

	return true, nil
}

func (r *recordRepository) FindRecordIDs(ctx context.Context, table, field string, userID int64) ([]int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindRecordIDsQuery(r.db.builder, table, field, userID)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.FindRecordIDs").Str("table", table).Msg("error building query")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.FindRecordIDs").Str("table", table).Int64("user_id", userID).Msg("error selecting records")
		return nil, r.db.wrapError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	return scanIDs(rows)
}
