package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/models"
)

// ledgerRepository keeps the purge_ledger table: at most one row per user and
// status, carrying the time the status was last recorded.
type ledgerRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewLedgerRepository constructs a [LedgerRepository] on the purge_ledger
// table.
func NewLedgerRepository(db *DB, logger *logger.Logger) LedgerRepository {
	logger.Debug().Msg("creating ledger repository")
	return &ledgerRepository{
		db:     db,
		logger: logger,
	}
}

// RecordStatus inserts the (userID, status) entry or moves its timestamp to at.
func (r *ledgerRepository) RecordStatus(ctx context.Context, userID int64, status models.Status, at time.Time) error {
	log := logger.FromContext(ctx)

	if !status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownStatus, status.String())
	}

	query, args, err := buildRecordStatusQuery(r.db.builder, userID, status, at.Unix())
	if err != nil {
		log.Err(err).Str("func", "*ledgerRepository.RecordStatus").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*ledgerRepository.RecordStatus").Int64("user_id", userID).Str("status", status.String()).Msg("error recording status")
		return r.db.wrapError(ErrExecutingStatement, err)
	}

	return nil
}

func (r *ledgerRepository) GetStatuses(ctx context.Context, userID int64) ([]models.StatusEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetStatusesQuery(r.db.builder, userID)
	if err != nil {
		log.Err(err).Str("func", "*ledgerRepository.GetStatuses").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*ledgerRepository.GetStatuses").Int64("user_id", userID).Msg("error selecting statuses")
		return nil, r.db.wrapError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.StatusEntry, 0)
	for rows.Next() {
		var (
			entry     models.StatusEntry
			updatedAt int64
		)
		if err = rows.Scan(&entry.UserID, &entry.Status, &updatedAt); err != nil {
			log.Err(err).Str("func", "*ledgerRepository.GetStatuses").Int64("user_id", userID).Msg("error scanning status")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entry.Timestamp = time.Unix(updatedAt, 0).UTC()
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}
