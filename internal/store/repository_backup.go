package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/models"
)

// backupRepository keeps archived rows in the purge_backups table. Records are
// stored as ordered JSON objects, timestamps as Unix seconds.
type backupRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewBackupRepository constructs a [BackupRepository] on the purge_backups
// table.
func NewBackupRepository(db *DB, logger *logger.Logger) BackupRepository {
	logger.Debug().Msg("creating backup repository")
	return &backupRepository{
		db:     db,
		logger: logger,
	}
}

// SaveBackup upserts backup. Saving the same (table, record, user) twice
// replaces the stored copy and its timestamp.
func (r *backupRepository) SaveBackup(ctx context.Context, backup models.Backup) error {
	log := logger.FromContext(ctx)

	record, err := json.Marshal(backup.Record)
	if err != nil {
		log.Err(err).Str("func", "*backupRepository.SaveBackup").Str("table", backup.Table).Int64("user_id", backup.UserID).Msg("error encoding record")
		return fmt.Errorf("%w: %w", ErrEncodingSnapshot, err)
	}

	query, args, err := buildSaveBackupQuery(r.db.builder, backup, record)
	if err != nil {
		log.Err(err).Str("func", "*backupRepository.SaveBackup").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*backupRepository.SaveBackup").Str("table", backup.Table).Int64("record_id", backup.RecordID).Int64("user_id", backup.UserID).Msg("error saving backup")
		return r.db.wrapError(ErrExecutingStatement, err)
	}

	return nil
}

func (r *backupRepository) GetBackup(ctx context.Context, table string, userID int64) (models.Backup, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetBackupQuery(r.db.builder, table, userID)
	if err != nil {
		log.Err(err).Str("func", "*backupRepository.GetBackup").Msg("error building query")
		return models.Backup{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	backup, err := scanBackup(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Backup{}, fmt.Errorf("%w: %s user_id=%d", ErrBackupNotFound, table, userID)
	}
	if err != nil {
		log.Err(err).Str("func", "*backupRepository.GetBackup").Str("table", table).Int64("user_id", userID).Msg("error reading backup")
		if errors.Is(err, ErrEncodingSnapshot) {
			return models.Backup{}, err
		}
		return models.Backup{}, r.db.wrapError(ErrExecutingQuery, err)
	}

	return backup, nil
}

func (r *backupRepository) GetUserBackups(ctx context.Context, userID int64) ([]models.Backup, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetUserBackupsQuery(r.db.builder, userID)
	if err != nil {
		log.Err(err).Str("func", "*backupRepository.GetUserBackups").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*backupRepository.GetUserBackups").Int64("user_id", userID).Msg("error selecting backups")
		return nil, r.db.wrapError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	backups := make([]models.Backup, 0)
	for rows.Next() {
		backup, err := scanBackup(rows)
		if err != nil {
			log.Err(err).Str("func", "*backupRepository.GetUserBackups").Int64("user_id", userID).Msg("error scanning backup")
			return nil, err
		}
		backups = append(backups, backup)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return backups, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBackup(row rowScanner) (models.Backup, error) {
	var (
		backup     models.Backup
		capturedAt int64
		record     string
	)
	if err := row.Scan(&backup.Table, &backup.RecordID, &backup.UserID, &capturedAt, &record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Backup{}, err
		}
		return models.Backup{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err := json.Unmarshal([]byte(record), &backup.Record); err != nil {
		return models.Backup{}, fmt.Errorf("%w: %w", ErrEncodingSnapshot, err)
	}
	backup.Timestamp = time.Unix(capturedAt, 0).UTC()

	return backup, nil
}
