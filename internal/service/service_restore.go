package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/internal/store"
	"github.com/MKhiriev/go-purge-users/models"
)

type restoreOutcome int

const (
	outcomeRestored restoreOutcome = iota
	outcomeSkipped
	outcomeAlreadyPresent
)

// recordIDColumn is the primary key column of every archived row.
const recordIDColumn = "id"

func (s *purgeService) Restore(ctx context.Context, userIDs []int64) (models.RestoreReport, error) {
	return s.restore(ctx, userIDs, false)
}

func (s *purgeService) PreviewRestore(ctx context.Context, userIDs []int64) (models.RestoreReport, error) {
	return s.restore(ctx, userIDs, true)
}

func (s *purgeService) restore(ctx context.Context, userIDs []int64, dryRun bool) (models.RestoreReport, error) {
	log := logger.FromContext(ctx)

	report := models.RestoreReport{
		Restored:       make([]int64, 0, len(userIDs)),
		Skipped:        make([]int64, 0),
		AlreadyPresent: make([]int64, 0),
		Failed:         make(map[int64]error),
	}

	for _, id := range normalizeIDs(userIDs) {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome, err := s.restoreUser(ctx, id, dryRun)
		if err != nil {
			log.Err(err).Str("func", "*purgeService.restore").Int64("user_id", id).Msg("error restoring user")
			report.Failed[id] = err
			continue
		}

		switch outcome {
		case outcomeSkipped:
			log.Info().Int64("user_id", id).Msg("no backup found, user skipped")
			report.Skipped = append(report.Skipped, id)
		case outcomeAlreadyPresent:
			log.Info().Int64("user_id", id).Bool("dry_run", dryRun).Msg("user record already present")
			report.AlreadyPresent = append(report.AlreadyPresent, id)
		default:
			log.Info().Int64("user_id", id).Bool("dry_run", dryRun).Msg("user restored")
			report.Restored = append(report.Restored, id)
		}
	}

	return report, nil
}

// restoreUser re-inserts the identity record first and the archived rows of
// the user after it. Rows that already exist are left as they are, so a
// restore can be repeated.
func (s *purgeService) restoreUser(ctx context.Context, userID int64, dryRun bool) (restoreOutcome, error) {
	identity, err := s.backups.GetBackup(ctx, s.identity.Table, userID)
	if errors.Is(err, store.ErrBackupNotFound) {
		return outcomeSkipped, nil
	}
	if err != nil {
		return 0, fmt.Errorf("loading %s backup: %w", s.identity.Table, err)
	}
	if err = checkBackup(identity); err != nil {
		return 0, err
	}

	present, err := s.records.RecordExists(ctx, s.identity.Table, userID)
	if err != nil {
		return 0, fmt.Errorf("checking %s: %w", s.identity.Table, err)
	}

	outcome := outcomeRestored
	if present {
		outcome = outcomeAlreadyPresent
	}
	if dryRun {
		return outcome, nil
	}

	if !present {
		if err = s.records.InsertRecord(ctx, identity.Table, identity.Record); err != nil && !errors.Is(err, store.ErrRecordAlreadyExists) {
			return 0, fmt.Errorf("inserting %s: %w", identity.Table, err)
		}
	}

	backups, err := s.backups.GetUserBackups(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("loading archived rows: %w", err)
	}
	for _, b := range backups {
		if b.Table == s.identity.Table {
			continue
		}
		if err = checkBackup(b); err != nil {
			return 0, err
		}

		exists, err := s.records.RecordExists(ctx, b.Table, b.RecordID)
		if err != nil {
			return 0, fmt.Errorf("checking %s: %w", b.Table, err)
		}
		if exists {
			continue
		}

		if err = s.records.InsertRecord(ctx, b.Table, b.Record); err != nil && !errors.Is(err, store.ErrRecordAlreadyExists) {
			return 0, fmt.Errorf("inserting %s: %w", b.Table, err)
		}
	}

	if err = s.ledger.RecordStatus(ctx, userID, models.StatusRestored, s.clock.Now()); err != nil {
		return 0, fmt.Errorf("recording restored status: %w", err)
	}

	return outcome, nil
}

// checkBackup makes sure the archived row carries the id it was archived
// under before it is written back.
func checkBackup(b models.Backup) error {
	id, err := b.Record.Int64(recordIDColumn)
	if err != nil {
		return fmt.Errorf("%w: %s record %d: %w", ErrBackupMismatch, b.Table, b.RecordID, err)
	}
	if id != b.RecordID {
		return fmt.Errorf("%w: %s record %d holds id %d", ErrBackupMismatch, b.Table, b.RecordID, id)
	}
	return nil
}
