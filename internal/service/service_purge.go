package service

import (
	"context"
	"fmt"

	"github.com/juju/clock"

	"github.com/MKhiriev/go-purge-users/internal/config"
	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/internal/registry"
	"github.com/MKhiriev/go-purge-users/internal/store"
	"github.com/MKhiriev/go-purge-users/models"
)

// purgeService is the purge/restore orchestrator. Each user is processed on
// its own: a failure is recorded in the report and the batch moves on.
type purgeService struct {
	users   store.UserRepository
	records store.RecordRepository
	backups store.BackupRepository
	ledger  store.LedgerRepository
	plugins store.PluginRepository
	schema  store.SchemaRepository

	eliminator Eliminator
	registry   registry.Registry
	identity   config.Identity
	clock      clock.Clock

	logger *logger.Logger
}

// NewPurgeService builds the purge and restore orchestrator on storages.
// identity names the table whose rows are the users; reg lists where their
// activity and auxiliary rows live.
func NewPurgeService(storages *store.Storages, eliminator Eliminator, reg registry.Registry, identity config.Identity, clk clock.Clock, logger *logger.Logger) PurgeService {
	return &purgeService{
		users:      storages.UserRepository,
		records:    storages.RecordRepository,
		backups:    storages.BackupRepository,
		ledger:     storages.LedgerRepository,
		plugins:    storages.PluginRepository,
		schema:     storages.SchemaRepository,
		eliminator: eliminator,
		registry:   reg,
		identity:   identity,
		clock:      clk,
		logger:     logger,
	}
}

func (s *purgeService) FetchCandidates(ctx context.Context, limit uint64) ([]int64, error) {
	ids, err := s.users.FindPurgeCandidates(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchingCandidates, err)
	}
	return ids, nil
}

func (s *purgeService) Decide(ctx context.Context, candidates []int64) (models.Decision, error) {
	groups, err := s.resolve(ctx)
	if err != nil {
		return models.Decision{}, err
	}
	return s.decide(ctx, candidates, groups)
}

func (s *purgeService) Purge(ctx context.Context, userIDs []int64) (models.PurgeReport, error) {
	groups, err := s.resolve(ctx)
	if err != nil {
		return models.PurgeReport{}, err
	}
	return s.purge(ctx, userIDs, groups)
}

func (s *purgeService) RunBatch(ctx context.Context, limit uint64) (models.PurgeReport, error) {
	log := logger.FromContext(ctx)

	candidates, err := s.FetchCandidates(ctx, limit)
	if err != nil {
		return models.PurgeReport{}, err
	}
	if len(candidates) == 0 {
		log.Info().Msg("no purge candidates")
		return models.PurgeReport{}, nil
	}

	groups, err := s.resolve(ctx)
	if err != nil {
		return models.PurgeReport{}, err
	}

	decision, err := s.decide(ctx, candidates, groups)
	if err != nil {
		return models.PurgeReport{Candidates: candidates}, err
	}

	report, err := s.purge(ctx, decision.Purgeable, groups)
	report.Candidates = candidates
	report.Excluded = decision.Excluded
	report.BlockedBy = decision.BlockedBy
	for id, failure := range decision.Failed {
		report.Failed[id] = failure
	}

	log.Info().
		Int("candidates", len(report.Candidates)).
		Int("purged", len(report.Purged)).
		Int("excluded", len(report.Excluded)).
		Int("failed", len(report.Failed)).
		Msg("purge batch finished")

	return report, err
}

func (s *purgeService) Preview(ctx context.Context, limit uint64) (models.Decision, error) {
	candidates, err := s.FetchCandidates(ctx, limit)
	if err != nil {
		return models.Decision{}, err
	}
	if len(candidates) == 0 {
		return models.Decision{}, nil
	}

	groups, err := s.resolve(ctx)
	if err != nil {
		return models.Decision{}, err
	}

	elimination, err := s.eliminator.Narrow(ctx, candidates, groups)
	if err != nil {
		return models.Decision{}, err
	}

	return models.Decision{
		Purgeable: elimination.Remaining,
		Excluded:  excluded(candidates, elimination),
		BlockedBy: elimination.BlockedBy,
	}, nil
}

func (s *purgeService) resolve(ctx context.Context) ([]registry.Group, error) {
	groups, err := registry.Resolve(ctx, s.registry, s.plugins)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*purgeService.resolve").Msg("error resolving registry")
		return nil, fmt.Errorf("%w: %w", ErrResolvingRegistry, err)
	}
	return groups, nil
}

func (s *purgeService) decide(ctx context.Context, candidates []int64, groups []registry.Group) (models.Decision, error) {
	log := logger.FromContext(ctx)

	elimination, err := s.eliminator.Narrow(ctx, candidates, groups)
	if err != nil {
		return models.Decision{}, err
	}

	decision := models.Decision{
		Purgeable: elimination.Remaining,
		Excluded:  excluded(candidates, elimination),
		BlockedBy: elimination.BlockedBy,
		Failed:    make(map[int64]error),
	}

	for _, id := range decision.Excluded {
		if err = ctx.Err(); err != nil {
			return decision, err
		}

		if err = s.ledger.RecordStatus(ctx, id, models.StatusNoPurge, s.clock.Now()); err != nil {
			log.Err(err).Str("func", "*purgeService.decide").Int64("user_id", id).Msg("error recording no-purge status")
			decision.Failed[id] = err
			continue
		}
		log.Info().Int64("user_id", id).Str("blocked_by", decision.BlockedBy[id]).Msg("user has content, excluded from purge")
	}

	return decision, nil
}

func (s *purgeService) purge(ctx context.Context, userIDs []int64, groups []registry.Group) (models.PurgeReport, error) {
	log := logger.FromContext(ctx)

	report := models.PurgeReport{
		Purged: make([]int64, 0, len(userIDs)),
		Failed: make(map[int64]error),
	}

	var archives []registry.Descriptor
	for _, g := range groups {
		archives = append(archives, g.Archives()...)
	}

	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := s.purgeUser(ctx, id, archives); err != nil {
			log.Err(err).Str("func", "*purgeService.purge").Int64("user_id", id).Msg("error purging user")
			report.Failed[id] = err
			continue
		}

		log.Info().Int64("user_id", id).Msg("user purged")
		report.Purged = append(report.Purged, id)
	}

	return report, nil
}

// purgeUser archives every row before anything is deleted and writes the
// ledger entry between the two, so an interrupted purge leaves the data in the
// backup table.
func (s *purgeService) purgeUser(ctx context.Context, userID int64, archives []registry.Descriptor) error {
	now := s.clock.Now()

	identity, err := s.records.GetRecord(ctx, s.identity.Table, userID)
	if err != nil {
		return fmt.Errorf("snapshotting %s: %w", s.identity.Table, err)
	}

	err = s.backups.SaveBackup(ctx, models.Backup{
		Table:     s.identity.Table,
		RecordID:  userID,
		UserID:    userID,
		Timestamp: now,
		Record:    identity,
	})
	if err != nil {
		return fmt.Errorf("archiving %s: %w", s.identity.Table, err)
	}

	type row struct {
		table string
		id    int64
	}
	var archived []row

	for _, d := range archives {
		ids, err := s.records.FindRecordIDs(ctx, d.Table, d.Field, userID)
		if err != nil {
			return fmt.Errorf("listing %s: %w", d.Table, err)
		}

		for _, recordID := range ids {
			record, err := s.records.GetRecord(ctx, d.Table, recordID)
			if err != nil {
				return fmt.Errorf("snapshotting %s: %w", d.Table, err)
			}

			err = s.backups.SaveBackup(ctx, models.Backup{
				Table:     d.Table,
				RecordID:  recordID,
				UserID:    userID,
				Timestamp: now,
				Record:    record,
			})
			if err != nil {
				return fmt.Errorf("archiving %s: %w", d.Table, err)
			}
			archived = append(archived, row{table: d.Table, id: recordID})
		}
	}

	if err = s.ledger.RecordStatus(ctx, userID, models.StatusDeleted, now); err != nil {
		return fmt.Errorf("recording deleted status: %w", err)
	}

	for _, r := range archived {
		if err = s.records.DeleteRecord(ctx, r.table, r.id); err != nil {
			return fmt.Errorf("deleting %s: %w", r.table, err)
		}
	}

	if err = s.records.DeleteRecord(ctx, s.identity.Table, userID); err != nil {
		return fmt.Errorf("deleting %s: %w", s.identity.Table, err)
	}

	return nil
}

// excluded returns the candidates the elimination removed, in candidate order.
func excluded(candidates []int64, elimination models.Elimination) []int64 {
	out := make([]int64, 0, len(elimination.BlockedBy))
	for _, id := range normalizeIDs(candidates) {
		if _, blocked := elimination.BlockedBy[id]; blocked {
			out = append(out, id)
		}
	}
	return out
}
