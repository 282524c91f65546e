package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-purge-users/internal/config"
	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/internal/registry"
)

// userRepository is the SQL implementation of [UserRepository]. The identity
// table and its soft-delete column come from [config.Identity].
type userRepository struct {
	logger   *logger.Logger
	db       *DB
	identity config.Identity
}

// NewUserRepository constructs a [UserRepository] reading identity rows from
// the table named in identity.
func NewUserRepository(db *DB, identity config.Identity, logger *logger.Logger) UserRepository {
	logger.Debug().Str("table", identity.Table).Msg("creating user repository")
	return &userRepository{
		db:       db,
		identity: identity,
		logger:   logger,
	}
}

func (r *userRepository) FindPurgeCandidates(ctx context.Context, limit uint64) ([]int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindPurgeCandidatesQuery(r.db.builder, r.identity.Table, r.identity.DeletedColumn, limit)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindPurgeCandidates").Msg("error building query")
		return nil, err
	}

	ids, err := r.queryIDs(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindPurgeCandidates").Uint64("limit", limit).Msg("error selecting candidates")
		return nil, err
	}

	return ids, nil
}

func (r *userRepository) FindUsersWithoutReferences(ctx context.Context, userIDs []int64, refs []registry.Descriptor) ([]int64, error) {
	log := logger.FromContext(ctx)

	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := buildFindUsersWithoutReferencesQuery(r.db.builder, r.identity.Table, userIDs, refs)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUsersWithoutReferences").Msg("error building query")
		return nil, err
	}

	ids, err := r.queryIDs(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUsersWithoutReferences").Int("candidates", len(userIDs)).Int("references", len(refs)).Msg("error narrowing candidates")
		return nil, err
	}

	return ids, nil
}

func (r *userRepository) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.db.wrapError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return ids, nil
}
