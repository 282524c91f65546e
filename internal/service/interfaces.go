package service

import (
	"context"

	"github.com/MKhiriev/go-purge-users/internal/registry"
	"github.com/MKhiriev/go-purge-users/models"
)

// Eliminator narrows a candidate set down to the users without activity.
type Eliminator interface {
	// Narrow returns the candidates that have no row under any CHECK
	// descriptor of groups. groups must already be resolved against the
	// plugin registry.
	Narrow(ctx context.Context, candidates []int64, groups []registry.Group) (models.Elimination, error)
}

// PurgeService drives purge and restore runs.
type PurgeService interface {
	// FetchCandidates returns up to limit deleted, undecided users.
	FetchCandidates(ctx context.Context, limit uint64) ([]int64, error)

	// Decide splits candidates into purgeable and excluded users and records
	// a no-purge entry for every excluded one.
	Decide(ctx context.Context, candidates []int64) (models.Decision, error)

	// Purge archives and deletes every user in userIDs. Per-user failures are
	// reported in [models.PurgeReport.Failed].
	Purge(ctx context.Context, userIDs []int64) (models.PurgeReport, error)

	// RunBatch is FetchCandidates, Decide and Purge in one go.
	RunBatch(ctx context.Context, limit uint64) (models.PurgeReport, error)

	// Preview fetches candidates and narrows them without writing anything.
	Preview(ctx context.Context, limit uint64) (models.Decision, error)

	// Restore re-inserts archived users.
	Restore(ctx context.Context, userIDs []int64) (models.RestoreReport, error)

	// PreviewRestore reports what Restore would do without writing anything.
	PreviewRestore(ctx context.Context, userIDs []int64) (models.RestoreReport, error)

	// Statuses returns the ledger entries of every user in userIDs, oldest
	// first. Users without entries map to an empty slice.
	Statuses(ctx context.Context, userIDs []int64) (map[int64][]models.StatusEntry, error)

	// Validate checks the registry and, when withSchema is set, the tables
	// and columns it references.
	Validate(ctx context.Context, withSchema bool) error
}
