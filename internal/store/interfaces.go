package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-purge-users/internal/registry"
	"github.com/MKhiriev/go-purge-users/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository reads the identity table of the host database.
type UserRepository interface {
	// FindPurgeCandidates returns up to limit deleted users, lowest ids first.
	// Users holding a no-purge or restored ledger entry are not returned.
	FindPurgeCandidates(ctx context.Context, limit uint64) ([]int64, error)

	// FindUsersWithoutReferences returns the subset of userIDs that no row of
	// any of refs points at, in ascending order.
	FindUsersWithoutReferences(ctx context.Context, userIDs []int64, refs []registry.Descriptor) ([]int64, error)
}

// RecordRepository addresses single rows of host tables by their id.
type RecordRepository interface {
	GetRecord(ctx context.Context, table string, id int64) (models.Snapshot, error)
	InsertRecord(ctx context.Context, table string, record models.Snapshot) error
	DeleteRecord(ctx context.Context, table string, id int64) error
	RecordExists(ctx context.Context, table string, id int64) (bool, error)

	// FindRecordIDs lists ids of rows in table whose field equals userID.
	FindRecordIDs(ctx context.Context, table, field string, userID int64) ([]int64, error)
}

// BackupRepository stores archived copies of purged rows.
type BackupRepository interface {
	SaveBackup(ctx context.Context, backup models.Backup) error

	// GetBackup returns the most recent backup of a table taken for userID.
	GetBackup(ctx context.Context, table string, userID int64) (models.Backup, error)
	GetUserBackups(ctx context.Context, userID int64) ([]models.Backup, error)
}

// LedgerRepository keeps one entry per user and status.
type LedgerRepository interface {
	RecordStatus(ctx context.Context, userID int64, status models.Status, at time.Time) error
	GetStatuses(ctx context.Context, userID int64) ([]models.StatusEntry, error)
}

// PluginRepository tells whether a host plugin is installed.
type PluginRepository interface {
	IsInstalled(ctx context.Context, plugin string) (bool, error)
}

// SchemaRepository inspects the host schema.
type SchemaRepository interface {
	TableExists(ctx context.Context, table string) (bool, error)
	ColumnExists(ctx context.Context, table, column string) (bool, error)
}
