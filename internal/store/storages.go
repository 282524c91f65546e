package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-purge-users/internal/config"
	"github.com/MKhiriev/go-purge-users/internal/logger"
)

// Storages bundles the repositories a purge run needs, all sharing one
// connection.
type Storages struct {
	DB *DB

	UserRepository   UserRepository
	RecordRepository RecordRepository
	BackupRepository BackupRepository
	LedgerRepository LedgerRepository
	PluginRepository PluginRepository
	SchemaRepository SchemaRepository
}

// NewStorages connects to the configured database, applies the migrations of
// the backup and ledger tables, and builds the repositories.
func NewStorages(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*Storages, error) {
	var (
		db  *DB
		err error
	)
	switch cfg.Storage.DB.Driver {
	case DriverPostgres:
		db, err = NewConnectPostgres(ctx, cfg.Storage.DB, log)
	case DriverSQLite:
		db, err = NewConnectSQLite(ctx, cfg.Storage.DB, log)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Storage.DB.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		db.Close()
		return nil, err
	}

	return NewStoragesFromDB(db, cfg, log), nil
}

// NewStoragesFromDB builds the repositories on an already migrated database.
func NewStoragesFromDB(db *DB, cfg *config.StructuredConfig, log *logger.Logger) *Storages {
	plugins := NewPluginRepository(db, cfg.Registry.PluginsTable, log)
	if len(cfg.Registry.InstalledPlugins) > 0 {
		plugins = NewStaticPluginRepository(cfg.Registry.InstalledPlugins)
	}

	return &Storages{
		DB:               db,
		UserRepository:   NewUserRepository(db, cfg.Identity, log),
		RecordRepository: NewRecordRepository(db, log),
		BackupRepository: NewBackupRepository(db, log),
		LedgerRepository: NewLedgerRepository(db, log),
		PluginRepository: plugins,
		SchemaRepository: NewSchemaRepository(db, log),
	}
}

// Close releases the database connection.
func (s *Storages) Close() error {
	return s.DB.Close()
}
