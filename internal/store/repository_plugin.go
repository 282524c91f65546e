package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MKhiriev/go-purge-users/internal/logger"
)

// pluginRepository looks plugins up in the host's plugin configuration table.
// A plugin counts as installed when it has a "version" setting.
type pluginRepository struct {
	logger *logger.Logger
	db     *DB
	table  string
}

// NewPluginRepository constructs a [PluginRepository] that looks plugins up
// in table, the host's plugin settings table.
func NewPluginRepository(db *DB, table string, logger *logger.Logger) PluginRepository {
	logger.Debug().Str("table", table).Msg("creating plugin repository")
	return &pluginRepository{
		db:     db,
		table:  table,
		logger: logger,
	}
}

func (r *pluginRepository) IsInstalled(ctx context.Context, plugin string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildIsPluginInstalledQuery(r.db.builder, r.table, plugin)
	if err != nil {
		log.Err(err).Str("func", "*pluginRepository.IsInstalled").Msg("error building query")
		return false, err
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Err(err).Str("func", "*pluginRepository.IsInstalled").Str("plugin", plugin).Msg("error checking plugin")
		return false, r.db.wrapError(ErrExecutingQuery, err)
	}

	return true, nil
}

// staticPluginRepository answers from a fixed list of installed plugins.
type staticPluginRepository struct {
	installed map[string]struct{}
}

// NewStaticPluginRepository returns a [PluginRepository] that reports exactly
// the given plugins as installed.
func NewStaticPluginRepository(plugins []string) PluginRepository {
	installed := make(map[string]struct{}, len(plugins))
	for _, p := range plugins {
		installed[p] = struct{}{}
	}
	return &staticPluginRepository{installed: installed}
}

func (r *staticPluginRepository) IsInstalled(_ context.Context, plugin string) (bool, error) {
	_, ok := r.installed[plugin]
	return ok, nil
}
