package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the global configuration flags on fs and returns the
// config they fill in. Flags left unset stay zero and fall through to the
// other sources.
//
// Flags:
//
//	-c/--config              json file path with configs
//	--driver                 database driver (pgx, sqlite3)
//	-d/--dsn                 database DSN
//	--identity-table         table holding user accounts
//	--deleted-column         soft-delete column of the identity table
//	--batch-limit            candidates per batch
//	--registry               YAML registry file
//	--plugins                installed plugins, comma separated
//	--plugins-table          table listing plugin settings
//	--table-prefix           prefix of every host table (e.g. mdl_)
//	--skip-schema-validation skip table/column checks
func BindFlags(fs *pflag.FlagSet) *StructuredConfig {
	cfg := &StructuredConfig{}

	fs.StringVarP(&cfg.JSONFilePath, "config", "c", "", "JSON config file path")
	fs.StringVar(&cfg.Storage.DB.Driver, "driver", "", "Database driver (pgx or sqlite3)")
	fs.StringVarP(&cfg.Storage.DB.DSN, "dsn", "d", "", "Database DSN")
	fs.StringVar(&cfg.Identity.Table, "identity-table", "", "Table holding user accounts")
	fs.StringVar(&cfg.Identity.DeletedColumn, "deleted-column", "", "Soft-delete column of the identity table")
	fs.Uint64Var(&cfg.Purge.BatchLimit, "batch-limit", 0, "Maximum number of candidates per batch")
	fs.StringVar(&cfg.Registry.FilePath, "registry", "", "YAML registry file")
	fs.StringSliceVar(&cfg.Registry.InstalledPlugins, "plugins", nil, "Installed plugins (e.g. mod_forum,mod_chat)")
	fs.StringVar(&cfg.Registry.PluginsTable, "plugins-table", "", "Table listing plugin settings")
	fs.StringVar(&cfg.Registry.TablePrefix, "table-prefix", "", "Prefix of every host table (e.g. mdl_)")
	fs.BoolVar(&cfg.Registry.SkipSchemaValidation, "skip-schema-validation", false, "Skip table and column checks against the database")

	return cfg
}
