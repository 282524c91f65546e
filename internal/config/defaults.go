package config

// Default values applied to fields no other source sets.
const (
	DefaultDriver        = "pgx"
	DefaultIdentityTable = "users"
	DefaultDeletedColumn = "deleted"
	DefaultBatchLimit    = 500
	DefaultMaxBatches    = 1
	DefaultPluginsTable  = "config_plugins"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{
			DB: DB{Driver: DefaultDriver},
		},
		Identity: Identity{
			Table:         DefaultIdentityTable,
			DeletedColumn: DefaultDeletedColumn,
		},
		Purge: Purge{
			BatchLimit: DefaultBatchLimit,
			MaxBatches: DefaultMaxBatches,
		},
		Registry: Registry{
			PluginsTable: DefaultPluginsTable,
		},
	}
}
