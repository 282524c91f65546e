package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or an unsupported driver).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidIdentityConfigs indicates an identity table or column name
	// that is not a plain SQL identifier.
	ErrInvalidIdentityConfigs = errors.New("invalid identity configuration")
	// ErrInvalidPurgeConfigs indicates invalid batch settings
	// (for example, zero batch limit or negative interval).
	ErrInvalidPurgeConfigs = errors.New("invalid purge configuration")
	// ErrInvalidRegistryConfigs indicates invalid registry settings
	// (for example, a malformed plugins table name).
	ErrInvalidRegistryConfigs = errors.New("invalid registry configuration")
)
