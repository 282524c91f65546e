// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-purge-users/internal/validators"
)

// validate checks that the merged [StructuredConfig] can be used to open the
// database and run a purge. All failures are reported at once.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	switch cfg.Storage.DB.Driver {
	case "pgx", "sqlite3":
	default:
		errs = append(errs, fmt.Errorf("%w: unsupported driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver))
	}
	if cfg.Storage.DB.DSN == "" {
		errs = append(errs, fmt.Errorf("%w: empty DSN", ErrInvalidStorageConfigs))
	}

	for _, name := range []string{cfg.Identity.Table, cfg.Identity.DeletedColumn} {
		if !validators.IsIdentifier(name) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidIdentityConfigs, name))
		}
	}

	if cfg.Purge.BatchLimit == 0 {
		errs = append(errs, fmt.Errorf("%w: batch limit must be positive", ErrInvalidPurgeConfigs))
	}
	if cfg.Purge.MaxBatches < 1 {
		errs = append(errs, fmt.Errorf("%w: max batches must be positive", ErrInvalidPurgeConfigs))
	}
	if cfg.Purge.Interval < 0 {
		errs = append(errs, fmt.Errorf("%w: negative interval", ErrInvalidPurgeConfigs))
	}

	if prefix := cfg.Registry.TablePrefix; prefix != "" && !validators.IsIdentifier(prefix) {
		errs = append(errs, fmt.Errorf("%w: table prefix %q", ErrInvalidRegistryConfigs, prefix))
	}
	if len(cfg.Registry.InstalledPlugins) == 0 && !validators.IsIdentifier(cfg.Registry.PluginsTable) {
		errs = append(errs, fmt.Errorf("%w: plugins table %q", ErrInvalidRegistryConfigs, cfg.Registry.PluginsTable))
	}

	return errors.Join(errs...)
}
