// Package cli builds the purgeusers command tree.
//
// Commands never touch the database directly: they obtain a [Runtime] from an
// [Opener], which loads the configuration, connects to the host database and
// wires the services. Tests substitute their own Opener.
package cli

import (
	"context"
	"fmt"

	"github.com/juju/clock"

	"github.com/MKhiriev/go-purge-users/internal/config"
	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/internal/registry"
	"github.com/MKhiriev/go-purge-users/internal/service"
	"github.com/MKhiriev/go-purge-users/internal/store"
)

// Runtime is everything a command runs against.
type Runtime struct {
	Config  *config.StructuredConfig
	Service service.PurgeService
	Clock   clock.Clock

	closeFn func() error
}

// NewRuntime builds a Runtime; closeFn may be nil.
func NewRuntime(cfg *config.StructuredConfig, svc service.PurgeService, clk clock.Clock, closeFn func() error) *Runtime {
	return &Runtime{Config: cfg, Service: svc, Clock: clk, closeFn: closeFn}
}

// Close releases the database connection.
func (r *Runtime) Close() error {
	if r.closeFn == nil {
		return nil
	}
	return r.closeFn()
}

// Opener builds a Runtime from the command-line overrides.
type Opener func(ctx context.Context, overrides *config.StructuredConfig) (*Runtime, error)

// Open returns the production Opener.
func Open(log *logger.Logger) Opener {
	return func(ctx context.Context, overrides *config.StructuredConfig) (*Runtime, error) {
		cfg, err := config.GetStructuredConfig(overrides)
		if err != nil {
			log.Err(err).Str("func", "cli.Open").Msg("error getting configs")
			return nil, err
		}

		reg, err := loadRegistry(cfg.Registry)
		if err != nil {
			log.Err(err).Str("func", "cli.Open").Str("file", cfg.Registry.FilePath).Msg("error loading registry")
			return nil, err
		}

		storages, err := store.NewStorages(ctx, cfg, log)
		if err != nil {
			log.Err(err).Str("func", "cli.Open").Msg("error creating storages")
			return nil, err
		}

		services := service.NewServices(storages, reg, cfg, clock.WallClock, log)
		return NewRuntime(cfg, services.PurgeService, clock.WallClock, storages.Close), nil
	}
}

func loadRegistry(cfg config.Registry) (registry.Registry, error) {
	if cfg.FilePath == "" {
		return registry.Default().WithTablePrefix(cfg.TablePrefix), nil
	}
	reg, err := registry.Load(cfg.FilePath)
	if err != nil {
		return registry.Registry{}, fmt.Errorf("loading registry %s: %w", cfg.FilePath, err)
	}
	return reg.WithTablePrefix(cfg.TablePrefix), nil
}

// openValidated opens a runtime and runs the startup validation; schema
// checks are skipped when the configuration says so.
func openValidated(ctx context.Context, open Opener, overrides *config.StructuredConfig) (*Runtime, error) {
	rt, err := open(ctx, overrides)
	if err != nil {
		return nil, err
	}

	withSchema := !rt.Config.Registry.SkipSchemaValidation
	if err = rt.Service.Validate(ctx, withSchema); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}
