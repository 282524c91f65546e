package service

import (
	"github.com/juju/clock"

	"github.com/MKhiriev/go-purge-users/internal/config"
	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/internal/registry"
	"github.com/MKhiriev/go-purge-users/internal/store"
)

// Services bundles the services the commands run against.
type Services struct {
	Eliminator   Eliminator
	PurgeService PurgeService
}

// NewServices wires the eliminator and the purge service on storages.
func NewServices(storages *store.Storages, reg registry.Registry, cfg *config.StructuredConfig, clk clock.Clock, logger *logger.Logger) *Services {
	eliminator := NewEliminator(storages.UserRepository, logger)
	return &Services{
		Eliminator:   eliminator,
		PurgeService: NewPurgeService(storages, eliminator, reg, cfg.Identity, clk, logger),
	}
}
