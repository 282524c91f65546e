package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/internal/registry"
	"github.com/MKhiriev/go-purge-users/internal/validators"
)

// Validate runs the structural registry checks. With withSchema it also
// checks the identity table and the tables of every installed group against
// the live schema.
func (s *purgeService) Validate(ctx context.Context, withSchema bool) error {
	log := logger.FromContext(ctx)

	validator := validators.NewRegistryValidator(s.schema)
	if err := validator.Validate(ctx, s.registry); err != nil {
		log.Err(err).Str("func", "*purgeService.Validate").Msg("registry is invalid")
		return fmt.Errorf("%w: %w", ErrInvalidRegistry, err)
	}

	if !withSchema {
		return nil
	}

	if err := s.validateIdentity(ctx); err != nil {
		log.Err(err).Str("func", "*purgeService.Validate").Str("table", s.identity.Table).Msg("identity table is invalid")
		return err
	}

	groups, err := s.resolve(ctx)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return nil
	}

	if err = validator.Validate(ctx, registry.New(groups...), validators.FieldSchema); err != nil {
		log.Err(err).Str("func", "*purgeService.Validate").Msg("registry does not match the database")
		return fmt.Errorf("%w: %w", ErrInvalidRegistry, err)
	}

	return nil
}

func (s *purgeService) validateIdentity(ctx context.Context) error {
	ok, err := s.schema.TableExists(ctx, s.identity.Table)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	if !ok {
		return fmt.Errorf("%w: table %s not found", ErrInvalidIdentity, s.identity.Table)
	}

	var errs []error
	for _, column := range []string{"id", s.identity.DeletedColumn} {
		ok, err = s.schema.ColumnExists(ctx, s.identity.Table, column)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
		}
		if !ok {
			errs = append(errs, fmt.Errorf("%w: column %s.%s not found", ErrInvalidIdentity, s.identity.Table, column))
		}
	}
	return errors.Join(errs...)
}
