package validators

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/MKhiriev/go-purge-users/internal/registry"
)

// Field names used to restrict [RegistryValidator.Validate] to a subset of checks.
const (
	// FieldIdentifiers checks that component, module, table, alias and field
	// names are plain SQL identifiers.
	FieldIdentifiers = "identifiers"

	// FieldAliases checks alias uniqueness within each group.
	FieldAliases = "aliases"

	// FieldPurposes checks that every descriptor has a known purpose.
	FieldPurposes = "purposes"

	// FieldGroups checks that groups are non-empty and declared once.
	FieldGroups = "groups"

	// FieldSchema checks referenced tables and columns against the live schema.
	FieldSchema = "schema"
)

// IdentityAlias is the alias of the identity table in elimination queries.
const IdentityAlias = "u"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// IsIdentifier reports whether name can be interpolated into SQL as a bare identifier.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

var defaultRegistryFields = []string{FieldGroups, FieldIdentifiers, FieldAliases, FieldPurposes}

// RegistryValidator checks a [registry.Registry] for configuration errors.
// All problems found are returned together.
type RegistryValidator struct {
	schema SchemaChecker
}

// NewRegistryValidator returns a validator. schema may be nil, in which case
// [FieldSchema] cannot be requested.
func NewRegistryValidator(schema SchemaChecker) Validator {
	return &RegistryValidator{schema: schema}
}

// Validate accepts registry.Registry or *registry.Registry. Without fields
// it runs every check except [FieldSchema], which needs a database.
func (v *RegistryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case registry.Registry:
		return v.validateRegistry(ctx, value, fields...)
	case *registry.Registry:
		return v.validateRegistry(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *RegistryValidator) validateRegistry(ctx context.Context, reg registry.Registry, fields ...string) error {
	if len(reg.Groups) == 0 {
		return ErrEmptyRegistry
	}
	if len(fields) == 0 {
		fields = defaultRegistryFields
	}

	var errs []error
	for _, field := range fields {
		switch field {
		case FieldGroups:
			errs = append(errs, validateGroups(reg)...)
		case FieldIdentifiers:
			errs = append(errs, validateIdentifiers(reg)...)
		case FieldAliases:
			errs = append(errs, validateAliases(reg)...)
		case FieldPurposes:
			errs = append(errs, validatePurposes(reg)...)
		case FieldSchema:
			errs = append(errs, v.validateSchema(ctx, reg)...)
		default:
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownField, field))
		}
	}

	return errors.Join(errs...)
}

func validateGroups(reg registry.Registry) []error {
	var errs []error
	seen := make(map[string]bool, len(reg.Groups))
	for _, g := range reg.Groups {
		if seen[g.Key()] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateGroup, g.Key()))
		}
		seen[g.Key()] = true

		if len(g.Descriptors) == 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrEmptyGroup, g.Key()))
		}
	}
	return errs
}

func validateIdentifiers(reg registry.Registry) []error {
	var errs []error
	for _, g := range reg.Groups {
		for _, name := range []string{g.Component, g.Module} {
			if !IsIdentifier(name) {
				errs = append(errs, fmt.Errorf("%w: group %q: %q", ErrInvalidIdentifier, g.Key(), name))
			}
		}
		for _, d := range g.Descriptors {
			for _, name := range []string{d.Table, d.Alias, d.Field} {
				if !IsIdentifier(name) {
					errs = append(errs, fmt.Errorf("%w: %s: %q", ErrInvalidIdentifier, g.Key(), name))
				}
			}
		}
	}
	return errs
}

// validateAliases enforces alias uniqueness per group: one group becomes one
// elimination query.
func validateAliases(reg registry.Registry) []error {
	var errs []error
	for _, g := range reg.Groups {
		seen := make(map[string]bool, len(g.Descriptors))
		for _, d := range g.Descriptors {
			if d.Alias == IdentityAlias {
				errs = append(errs, fmt.Errorf("%w: %s: %s", ErrReservedAlias, g.Key(), d.Alias))
			}
			if seen[d.Alias] {
				errs = append(errs, fmt.Errorf("%w: %s: %s", ErrDuplicateAlias, g.Key(), d.Alias))
			}
			seen[d.Alias] = true
		}
	}
	return errs
}

func validatePurposes(reg registry.Registry) []error {
	var errs []error
	for _, g := range reg.Groups {
		for _, d := range g.Descriptors {
			if !d.Purpose.Valid() {
				errs = append(errs, fmt.Errorf("%w: %s: %s.%s", ErrInvalidPurpose, g.Key(), d.Table, d.Field))
			}
		}
	}
	return errs
}

func (v *RegistryValidator) validateSchema(ctx context.Context, reg registry.Registry) []error {
	if v.schema == nil {
		return []error{ErrNoSchemaChecker}
	}

	var errs []error
	tables := make(map[string]bool)
	for _, d := range reg.Descriptors() {
		exists, checked := tables[d.Table]
		if !checked {
			var err error
			exists, err = v.schema.TableExists(ctx, d.Table)
			if err != nil {
				return append(errs, fmt.Errorf("%w: %s: %w", ErrSchemaCheckFailed, d.Table, err))
			}
			tables[d.Table] = exists
			if !exists {
				errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownTable, d.Table))
			}
		}
		if !exists {
			continue
		}

		ok, err := v.schema.ColumnExists(ctx, d.Table, d.Field)
		if err != nil {
			return append(errs, fmt.Errorf("%w: %s.%s: %w", ErrSchemaCheckFailed, d.Table, d.Field, err))
		}
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, d.Table, d.Field))
		}
	}
	return errs
}
