// Package registry describes where user references can live in the host
// platform's schema.
//
// A [Registry] is an ordered list of [Group]s, one per (component, module)
// pair. Each group lists the [Descriptor]s of the tables that reference a user.
// Descriptors with [PurposeCheck] mark activity: a user with a matching row is
// never purged. Descriptors with [PurposeArchive] mark user-owned auxiliary
// rows that are archived and removed together with the user.
package registry

import (
	"fmt"
	"strings"
)

// Subsystem is the module name used for core facilities. Groups with this
// module are always active and never checked against the plugin registry.
const Subsystem = "subsystem"

// Purpose says what a purge run does with a referenced table.
type Purpose int

const (
	// PurposeCheck marks a table whose rows count as user activity.
	PurposeCheck Purpose = iota + 1

	// PurposeArchive marks a table whose rows are archived and deleted with the user.
	PurposeArchive
)

func (p Purpose) String() string {
	switch p {
	case PurposeCheck:
		return "check"
	case PurposeArchive:
		return "archive"
	default:
		return fmt.Sprintf("purpose(%d)", int(p))
	}
}

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	return p == PurposeCheck || p == PurposeArchive
}

// MarshalText implements encoding.TextMarshaler.
func (p Purpose) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPurpose, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Purpose) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "check":
		*p = PurposeCheck
	case "archive", "backup":
		*p = PurposeArchive
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPurpose, string(text))
	}
	return nil
}

// Descriptor is one place where a user id may appear.
type Descriptor struct {
	// Component is the owning component (plugin type or subsystem name).
	Component string `yaml:"-"`

	// Module is the plugin name, or [Subsystem] for core facilities.
	Module string `yaml:"-"`

	// Table is the referencing table.
	Table string `yaml:"table"`

	// Alias is the table alias used in the elimination query. It must be
	// unique within its group.
	Alias string `yaml:"alias"`

	// Field is the column holding the user id.
	Field string `yaml:"field"`

	Purpose Purpose `yaml:"purpose"`
}

// Group is the ordered set of descriptors owned by one (component, module) pair.
type Group struct {
	Component   string       `yaml:"component"`
	Module      string       `yaml:"module"`
	Descriptors []Descriptor `yaml:"references"`
}

// Key returns "component/module".
func (g Group) Key() string {
	return g.Component + "/" + g.Module
}

// PluginName returns the name under which the host platform registers the
// module ("component_module"), e.g. "mod_forum".
func (g Group) PluginName() string {
	return g.Component + "_" + g.Module
}

// IsSubsystem reports whether the group belongs to a core facility.
func (g Group) IsSubsystem() bool {
	return g.Module == Subsystem
}

// Checks returns the descriptors that take part in elimination.
func (g Group) Checks() []Descriptor {
	return g.withPurpose(PurposeCheck)
}

// Archives returns the descriptors whose rows are archived on purge.
func (g Group) Archives() []Descriptor {
	return g.withPurpose(PurposeArchive)
}

func (g Group) withPurpose(purpose Purpose) []Descriptor {
	out := make([]Descriptor, 0, len(g.Descriptors))
	for _, d := range g.Descriptors {
		if d.Purpose == purpose {
			out = append(out, d)
		}
	}
	return out
}

// Registry is the ordered list of reference groups. Group order drives the
// order of elimination passes, which only affects how early an emptied
// candidate set stops the run.
type Registry struct {
	Groups []Group `yaml:"groups"`
}

// New builds a registry from groups, stamping every descriptor with its
// group's component and module.
func New(groups ...Group) Registry {
	reg := Registry{Groups: make([]Group, 0, len(groups))}
	for _, g := range groups {
		descriptors := make([]Descriptor, 0, len(g.Descriptors))
		for _, d := range g.Descriptors {
			d.Component = g.Component
			d.Module = g.Module
			descriptors = append(descriptors, d)
		}
		g.Descriptors = descriptors
		reg.Groups = append(reg.Groups, g)
	}
	return reg
}

// WithTablePrefix returns a copy of the registry whose descriptor tables
// carry prefix, e.g. "mdl_" for a default Moodle install. r is not modified.
func (r Registry) WithTablePrefix(prefix string) Registry {
	if prefix == "" {
		return r
	}

	out := Registry{Groups: make([]Group, 0, len(r.Groups))}
	for _, g := range r.Groups {
		descriptors := make([]Descriptor, 0, len(g.Descriptors))
		for _, d := range g.Descriptors {
			d.Table = prefix + d.Table
			descriptors = append(descriptors, d)
		}
		g.Descriptors = descriptors
		out.Groups = append(out.Groups, g)
	}
	return out
}

// Descriptors returns every descriptor in registry order.
func (r Registry) Descriptors() []Descriptor {
	var out []Descriptor
	for _, g := range r.Groups {
		out = append(out, g.Descriptors...)
	}
	return out
}
