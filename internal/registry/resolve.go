package registry

import (
	"context"
	"fmt"
)

// PluginChecker reports whether an optional module is installed on the host
// platform. The name is the plugin name as returned by [Group.PluginName].
type PluginChecker interface {
	IsInstalled(ctx context.Context, plugin string) (bool, error)
}

// PluginCheckerFunc adapts a function to [PluginChecker].
type PluginCheckerFunc func(ctx context.Context, plugin string) (bool, error)

// IsInstalled implements [PluginChecker].
func (f PluginCheckerFunc) IsInstalled(ctx context.Context, plugin string) (bool, error) {
	return f(ctx, plugin)
}

// Resolve returns the groups active for this run, in registry order.
// Subsystem groups are always kept; any other group is kept only when its
// plugin is installed. Skipped groups contribute no constraints.
func Resolve(ctx context.Context, reg Registry, checker PluginChecker) ([]Group, error) {
	active := make([]Group, 0, len(reg.Groups))
	for _, g := range reg.Groups {
		if g.IsSubsystem() {
			active = append(active, g)
			continue
		}

		installed, err := checker.IsInstalled(ctx, g.PluginName())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPluginCheckFailed, g.PluginName(), err)
		}
		if installed {
			active = append(active, g)
		}
	}
	return active, nil
}
