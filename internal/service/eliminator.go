package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/internal/registry"
	"github.com/MKhiriev/go-purge-users/internal/store"
	"github.com/MKhiriev/go-purge-users/models"
)

// eliminator runs one narrowing query per group and stops as soon as no
// candidate is left.
type eliminator struct {
	users  store.UserRepository
	logger *logger.Logger
}

// NewEliminator returns an [Eliminator] that runs its passes through users.
func NewEliminator(users store.UserRepository, logger *logger.Logger) Eliminator {
	return &eliminator{
		users:  users,
		logger: logger,
	}
}

func (e *eliminator) Narrow(ctx context.Context, candidates []int64, groups []registry.Group) (models.Elimination, error) {
	log := logger.FromContext(ctx)

	remaining := normalizeIDs(candidates)
	result := models.Elimination{BlockedBy: make(map[int64]string)}

	for _, g := range groups {
		if len(remaining) == 0 {
			log.Debug().Str("group", g.Key()).Msg("no candidates left, skipping remaining groups")
			break
		}

		checks := g.Checks()
		if len(checks) == 0 {
			continue
		}

		kept, err := e.users.FindUsersWithoutReferences(ctx, remaining, checks)
		if err != nil {
			log.Err(err).Str("func", "*eliminator.Narrow").Str("group", g.Key()).Int("candidates", len(remaining)).Msg("error narrowing candidates")
			return models.Elimination{}, fmt.Errorf("%w: %s: %w", ErrNarrowingFailed, g.Key(), err)
		}

		kept = normalizeIDs(kept)
		for _, id := range remaining {
			if _, found := slices.BinarySearch(kept, id); !found {
				result.BlockedBy[id] = g.Key()
			}
		}

		log.Debug().Str("group", g.Key()).Int("before", len(remaining)).Int("after", len(kept)).Msg("group applied")
		remaining = intersect(remaining, kept)
	}

	result.Remaining = remaining
	return result, nil
}

// normalizeIDs returns a sorted copy of ids without duplicates.
func normalizeIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// intersect keeps the elements of sorted a that are present in sorted b, so a
// query returning ids outside the working set cannot widen it.
func intersect(a, b []int64) []int64 {
	out := make([]int64, 0, len(b))
	for _, id := range a {
		if _, found := slices.BinarySearch(b, id); found {
			out = append(out, id)
		}
	}
	return out
}
