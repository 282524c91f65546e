package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/models"
)

func (s *purgeService) Statuses(ctx context.Context, userIDs []int64) (map[int64][]models.StatusEntry, error) {
	log := logger.FromContext(ctx)

	statuses := make(map[int64][]models.StatusEntry, len(userIDs))
	for _, id := range normalizeIDs(userIDs) {
		entries, err := s.ledger.GetStatuses(ctx, id)
		if err != nil {
			log.Err(err).Str("func", "*purgeService.Statuses").Int64("user_id", id).Msg("error reading ledger")
			return nil, fmt.Errorf("%w: user %d: %w", ErrReadingStatuses, id, err)
		}
		if entries == nil {
			entries = []models.StatusEntry{}
		}
		statuses[id] = entries
	}
	return statuses, nil
}
