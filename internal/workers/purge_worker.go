package workers

import (
	"context"

	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/models"
)

// ReportFunc receives the report of every finished batch. batch counts from 1.
type ReportFunc func(batch int, report models.PurgeReport)

// PurgeWorker runs consecutive purge batches.
type PurgeWorker struct {
	runner     BatchRunner
	limit      uint64
	maxBatches int
	onReport   ReportFunc
}

// NewPurgeWorker returns a worker running up to maxBatches batches of limit
// candidates each. At least one batch is run. onReport may be nil.
func NewPurgeWorker(runner BatchRunner, limit uint64, maxBatches int, onReport ReportFunc) *PurgeWorker {
	return &PurgeWorker{
		runner:     runner,
		limit:      limit,
		maxBatches: max(maxBatches, 1),
		onReport:   onReport,
	}
}

// Run stops early when a batch has no candidates. It also stops when every
// candidate of a batch failed, since the next batch would fetch the same users
// again.
func (w *PurgeWorker) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	for batch := 1; batch <= w.maxBatches; batch++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		report, err := w.runner.RunBatch(ctx, w.limit)
		if w.onReport != nil {
			w.onReport(batch, report)
		}
		if err != nil {
			log.Err(err).Str("func", "*PurgeWorker.Run").Int("batch", batch).Msg("purge batch failed")
			return err
		}

		if len(report.Candidates) == 0 {
			log.Debug().Int("batch", batch).Msg("no candidates left")
			return nil
		}
		if len(report.Failed) >= len(report.Candidates) {
			log.Warn().Int("batch", batch).Int("failed", len(report.Failed)).Msg("no user of the batch could be processed, stopping")
			return nil
		}
	}

	return nil
}
