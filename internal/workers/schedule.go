package workers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/internal/store"
)

// RunEvery runs worker, then again every interval, until ctx is canceled.
// A canceled context ends the loop without error. Transient database errors
// are logged and the job is tried again on the next tick; any other error is
// returned.
//
// With interval <= 0 the worker runs once and its error is returned as is.
func RunEvery(ctx context.Context, clk clock.Clock, interval time.Duration, worker Worker) error {
	if interval <= 0 {
		return runOnce(ctx, worker)
	}

	log := logger.FromContext(ctx)
	for {
		err := runOnce(ctx, worker)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, store.ErrTransient):
			log.Warn().Err(err).Str("func", "RunEvery").Dur("retry_in", interval).Msg("transient error, retrying on next tick")
		default:
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-clk.After(interval):
		}
	}
}

// runOnce adds a fresh run_id to every log entry written during the run.
func runOnce(ctx context.Context, worker Worker) error {
	runLog := logger.FromContext(ctx).GetChildLogger()
	runLog.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("run_id", uuid.NewString())
	})
	return worker.Run(runLog.WithContext(ctx))
}
