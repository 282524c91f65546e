// Package workers provides abstractions for running purge jobs in the
// application.
// It defines the Worker interface, the batch worker and a periodic runner
// that tags the log entries of every run with its own run id.
package workers

import (
	"context"

	"github.com/MKhiriev/go-purge-users/models"
)

// Worker is the interface that must be implemented by any job worker.
// It defines a single Run method that performs the worker's job.
//
// Implementations are expected to block for the duration of their work and
// to return early once ctx is canceled.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    // process one job
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// BatchRunner runs a single purge batch of at most limit candidates.
type BatchRunner interface {
	RunBatch(ctx context.Context, limit uint64) (models.PurgeReport, error)
}
