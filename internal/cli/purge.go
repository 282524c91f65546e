package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-purge-users/internal/app"
	"github.com/MKhiriev/go-purge-users/internal/config"
	"github.com/MKhiriev/go-purge-users/internal/workers"
	"github.com/MKhiriev/go-purge-users/models"
)

// NewPurgeCommand returns the purge command. Without --run it previews the
// next batch; with --run it purges up to --batches batches, repeated every
// --interval when one is set.
func NewPurgeCommand(open Opener, overrides *config.StructuredConfig) *cobra.Command {
	var run bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Purge deleted users without activity",
		Long: `Without --run the command lists the users a purge would remove and the users
kept because of their activity. No host table is written; only the backup and
ledger tables are created when they do not exist yet.

With --run the users are archived to the backup table and deleted. Users with
activity are recorded so they are not examined again.`,
		Example: `  purgeusers purge -d "postgres://moodle@localhost/moodle"
  purgeusers purge --run --batches 10
  purgeusers purge --run --interval 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openValidated(cmd.Context(), open, overrides)
			if err != nil {
				return err
			}
			defer rt.Close()

			if !run {
				return previewPurge(cmd.Context(), cmd.OutOrStdout(), rt)
			}
			return runPurge(cmd.Context(), cmd.OutOrStdout(), rt)
		},
	}

	cmd.Flags().BoolVarP(&run, "run", "r", false, "Purge the users. Without this flag the command only lists them")
	cmd.Flags().IntVar(&overrides.Purge.MaxBatches, "batches", 0, "Maximum number of consecutive batches")
	cmd.Flags().DurationVar(&overrides.Purge.Interval, "interval", 0, "Repeat the purge every interval until interrupted")

	return cmd
}

func previewPurge(ctx context.Context, out io.Writer, rt *Runtime) error {
	decision, err := rt.Service.Preview(ctx, rt.Config.Purge.BatchLimit)
	if err != nil {
		return err
	}

	if len(decision.Purgeable) == 0 && len(decision.Excluded) == 0 {
		fmt.Fprintln(out, app.MsgNoUsersToPurge)
		return nil
	}

	if len(decision.Purgeable) > 0 {
		fmt.Fprintln(out, app.MsgUsersToPurge)
		for _, id := range decision.Purgeable {
			fmt.Fprintln(out, id)
		}
	}
	if len(decision.Excluded) > 0 {
		fmt.Fprintln(out, app.MsgUsersToKeep)
		for _, id := range decision.Excluded {
			fmt.Fprintf(out, "%d (%s)\n", id, decision.BlockedBy[id])
		}
	}
	return nil
}

func runPurge(ctx context.Context, out io.Writer, rt *Runtime) error {
	failed := false
	worker := workers.NewPurgeWorker(rt.Service, rt.Config.Purge.BatchLimit, rt.Config.Purge.MaxBatches,
		func(batch int, report models.PurgeReport) {
			printPurgeReport(out, batch, report)
			if report.HasFailures() {
				failed = true
			}
		})

	if err := workers.RunEvery(ctx, rt.Clock, rt.Config.Purge.Interval, worker); err != nil {
		return err
	}
	if failed {
		return ErrPurgeFailed
	}
	return nil
}

func printPurgeReport(out io.Writer, batch int, report models.PurgeReport) {
	if len(report.Candidates) == 0 {
		if batch == 1 {
			fmt.Fprintln(out, app.MsgNoUsersToPurge)
		}
		return
	}

	fmt.Fprintf(out, "Batch %d: %d candidates, %d purged, %d kept, %d failed\n",
		batch, len(report.Candidates), len(report.Purged), len(report.Excluded), len(report.Failed))
	for _, id := range report.Purged {
		fmt.Fprintf(out, "purged %d\n", id)
	}
	for _, id := range report.Excluded {
		fmt.Fprintf(out, "kept %d (%s)\n", id, report.BlockedBy[id])
	}
	printFailures(out, report.Failed)
}

func printFailures(out io.Writer, failed map[int64]error) {
	for _, id := range slices.Sorted(maps.Keys(failed)) {
		fmt.Fprintf(out, "failed %d: %v\n", id, failed[id])
	}
}
