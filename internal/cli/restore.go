package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-purge-users/internal/app"
	"github.com/MKhiriev/go-purge-users/internal/config"
	"github.com/MKhiriev/go-purge-users/models"
)

// NewRestoreCommand returns the restore command, which puts purged users back
// from the backup table.
func NewRestoreCommand(open Opener, overrides *config.StructuredConfig) *cobra.Command {
	var (
		run bool
		ids string
	)

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore purged users from the backup table",
		Long: `Without --run the command lists the users that would be restored. With --run
the archived records are inserted back. Records that already exist are left
untouched, so a restore can be repeated. An empty --ids list does nothing.`,
		Example: `  purgeusers restore --ids=123,456,789 --run`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userIDs, err := parseUserIDs(ids)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(userIDs) == 0 {
				fmt.Fprintln(out, app.MsgNoUsersToRestore)
				return nil
			}

			rt, err := openValidated(cmd.Context(), open, overrides)
			if err != nil {
				return err
			}
			defer rt.Close()

			return restoreUsers(cmd.Context(), out, rt, userIDs, run)
		},
	}

	cmd.Flags().BoolVarP(&run, "run", "r", false, "Restore the users. Without this flag the command only lists them")
	cmd.Flags().StringVar(&ids, "ids", "", "Comma-separated ids of the users to restore")

	return cmd
}

func restoreUsers(ctx context.Context, out io.Writer, rt *Runtime, userIDs []int64, run bool) error {
	if !run {
		report, err := rt.Service.PreviewRestore(ctx, userIDs)
		if err != nil {
			return err
		}
		printIDs(out, app.MsgUsersToRestore, report.Restored)
		printIDs(out, app.MsgUsersAlreadyPresent, report.AlreadyPresent)
		printIDs(out, app.MsgUsersWithoutBackup, report.Skipped)
		printFailures(out, report.Failed)
		return nil
	}

	report, err := rt.Service.Restore(ctx, userIDs)
	if err != nil {
		return err
	}
	printRestoreReport(out, report)
	if report.HasFailures() {
		return ErrRestoreFailed
	}
	return nil
}

func printRestoreReport(out io.Writer, report models.RestoreReport) {
	for _, id := range report.Restored {
		fmt.Fprintf(out, "restored %d\n", id)
	}
	for _, id := range report.AlreadyPresent {
		fmt.Fprintf(out, "already present %d\n", id)
	}
	for _, id := range report.Skipped {
		fmt.Fprintf(out, "no backup %d\n", id)
	}
	printFailures(out, report.Failed)
}

func printIDs(out io.Writer, header string, ids []int64) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintln(out, header)
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
}

// parseUserIDs reads a comma-separated id list. Empty elements are skipped,
// the result is sorted and deduplicated.
func parseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidUserID, part)
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}
