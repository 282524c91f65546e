package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-purge-users/internal/app"
	"github.com/MKhiriev/go-purge-users/internal/config"
)

// NewStatusCommand returns the status command, which prints the ledger
// history of the given users.
func NewStatusCommand(open Opener, overrides *config.StructuredConfig) *cobra.Command {
	var ids string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the ledger entries of users",
		Long: `Prints every decision recorded for the given users, oldest first: no_purge for
users kept because of their activity, deleted for purged users and restored
for users brought back from the backup.`,
		Example: `  purgeusers status --ids=123,456`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userIDs, err := parseUserIDs(ids)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(userIDs) == 0 {
				fmt.Fprintln(out, app.MsgNoUsersToShow)
				return nil
			}

			rt, err := open(cmd.Context(), overrides)
			if err != nil {
				return err
			}
			defer rt.Close()

			return printStatuses(cmd.Context(), out, rt, userIDs)
		},
	}

	cmd.Flags().StringVar(&ids, "ids", "", "Comma-separated ids of the users to show")

	return cmd
}

func printStatuses(ctx context.Context, out io.Writer, rt *Runtime, userIDs []int64) error {
	statuses, err := rt.Service.Statuses(ctx, userIDs)
	if err != nil {
		return err
	}

	for _, id := range userIDs {
		entries := statuses[id]
		if len(entries) == 0 {
			fmt.Fprintf(out, "%d %s\n", id, app.MsgNoLedgerEntries)
			continue
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%d %s %s\n", id, e.Status, e.Timestamp.UTC().Format(time.RFC3339))
		}
	}
	return nil
}
