package cli

import (
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-purge-users/internal/config"
	"github.com/MKhiriev/go-purge-users/internal/logger"
)

// NewRootCommand returns the purgeusers command with its subcommands. The
// configuration flags are persistent and shared by every subcommand; log is
// attached to the context of whichever command runs.
func NewRootCommand(open Opener, log *logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purgeusers",
		Short: "Purge deleted users without activity",
		Long: `purgeusers finds user accounts flagged deleted that left no activity anywhere
in the platform, archives them to a backup table and removes them. Purged users
can be restored from the backup.

Every command connects to the host database and first creates the backup and
ledger tables (purge_backups, purge_ledger) and the goose_db_version migration
table when they are missing. Dry runs write nothing else.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(log.WithContext(cmd.Context()))
		},
	}

	overrides := config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		NewPurgeCommand(open, overrides),
		NewRestoreCommand(open, overrides),
		NewValidateCommand(open, overrides),
		NewStatusCommand(open, overrides),
	)

	return cmd
}
