package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-purge-users/internal/app"
	"github.com/MKhiriev/go-purge-users/internal/config"
)

// NewValidateCommand returns the validate command, which checks the registry
// and, unless --offline is given, the schema it references.
func NewValidateCommand(open Opener, overrides *config.StructuredConfig) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the activity registry",
		Long: `Checks the activity registry for duplicate aliases, invalid names and unknown
purposes. Unless --offline is given, every table and column the installed
modules reference is looked up in the database. The database connection is
opened in both modes, so the backup and ledger tables are created when missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := open(cmd.Context(), overrides)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err = rt.Service.Validate(cmd.Context(), !offline); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), app.MsgRegistryIsValid)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip table and column checks against the database")

	return cmd
}
