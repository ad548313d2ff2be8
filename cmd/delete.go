package cmd

import (
	"pass-fxa/feature/passsync"

	"github.com/spf13/cobra"
)

// deleteCmd removes remote logins that are kept in the store.
var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete all remote passwords that are present locally",
	Long: `Delete every remote login whose username, password and URL all equal a
login of the store. Remote logins whose password differs are kept.

Entry filters are not applied, but the command does nothing when both
"fxa: include" and "fxa: exclude" entries exist.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, passsync.OpDelete)
	},
}

func init() {
	RootCmd.AddCommand(deleteCmd)
}
