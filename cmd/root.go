package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"pass-fxa/core/logger"
	"pass-fxa/core/reconcile"
	"pass-fxa/feature/passsync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	exitFatal     = 1
	exitAmbiguous = 2
)

var (
	passName  string
	dryRun    bool
	configDir string
)

// RootCmd represents the base command when called without any subcommands.
// On its own it uploads the password store.
var RootCmd = &cobra.Command{
	Use:   "pass-fxa",
	Short: "Sync a pass password store with a login-sync service",
	Long: `pass-fxa uploads the logins of a pass(1) password store to a login-sync
service, or deletes from the service the logins that are kept in the store.

The account used to sign in to the service is itself read from the store: the
secret whose URL host is firefox.com (see sync.credential_host), or the one
named with --pass-name.

Entries can opt in or out with an "fxa: include" or "fxa: exclude" line.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, passsync.OpUpload)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&passName, "pass-name", "", "Name of the secret holding the sync account credentials")
	RootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Plan and report without changing the sync service")
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding pass-fxa.yaml and .env")
}

// Execute runs the root command and exits with a non-zero status on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err for the user and returns the exit status.
func reportError(w io.Writer, err error) int {
	var ambiguous *reconcile.AmbiguousCredentialsError
	if errors.As(err, &ambiguous) {
		fmt.Fprintln(w, "Ambiguous sync account credential locations, please specify the location of the credentials with --pass-name:")
		for _, c := range ambiguous.Candidates {
			fmt.Fprintf(w, "- %s: %s\n", c.Name, c.Username)
		}
		return exitAmbiguous
	}

	// Console format with debug level gives ISO8601 timestamps.
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr == nil {
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
	} else {
		fmt.Fprintln(w, err)
	}
	return exitFatal
}
