package cmd

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"

	"pass-fxa/core/loginsync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// PasswordEnv supplies the new account password without a prompt.
const PasswordEnv = "PASS_FXA_ACCOUNT_PASSWORD"

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage login-sync accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a login-sync account",
	Long: `Creates an account on the configured sql or s3 backend. The password is
read from ` + PasswordEnv + ` or prompted for twice on the terminal.

Example:
  pass-fxa account add me@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runAccountAdd,
}

func init() {
	accountCmd.AddCommand(accountAddCmd)
	RootCmd.AddCommand(accountCmd)
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	username := args[0]

	cfg, l, err := loadConfig()
	if err != nil {
		return err
	}
	defer l.Sync()

	dialer, closeBackend, err := newDialer(cmd.Context(), cfg, l)
	if err != nil {
		return err
	}
	defer closeBackend()

	creator, ok := dialer.(loginsync.AccountCreator)
	if !ok {
		return fmt.Errorf("backend %s cannot create accounts", cfg.Sync.Backend)
	}

	password, err := accountPassword()
	if err != nil {
		return err
	}
	defer clearBytes(password)

	if err := creator.CreateAccount(cmd.Context(), username, string(password)); err != nil {
		if errors.Is(err, loginsync.ErrAccountExists) {
			return fmt.Errorf("account %s already exists", username)
		}
		return err
	}

	l.Info("Account created", zap.String("backend", cfg.Sync.Backend))
	fmt.Fprintf(cmd.OutOrStdout(), "Created account %s.\n", username)
	return nil
}

// accountPassword reads the password from the environment or the terminal.
func accountPassword() ([]byte, error) {
	if env := os.Getenv(PasswordEnv); env != "" {
		return []byte(env), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("no terminal to prompt for a password, set %s", PasswordEnv)
	}

	first, err := readPassword(fd, "Enter password: ")
	if err != nil {
		return nil, err
	}
	second, err := readPassword(fd, "Confirm password: ")
	if err != nil {
		clearBytes(first)
		return nil, err
	}
	defer clearBytes(second)

	if subtle.ConstantTimeCompare(first, second) != 1 {
		clearBytes(first)
		return nil, errors.New("passwords do not match")
	}
	if len(first) == 0 {
		return nil, errors.New("password must not be empty")
	}
	return first, nil
}

func readPassword(fd int, prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
