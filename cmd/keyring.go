package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"pass-fxa/core/keyring"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var keyringCmd = &cobra.Command{
	Use:   "keyring",
	Short: "Keep configuration secrets in the OS keyring",
	Long: `Secrets left empty in the configuration are read from the OS keyring.

Supported keys: ` + strings.Join(keyring.SecretKeys, ", "),
}

var keyringSetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Store a secret, read from the terminal or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if err := checkSecretKey(key); err != nil {
			return err
		}
		value, err := readSecret(key)
		if err != nil {
			return err
		}
		if err := keyring.Save(key, value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %s in the keyring.\n", key)
		return nil
	},
}

var keyringDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if err := checkSecretKey(key); err != nil {
			return err
		}
		if err := keyring.Delete(key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the keyring.\n", key)
		return nil
	},
}

var keyringStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which secrets are stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, key := range keyring.SecretKeys {
			state := "not set"
			if keyring.Has(key) {
				state = "stored"
			}
			fmt.Fprintf(out, "%-20s %s\n", key, state)
		}
		return nil
	},
}

func init() {
	keyringCmd.AddCommand(keyringSetCmd, keyringDeleteCmd, keyringStatusCmd)
	RootCmd.AddCommand(keyringCmd)
}

func checkSecretKey(key string) error {
	if !keyring.IsSecretKey(key) {
		return fmt.Errorf("unsupported key %q, expected one of %s", key, strings.Join(keyring.SecretKeys, ", "))
	}
	return nil
}

// readSecret prompts on a terminal, otherwise reads the first line of stdin.
func readSecret(key string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		value, err := readPassword(fd, key+": ")
		if err != nil {
			return "", err
		}
		defer clearBytes(value)
		if len(value) == 0 {
			return "", fmt.Errorf("%s must not be empty", key)
		}
		return string(value), nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read %s from stdin: %w", key, err)
		}
		return "", fmt.Errorf("no %s on stdin", key)
	}
	value := strings.TrimRight(scanner.Text(), "\r")
	if value == "" {
		return "", fmt.Errorf("%s must not be empty", key)
	}
	return value, nil
}
