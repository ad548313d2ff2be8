package cmd

import (
	"bytes"
	"errors"
	"testing"

	"pass-fxa/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportError_Ambiguous(t *testing.T) {
	var out bytes.Buffer
	err := &reconcile.AmbiguousCredentialsError{Candidates: []reconcile.CredentialCandidate{
		{Name: "firefox.com/me", Username: "me@example.com"},
		{Name: "sync/firefox", Username: "other@example.com"},
	}}

	code := reportError(&out, err)

	assert.Equal(t, exitAmbiguous, code)
	assert.Equal(t,
		"Ambiguous sync account credential locations, please specify the location of the credentials with --pass-name:\n"+
			"- firefox.com/me: me@example.com\n"+
			"- sync/firefox: other@example.com\n",
		out.String())
}

func TestReportError_Fatal(t *testing.T) {
	var out bytes.Buffer
	code := reportError(&out, errors.New("boom"))

	assert.Equal(t, exitFatal, code)
	assert.NotContains(t, out.String(), "Ambiguous")
}

func TestRootCmd_Subcommands(t *testing.T) {
	for _, name := range []string{"delete", "serve", "account", "keyring"} {
		c, _, err := RootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}

	for _, flag := range []string{"pass-name", "dry-run", "config-dir"} {
		assert.NotNil(t, RootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestCheckSecretKey(t *testing.T) {
	assert.NoError(t, checkSecretKey("sync.api_key"))
	assert.Error(t, checkSecretKey("store.dir"))
}

func TestAccountPassword_FromEnv(t *testing.T) {
	t.Setenv(PasswordEnv, "s3cret")

	password, err := accountPassword()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", string(password))
}

func TestClearBytes(t *testing.T) {
	b := []byte("secret")
	clearBytes(b)
	assert.Equal(t, make([]byte, 6), b)
}
