package passstore

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGPG writes a shell script standing in for gpg. It prints the file given as
// last argument, or fails when the file name contains "broken".
func fakeGPG(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script gpg stub requires a unix shell")
	}
	script := `#!/bin/sh
for last; do :; done
case "$last" in
  *broken*) echo "gpg: decryption failed: No secret key" >&2; exit 2 ;;
esac
[ "$1" = "--batch" ] && [ "$2" = "--quiet" ] && [ "$3" = "--decrypt" ] || exit 3
cat "$last"
`
	path := filepath.Join(t.TempDir(), "gpg")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700))
	return path
}

func TestGPGDecrypt(t *testing.T) {
	gpg := NewGPG(fakeGPG(t))
	root := t.TempDir()
	writeFile(t, root, "web/github.gpg", "p1\nlogin: octo\n")

	body, err := gpg.Decrypt(context.Background(), filepath.Join(root, "web", "github.gpg"))
	require.NoError(t, err)
	defer body.Destroy()

	password, ok := body.FirstLine()
	assert.True(t, ok)
	assert.Equal(t, "p1", password)
	login, ok := body.Property("login")
	assert.True(t, ok)
	assert.Equal(t, "octo", login)
}

func TestGPGDecrypt_Failure(t *testing.T) {
	gpg := NewGPG(fakeGPG(t))
	root := t.TempDir()
	writeFile(t, root, "broken.gpg", "x")

	_, err := gpg.Decrypt(context.Background(), filepath.Join(root, "broken.gpg"))
	require.Error(t, err)

	var decErr *DecryptError
	require.True(t, errors.As(err, &decErr))
	assert.Contains(t, decErr.Stderr, "No secret key")

	var exitErr *exec.ExitError
	assert.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.ExitCode())
}

func TestGPGDecrypt_MissingBinary(t *testing.T) {
	gpg := NewGPG(filepath.Join(t.TempDir(), "no-such-gpg"))
	_, err := gpg.Decrypt(context.Background(), "whatever.gpg")
	assert.Error(t, err)
}

func TestNewGPG_DefaultBinary(t *testing.T) {
	assert.Equal(t, "gpg", NewGPG("").binary)
}
