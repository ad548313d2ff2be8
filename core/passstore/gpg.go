package passstore

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// DecryptError reports a failed decryption.
type DecryptError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *DecryptError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("failed to decrypt %s: %v: %s", e.Path, e.Err, e.Stderr)
	}
	return fmt.Sprintf("failed to decrypt %s: %v", e.Path, e.Err)
}

func (e *DecryptError) Unwrap() error {
	return e.Err
}

// GPG decrypts secrets by running the gpg binary. Calls are serialized.
type GPG struct {
	binary string
	mu     sync.Mutex
}

// NewGPG creates a decryption context for the given gpg executable.
func NewGPG(binary string) *GPG {
	if binary == "" {
		binary = "gpg"
	}
	return &GPG{binary: binary}
}

// Decrypt decrypts the file at path.
func (g *GPG) Decrypt(ctx context.Context, path string) (*Plaintext, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.binary, "--batch", "--quiet", "--decrypt", path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		clear(stdout.Bytes())
		return nil, &DecryptError{
			Path:   path,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return NewPlaintext(stdout.Bytes()), nil
}
