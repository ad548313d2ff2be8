package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPassword is returned by Extract when the secret has no password line.
	ErrNoPassword = errors.New("secret has no password line")

	// ErrNoHostname is returned by Extract when the secret has no URL property and
	// sits at the top of the store, so no hostname can be synthesized.
	ErrNoHostname = errors.New("secret has no url property and no parent directory")

	// ErrCredentialsNotFound is returned when no sync-account credential exists.
	ErrCredentialsNotFound = errors.New("could not find sync account credentials")
)

// UnknownFilterError reports a filter marker other than "include" or "exclude".
type UnknownFilterError struct {
	Secret string
	Value  string
}

func (e *UnknownFilterError) Error() string {
	if e.Secret == "" {
		return fmt.Sprintf("unknown %s setting %q", FilterProperty, e.Value)
	}
	return fmt.Sprintf("%s: unknown %s setting %q", e.Secret, FilterProperty, e.Value)
}

// InvalidURLError reports a URL property that is not an absolute URL.
type InvalidURLError struct {
	Secret string
	Value  string
	Err    error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("%s: invalid url %q: %v", e.Secret, e.Value, e.Err)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Err
}

// CredentialCandidate identifies one possible sync-account credential.
type CredentialCandidate struct {
	Name     string
	Username string
}

// AmbiguousCredentialsError is returned when several secrets could hold the
// sync-account credential and no secret name was given to choose between them.
type AmbiguousCredentialsError struct {
	Candidates []CredentialCandidate
}

func (e *AmbiguousCredentialsError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		names = append(names, c.Name)
	}
	return fmt.Sprintf("ambiguous sync account credentials: %s", strings.Join(names, ", "))
}

// IsSkippable reports whether an Extract error means the secret should be skipped
// rather than aborting the run.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrNoPassword) || errors.Is(err, ErrNoHostname)
}
