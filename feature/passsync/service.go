package passsync

import (
	"context"
	"errors"
	"fmt"
	"io"

	"pass-fxa/core/loginsync"
	"pass-fxa/core/passstore"
	"pass-fxa/core/reconcile"

	"go.uber.org/zap"
)

// ConflictNotice is printed when both include and exclude markers are present.
const ConflictNotice = "Ambiguous settings, include & exclude both present."

// Operation selects what a run does with the remote logins.
type Operation int

const (
	// OpUpload creates and updates remote logins from the store.
	OpUpload Operation = iota
	// OpDelete removes remote logins that exactly match a local login.
	OpDelete
)

func (o Operation) String() string {
	if o == OpDelete {
		return "delete"
	}
	return "upload"
}

// SecretSource lists the secrets of a store.
type SecretSource interface {
	Secrets() ([]passstore.Secret, error)
}

// Decrypter decrypts one secret file.
type Decrypter interface {
	Decrypt(ctx context.Context, path string) (*passstore.Plaintext, error)
}

// Options controls a run.
type Options struct {
	Operation Operation
	// SecretName selects the credential secret by name, see reconcile.CredentialOptions.
	SecretName string
	// CredentialHost overrides the credential URL host.
	CredentialHost string
	// DryRun plans and reports without submitting.
	DryRun bool
}

// Result describes a finished run.
type Result struct {
	// Mode is the resolved filter mode.
	Mode reconcile.FilterMode
	// Local is the number of extracted logins, credential included.
	Local int
	// Skipped is the number of secrets without a usable login.
	Skipped int
	// Plan is nil when the run stopped on a conflicting filter mode.
	Plan *reconcile.Plan
	// Executed is the number of jobs submitted.
	Executed int
}

// Service runs reconciliations.
type Service struct {
	secrets   SecretSource
	decrypter Decrypter
	dialer    loginsync.Dialer
	logger    *zap.Logger
	out       io.Writer
	progress  *Progress
}

// NewService creates a new sync service. Reports are written to out; progress
// may be nil.
func NewService(secrets SecretSource, decrypter Decrypter, dialer loginsync.Dialer, logger *zap.Logger, out io.Writer, progress *Progress) *Service {
	return &Service{
		secrets:   secrets,
		decrypter: decrypter,
		dialer:    dialer,
		logger:    logger,
		out:       out,
		progress:  progress,
	}
}

// Run performs one reconciliation.
func (s *Service) Run(ctx context.Context, opts Options) (*Result, error) {
	logins, skipped, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}
	result := &Result{Local: len(logins), Skipped: skipped}

	cred, err := reconcile.SelectCredential(logins, reconcile.CredentialOptions{
		Host:       opts.CredentialHost,
		SecretName: opts.SecretName,
	})
	if err != nil {
		return nil, err
	}

	result.Mode = reconcile.ResolveFilterMode(logins)
	if result.Mode == reconcile.Conflicting {
		fmt.Fprintln(s.out, ConflictNotice)
		s.logger.Warn("Filter markers conflict, nothing to do")
		return result, nil
	}

	client, err := s.dialer.Authenticate(ctx, cred.Login.Username, cred.Login.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with %s: %w", cred.Login.Name, err)
	}

	remote, err := client.FetchLogins(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Fetched remote logins", zap.Int("count", len(remote)))

	switch opts.Operation {
	case OpDelete:
		result.Plan = reconcile.PlanDelete(reconcile.TrackedLogins(logins, cred), remote)
		fmt.Fprintf(s.out, "Deleting %d passwords.\n", len(result.Plan.Jobs))
	default:
		result.Plan = reconcile.PlanUpload(reconcile.EligibleLogins(logins, cred, result.Mode), remote)
		fmt.Fprintf(s.out, "Uploading %d passwords.\n", len(result.Plan.Jobs))
	}

	for _, id := range result.Plan.DuplicateIDs {
		s.logger.Warn("Ignoring duplicate remote login", zap.String("id", id))
	}
	s.logger.Debug("Planned jobs",
		zap.String("operation", opts.Operation.String()),
		zap.String("filter_mode", result.Mode.String()),
		zap.Array("jobs", reconcile.Jobs(result.Plan.Jobs)),
	)

	result.Executed, err = reconcile.ApplyPlan(ctx, client, result.Plan, reconcile.Options{DryRun: opts.DryRun})
	if err != nil {
		return result, err
	}
	if opts.DryRun {
		s.logger.Info("Dry run, no jobs submitted", zap.Int("planned", len(result.Plan.Jobs)))
	}
	return result, nil
}

// collect decrypts and extracts every secret of the store.
func (s *Service) collect(ctx context.Context) ([]reconcile.LocalLogin, int, error) {
	secrets, err := s.secrets.Secrets()
	if err != nil {
		return nil, 0, err
	}

	logins := make([]reconcile.LocalLogin, 0, len(secrets))
	skipped := 0
	for i, secret := range secrets {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		body, err := s.decrypter.Decrypt(ctx, secret.Path)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decrypt %s: %w", secret.Name, err)
		}
		login, err := reconcile.Extract(secret.Name, body)
		body.Destroy()

		switch {
		case reconcile.IsSkippable(err):
			skipped++
			s.logger.Warn("Skipping secret", zap.String("secret", secret.Name), zap.String("reason", skipReason(err)))
		case err != nil:
			return nil, 0, err
		default:
			logins = append(logins, login)
			s.logger.Debug("Decrypted secret", zap.String("secret", secret.Name))
		}
		s.progress.Step(i+1, len(secrets))
	}
	s.progress.Finish(len(secrets))

	return logins, skipped, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, reconcile.ErrNoPassword):
		return reconcile.ErrNoPassword.Error()
	case errors.Is(err, reconcile.ErrNoHostname):
		return reconcile.ErrNoHostname.Error()
	default:
		return err.Error()
	}
}
