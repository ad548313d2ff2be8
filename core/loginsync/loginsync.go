package loginsync

import (
	"context"
	"errors"

	"pass-fxa/core/reconcile"
)

var (
	// ErrAuthFailed is returned when the service rejects the account credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrAccountExists is returned when creating an account whose username is taken.
	ErrAccountExists = errors.New("account already exists")

	// ErrUnknownLogin is returned when an update targets an id the account does not own.
	ErrUnknownLogin = errors.New("unknown login id")
)

// Client is an authenticated session on one account's login collection.
type Client interface {
	// FetchLogins returns the account's logins in snapshot order.
	FetchLogins(ctx context.Context) ([]reconcile.RemoteLogin, error)
	// PutLogins applies create and update jobs as one batch.
	PutLogins(ctx context.Context, jobs []reconcile.Job) error
	// DeleteLogins removes the logins with the given ids as one batch.
	DeleteLogins(ctx context.Context, ids []string) error
}

// Dialer opens authenticated sessions.
type Dialer interface {
	// Authenticate signs in and returns a Client for the account.
	Authenticate(ctx context.Context, username, password string) (Client, error)
}

// AccountCreator provisions accounts on backends that store them.
type AccountCreator interface {
	CreateAccount(ctx context.Context, username, password string) error
}

var _ reconcile.Mutator = Client(nil)
