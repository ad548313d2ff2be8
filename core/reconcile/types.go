package reconcile

import (
	"context"
	"net/url"
)

// LocalLogin is a login extracted from one decrypted secret.
type LocalLogin struct {
	// Name is the hierarchical name of the secret the login came from.
	Name string

	// Username is the login name sent to the sync service.
	Username string

	// Password is the first line of the secret.
	Password string

	// URL is the normalized absolute URL of the site.
	URL *url.URL

	// Filter is the optional per-entry policy marker.
	Filter Filter
}

// Hostname returns the normalized URL in the form stored by the sync service.
func (l LocalLogin) Hostname() string {
	if l.URL == nil {
		return ""
	}
	return l.URL.String()
}

// RemoteLogin is a login record held by the sync service.
type RemoteLogin struct {
	// ID is the opaque identifier assigned by the sync service.
	ID string `json:"id"`

	// Username is the stored login name.
	Username string `json:"username"`

	// Password is the stored password.
	Password string `json:"password"`

	// Hostname is the absolute URL of the site.
	Hostname string `json:"hostname"`
}

// JobType represents the type of change sent to the sync service.
type JobType string

const (
	// JobCreate creates a new remote login.
	JobCreate JobType = "create"
	// JobUpdate replaces the password of an existing remote login.
	JobUpdate JobType = "update"
	// JobDelete removes a remote login.
	JobDelete JobType = "delete"
)

// Job is a single planned change.
// Create jobs carry Username, Password and Hostname; update jobs carry ID and
// Password; delete jobs carry ID only.
type Job struct {
	Type     JobType `json:"type"`
	ID       string  `json:"id,omitempty"`
	Username string  `json:"username,omitempty"`
	Password string  `json:"password,omitempty"`
	Hostname string  `json:"hostname,omitempty"`
}

// Plan contains the jobs produced by one reconciler pass.
type Plan struct {
	// Jobs are ordered as the reconciler produced them.
	Jobs []Job `json:"jobs"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`

	// DuplicateIDs lists remote logins ignored because an earlier remote login
	// already had the same username and hostname.
	DuplicateIDs []string `json:"duplicate_ids,omitempty"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	Creates    int `json:"creates"`
	Updates    int `json:"updates"`
	Deletes    int `json:"deletes"`
	Unchanged  int `json:"unchanged"`
	Duplicates int `json:"duplicates"`
}

// Options controls plan application.
type Options struct {
	// DryRun prevents any job from being submitted.
	DryRun bool
}

// Mutator submits planned jobs to the sync service.
type Mutator interface {
	// PutLogins submits create and update jobs as one batch.
	PutLogins(ctx context.Context, jobs []Job) error

	// DeleteLogins removes the remote logins with the given ids as one batch.
	DeleteLogins(ctx context.Context, ids []string) error
}
