package reconcile

import (
	"context"
	"fmt"
)

// loginKey identifies a login by username and normalized hostname.
type loginKey struct {
	username string
	hostname string
}

// PlanUpload diffs eligible local logins against the remote snapshot.
//
// For each local login the first remote login with the same username and
// hostname, in snapshot order, is its counterpart. Missing counterparts produce
// create jobs, counterparts with another password produce update jobs, and equal
// passwords produce nothing. Later remote logins sharing a counterpart's username
// and hostname are reported in DuplicateIDs and otherwise ignored.
func PlanUpload(eligible []LocalLogin, remote []RemoteLogin) *Plan {
	plan := &Plan{Jobs: []Job{}}

	index := make(map[loginKey]RemoteLogin, len(remote))
	for _, r := range remote {
		key := loginKey{username: r.Username, hostname: normalizeHostname(r.Hostname)}
		if _, exists := index[key]; exists {
			plan.DuplicateIDs = append(plan.DuplicateIDs, r.ID)
			plan.Summary.Duplicates++
			continue
		}
		index[key] = r
	}

	for _, local := range eligible {
		r, found := index[loginKey{username: local.Username, hostname: local.Hostname()}]
		switch {
		case !found:
			plan.Jobs = append(plan.Jobs, Job{
				Type:     JobCreate,
				Username: local.Username,
				Password: local.Password,
				Hostname: local.Hostname(),
			})
			plan.Summary.Creates++
		case r.Password == local.Password:
			plan.Summary.Unchanged++
		default:
			plan.Jobs = append(plan.Jobs, Job{
				Type:     JobUpdate,
				ID:       r.ID,
				Password: local.Password,
			})
			plan.Summary.Updates++
		}
	}

	return plan
}

// PlanDelete selects the remote logins that have a local login with the same
// username, password and hostname. A remote login whose password diverged from
// the local one is left alone.
func PlanDelete(local []LocalLogin, remote []RemoteLogin) *Plan {
	plan := &Plan{Jobs: []Job{}}

	type fullKey struct {
		loginKey
		password string
	}
	known := make(map[fullKey]struct{}, len(local))
	for _, l := range local {
		known[fullKey{
			loginKey: loginKey{username: l.Username, hostname: l.Hostname()},
			password: l.Password,
		}] = struct{}{}
	}

	for _, r := range remote {
		key := fullKey{
			loginKey: loginKey{username: r.Username, hostname: normalizeHostname(r.Hostname)},
			password: r.Password,
		}
		if _, ok := known[key]; !ok {
			continue
		}
		plan.Jobs = append(plan.Jobs, Job{Type: JobDelete, ID: r.ID})
		plan.Summary.Deletes++
	}

	return plan
}

// ApplyPlan submits the plan's jobs: create and update jobs as one put batch,
// delete jobs as one delete batch. Empty batches are not sent.
// Returns the number of jobs submitted.
func ApplyPlan(ctx context.Context, m Mutator, plan *Plan, opts Options) (executed int, err error) {
	if opts.DryRun || plan == nil {
		return 0, nil
	}

	var (
		upserts   []Job
		deleteIDs []string
	)
	for _, job := range plan.Jobs {
		switch job.Type {
		case JobCreate, JobUpdate:
			upserts = append(upserts, job)
		case JobDelete:
			deleteIDs = append(deleteIDs, job.ID)
		default:
			return 0, fmt.Errorf("unknown job type %q", job.Type)
		}
	}

	if len(upserts) > 0 {
		if err := m.PutLogins(ctx, upserts); err != nil {
			return executed, fmt.Errorf("failed to put logins: %w", err)
		}
		executed += len(upserts)
	}

	if len(deleteIDs) > 0 {
		if err := m.DeleteLogins(ctx, deleteIDs); err != nil {
			return executed, fmt.Errorf("failed to delete logins: %w", err)
		}
		executed += len(deleteIDs)
	}

	return executed, nil
}

// normalizeHostname normalizes a remote hostname for comparison. Values that do
// not parse are compared verbatim.
func normalizeHostname(raw string) string {
	u, err := ParseHostname(raw)
	if err != nil {
		return raw
	}
	return u.String()
}
