// Package reconcile decides which changes a run pushes to the login-sync service.
//
// It turns decrypted password-store entries into local logins, folds their filter
// markers into one run-wide policy, picks the local login that authenticates to the
// sync service, and diffs local logins against the remote snapshot.
//
// # Components
//
//  1. Extract: builds a LocalLogin from a secret name and its decrypted body.
//  2. FilterMode: the fold of every login's filter marker (NoFilter, IncludeOnly,
//     ExcludeOnly, Conflicting) and the eligibility rule derived from it.
//  3. SelectCredential: finds the sync-account credential, either by secret name or by
//     the credential host convention.
//  4. PlanUpload: create and update jobs for eligible logins.
//  5. PlanDelete: delete jobs for remote logins identical to a local login.
//
// Plans are applied in two batches at most (one put, one delete) through a Mutator.
//
// # Usage Example
//
//	mode := reconcile.ResolveFilterMode(logins)
//	cred, err := reconcile.SelectCredential(logins, reconcile.CredentialOptions{})
//	if err != nil {
//	    return err
//	}
//	plan := reconcile.PlanUpload(reconcile.EligibleLogins(logins, cred, mode), remote)
//	executed, err := reconcile.ApplyPlan(ctx, client, plan, reconcile.Options{})
//
// Nothing in this package keeps state between runs; every plan is computed from the
// snapshots it is given.
package reconcile
