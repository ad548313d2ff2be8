// Package passsync runs one reconciliation of a password store against the
// login-sync service.
//
// A run lists and decrypts every secret, extracts the logins, picks the
// sync-account credential, resolves the filter mode and then, unless the mode
// is conflicting, authenticates, fetches the remote logins, plans the upload or
// the deletion, reports it and submits it. Network calls are strictly
// sequential: authenticate, fetch, then one put or delete batch.
package passsync
