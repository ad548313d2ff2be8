// Package sqlstore implements the login-sync service on a SQL database.
//
// Accounts live in the "accounts" table, each with a bcrypt password hash.
// Logins live in the "logins" table, keyed by a UUID and owned by an account.
// The snapshot order returned by FetchLogins is creation time, then id.
//
// Put and delete batches each run in one transaction: either every job of a
// batch is applied or none is.
package sqlstore
