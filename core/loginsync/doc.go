// Package loginsync defines the login-sync service used as the remote side of a
// reconciliation.
//
// A Dialer authenticates an account and returns a Client bound to that
// account's login collection. Three backends implement the contract:
//
//   - sqlstore: accounts and logins in a SQL database (MySQL or SQLite)
//   - objectstore: accounts and logins as JSON objects in an S3 compatible bucket
//   - httpclient: the HTTP API served by "pass-fxa serve"
//
// The backend is chosen with the sync.backend configuration key.
package loginsync
