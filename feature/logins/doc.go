// Package logins exposes a SQL login collection over HTTP.
//
// It is the server side of the "http" login-sync backend. A client opens a
// session with the account credentials and then reads and changes the account's
// logins with the session's bearer token.
//
// # Routes
//
//   - POST /sessions: open a session, returns a bearer token
//   - GET /logins: list the account's logins in snapshot order
//   - PUT /logins: apply a batch of create and update jobs
//   - POST /logins/delete: delete a batch of logins by id
//
// Sessions are kept in memory and end when the server stops or after the
// configured lifetime.
package logins
