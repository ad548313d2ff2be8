package loginsync

import "pass-fxa/core/reconcile"

// Wire types of the HTTP login-sync API served by "pass-fxa serve".

// SessionRequest is the body of POST /api/v1/sessions.
type SessionRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse carries the bearer token of a new session.
type SessionResponse struct {
	Token string `json:"token"`
}

// PutRequest is the body of PUT /api/v1/logins.
type PutRequest struct {
	Jobs []reconcile.Job `json:"jobs"`
}

// PutResponse reports how many jobs were applied.
type PutResponse struct {
	Applied int `json:"applied"`
}

// DeleteRequest is the body of POST /api/v1/logins/delete.
type DeleteRequest struct {
	IDs []string `json:"ids"`
}

// DeleteResponse reports how many ids were submitted for deletion.
type DeleteResponse struct {
	Deleted int `json:"deleted"`
}

// ErrorResponse is the body of every non 2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
