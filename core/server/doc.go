// Package server holds the HTTP server configuration.
//
// The serve command binds to Address() and protects the API with ApiKey when
// it is set.
package server
