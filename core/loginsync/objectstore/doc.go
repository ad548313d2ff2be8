// Package objectstore implements the login-sync service on S3 compatible
// object storage.
//
// Each account is a key prefix holding one JSON document per object:
//
//	<prefix>/<username>/account.json
//	<prefix>/<username>/logins/<id>.json
//
// Usernames are path escaped. Update targets are read before anything is
// written, so a batch naming an unknown login writes nothing. Object storage has
// no transactions: a write failure part way through a batch leaves the objects
// already written in place.
package objectstore
