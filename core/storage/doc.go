// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so the S3 login-sync
// backend can run against AWS S3, a self-hosted MinIO, or the testify mock in
// core/storage/mocks.
//
// # Operations
//
//   - BucketExists / MakeBucket: used by EnsureBucket on startup.
//   - PutObject / GetObject: read and write single JSON documents.
//   - ListObjects: enumerate an account's logins by prefix.
//   - RemoveObjects: delete a batch of logins in one call.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
