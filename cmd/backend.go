package cmd

import (
	"context"
	"fmt"

	"pass-fxa/core/config"
	"pass-fxa/core/database"
	"pass-fxa/core/loginsync"
	"pass-fxa/core/loginsync/httpclient"
	"pass-fxa/core/loginsync/objectstore"
	"pass-fxa/core/loginsync/sqlstore"
	"pass-fxa/core/storage"

	"go.uber.org/zap"
)

// newDialer builds the login-sync backend selected by sync.backend. The
// returned func releases its resources.
func newDialer(ctx context.Context, cfg *config.Config, l *zap.Logger) (loginsync.Dialer, func(), error) {
	noop := func() {}
	l = l.With(zap.String("backend", cfg.Sync.Backend))

	switch cfg.Sync.Backend {
	case loginsync.BackendSQL:
		store, closeDB, err := openSQLStore(cfg, l)
		if err != nil {
			return nil, noop, err
		}
		return store, closeDB, nil

	case loginsync.BackendS3:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, noop, err
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, noop, err
		}
		return objectstore.New(client, cfg.Storage.Bucket, cfg.Sync.Prefix, l), noop, nil

	case loginsync.BackendHTTP:
		return httpclient.New(cfg.Sync, nil, l), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown sync backend %q", cfg.Sync.Backend)
	}
}

// openSQLStore connects to the database and creates the login tables if needed.
func openSQLStore(cfg *config.Config, l *zap.Logger) (*sqlstore.Store, func(), error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	store := sqlstore.New(db, l)
	if err := store.Migrate(); err != nil {
		closeDB()
		return nil, nil, err
	}
	if err := store.VerifySchema(); err != nil {
		closeDB()
		return nil, nil, err
	}
	return store, closeDB, nil
}
