package cmd

import (
	"context"
	"fmt"
	"os"

	"pass-fxa/core/config"
	"pass-fxa/core/logger"
	"pass-fxa/core/loginsync"
	"pass-fxa/core/passstore"
	"pass-fxa/feature/passsync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadConfig loads and validates the configuration and builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// runSync wires the store, the gpg context and the configured backend into one
// reconciliation run.
func runSync(cmd *cobra.Command, op passsync.Operation) error {
	ctx := cmd.Context()

	cfg, l, err := loadConfig()
	if err != nil {
		return err
	}
	defer l.Sync()

	store, err := passstore.Open(cfg.Store)
	if err != nil {
		return err
	}
	l.Debug("Opened password store", zap.String("root", store.Root()))

	// The backend is only built once a credential has been selected.
	dialer := loginsync.NewLazyDialer(func(ctx context.Context) (loginsync.Dialer, func(), error) {
		return newDialer(ctx, cfg, l)
	})
	defer dialer.Close()

	svc := passsync.NewService(
		store,
		passstore.NewGPG(cfg.Store.GPGBinary),
		dialer,
		l,
		cmd.OutOrStdout(),
		passsync.NewProgress(os.Stderr, l),
	)

	result, err := svc.Run(ctx, passsync.Options{
		Operation:      op,
		SecretName:     passName,
		CredentialHost: cfg.Sync.CredentialHost,
		DryRun:         dryRun,
	})
	if err != nil {
		return err
	}

	l.Info("Sync finished",
		zap.String("operation", op.String()),
		zap.String("filter_mode", result.Mode.String()),
		zap.Int("local", result.Local),
		zap.Int("skipped", result.Skipped),
		zap.Int("executed", result.Executed),
	)
	return nil
}
