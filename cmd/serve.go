package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pass-fxa/core/loader"
	"pass-fxa/core/logger"
	"pass-fxa/core/middleware/auth"
	"pass-fxa/core/middleware/rayid"
	"pass-fxa/feature/logins"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "pass-fxa/docs/swagger"
)

// @title pass-fxa login-sync API
// @version 1.0
// @description Login-sync service backed by the configured database.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var sessionTTL time.Duration

// serveCmd runs the login-sync HTTP service that the http backend talks to.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the login-sync HTTP service",
	Long: `Serves the login-sync API on server.host:server.port, storing accounts
and logins in the configured database.

Accounts are created with "pass-fxa account add".`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&sessionTTL, "session-ttl", logins.DefaultSessionTTL, "Lifetime of a login session")
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, l, err := loadConfig()
	if err != nil {
		return err
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)

	store, closeDB, err := openSQLStore(cfg, l)
	if err != nil {
		return err
	}
	defer closeDB()
	l.Info("Connected to login database", zap.String("driver", cfg.Database.Driver))

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	mgr := loader.NewManager()
	mgr.Register(logins.NewFeature(store, l, sessionTTL))

	// RayID first so every later log line carries it.
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		rl := logger.WithRayID(l, c)
		rl.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			rl.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1", auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))
	loaded, err := mgr.LoadAll(api)
	if err != nil {
		return err
	}
	l.Info("Features loaded", zap.Strings("features", loaded))

	errCh := make(chan error, 1)
	go func() {
		l.Info("Starting server", zap.String("address", cfg.Server.Address()))
		errCh <- app.Listen(cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

const shutdownTimeout = 10 * time.Second
