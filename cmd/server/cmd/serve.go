package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/spf13/cobra"
	"github.com/volunteerhub/backend/internal/database"
	"github.com/volunteerhub/backend/internal/metrics"
	"github.com/volunteerhub/backend/internal/server"
	"github.com/volunteerhub/backend/internal/storage"
	"github.com/volunteerhub/backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	metrics.Init(Version)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if _, err := database.SeedAdmin(db, cfg.Admin); err != nil {
		return fmt.Errorf("seeding admin failed: %w", err)
	}

	objectStore, err := storage.NewObjectStore(cfg.MinIO)
	if err != nil {
		return fmt.Errorf("object store initialization failed: %w", err)
	}
	bucketCtx, cancel := ctx, context.CancelFunc(func() {})
	if cfg.MinIO.Timeout > 0 {
		bucketCtx, cancel = context.WithTimeout(ctx, cfg.MinIO.Timeout)
	}
	err = objectStore.EnsureBucket(bucketCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed ensuring bucket: %w", err)
	}

	if cfg.Cookie.EncryptionKey == "" {
		cfg.Cookie.EncryptionKey = encryptcookie.GenerateKey()
		logger.Warn("cookie_key_generated", map[string]interface{}{
			"hint": "set COOKIE_ENCRYPTION_KEY so sessions survive restarts",
		})
	}

	app := server.New(server.Dependencies{
		Config:  cfg,
		DB:      db,
		Media:   storage.WithTimeout(objectStore, cfg.MinIO.Timeout),
		Version: Version,
	})

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server_starting", map[string]interface{}{
		"port":          cfg.Server.Port,
		"address":       listenAddr,
		"body_limit_mb": cfg.Server.BodyLimitMB,
		"version":       Version,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("server_shutdown", map[string]interface{}{"signal": sig.String()})
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("server_shutdown_failed", err, nil)
		}
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
