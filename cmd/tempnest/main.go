package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tempnest/tempnest/internal/database"
	"github.com/tempnest/tempnest/internal/logging"
	"github.com/tempnest/tempnest/internal/server"
	"github.com/tempnest/tempnest/internal/upload"
)

func main() {
	logger := logging.Setup(os.Getenv("TEMPNEST_LOG_LEVEL"))

	port := os.Getenv("TEMPNEST_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("TEMPNEST_DB_PATH")
	if dbPath == "" {
		dbPath = "tempnest.db"
	}

	baseURL := os.Getenv("TEMPNEST_BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%s", port)
	}

	jwtSecret := os.Getenv("TEMPNEST_JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-change-me"
		slog.Warn("TEMPNEST_JWT_SECRET not set, using insecure development secret")
	}

	db, err := database.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg := server.Config{
		JWTSecret:  jwtSecret,
		CORSOrigin: os.Getenv("TEMPNEST_CORS_ORIGIN"),
	}

	// Photos go to S3 when a bucket is configured, local disk otherwise.
	if bucket := os.Getenv("TEMPNEST_S3_BUCKET"); bucket != "" {
		cfg.UploadStore = upload.NewS3Store(upload.S3Config{
			Endpoint:  os.Getenv("TEMPNEST_S3_ENDPOINT"),
			Bucket:    bucket,
			Region:    os.Getenv("TEMPNEST_S3_REGION"),
			AccessKey: os.Getenv("TEMPNEST_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("TEMPNEST_S3_SECRET_KEY"),
			PublicURL: os.Getenv("TEMPNEST_S3_PUBLIC_URL"),
		})
	} else {
		uploadDir := os.Getenv("TEMPNEST_UPLOAD_DIR")
		if uploadDir == "" {
			uploadDir = "uploads"
		}
		cfg.UploadDir = uploadDir
		cfg.UploadStore = upload.NewDirStore(uploadDir, baseURL+"/uploads")
	}

	srv := server.New(db, cfg, logger)

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Background cleanup goroutine
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		slog.Info("tempnest starting", "addr", ":"+port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
