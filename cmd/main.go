/*
Package main is the entry point for the karmashare server.

It loads configuration, initializes the global logger, wires the share-token
codec, issuance and verification services, the profile resolver, and the
optional revocation and audit stores, then runs the HTTP server until an
operating system interrupt triggers a graceful shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"karmashare/internal/configs"
	"karmashare/internal/handler"
	"karmashare/internal/pkg/logx"
	"karmashare/internal/profile"
	"karmashare/internal/share"
	"karmashare/internal/store"
	"karmashare/internal/upstream"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("upstream_url", cfg.UpstreamURL).
		Bool("revocations_redis", cfg.RedisAddr != "").
		Bool("audit_enabled", cfg.DatabaseDSN != "").
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Revocation store: Redis when configured, in-process fallback otherwise.
	var revocations store.Revocations
	if cfg.RedisAddr != "" {
		redisRevocations, err := store.NewRedisRevocations(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logx.Fatal(err, "Failed to connect to Redis revocation store")
		}
		revocations = redisRevocations
	} else {
		revocations = store.NewMemoryRevocations(5 * time.Minute)
	}
	defer revocations.Close()

	// Issuance audit log, only when a database is configured.
	var audit store.AuditLog
	if cfg.DatabaseDSN != "" {
		pool, err := store.NewPool(cfg.DatabaseDSN)
		if err != nil {
			logx.Fatal(err, "Failed to initialize audit database")
		}
		audit = store.NewPostgresAudit(pool)
		defer audit.Close()
	}

	upstreamClient := upstream.NewClient(upstream.Config{
		BaseURL:   cfg.UpstreamURL,
		OAuthURL:  cfg.UpstreamOAuthURL,
		UserAgent: cfg.UserAgent,
	})

	codec := share.NewCodec(cfg.ShareSecret)

	deps := &handler.AppDeps{
		Config:      cfg,
		Issuer:      share.NewIssuer(codec, cfg.BaseURL, audit),
		Verifier:    share.NewVerifier(codec, revocations),
		Resolver:    profile.NewResolver(upstreamClient),
		Upstream:    upstreamClient,
		Revocations: revocations,
		Audit:       audit,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("karmashare server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
