// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

// Command api is the entry point for the Acceleott HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the relational store selected by DATABASE_URL and migrate it.
//  4. Connect to Redis when REDIS_URL is set.
//  5. Configure outbound mail.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acceleott/acceleott/internal/api"
	"github.com/acceleott/acceleott/internal/marketing/contact"
	"github.com/acceleott/acceleott/internal/marketing/demo"
	"github.com/acceleott/acceleott/internal/platform/config"
	"github.com/acceleott/acceleott/internal/platform/constants"
	"github.com/acceleott/acceleott/internal/platform/logger"
	"github.com/acceleott/acceleott/internal/platform/mail"
	redisstore "github.com/acceleott/acceleott/internal/platform/redis"
	"github.com/acceleott/acceleott/internal/platform/sec"
	"github.com/acceleott/acceleott/internal/users/auth"
)

func main() {
	startedAt := time.Now()

	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := logger.New(logger.Options{App: constants.AppName, Version: constants.AppVersion})
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	log = logger.New(logger.Options{
		App:     constants.AppName,
		Version: constants.AppVersion,
		Env:     cfg.Environment,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Debug:   cfg.Debug,
	})
	log.Debug("debug_logging_enabled")

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("mail_provider", cfg.MailProvider),
	)

	// rootCtx lives until shutdown and bounds background goroutines.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Use a deadline so misconfiguration is caught quickly rather than hanging.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, constants.StartupTimeout)
	defer startupCancel()

	// ── 3. Relational Store ───────────────────────────────────────────────
	store, err := openStorage(startupCtx, cfg, log)
	must(log, err, "open database")
	defer store.close()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var throttle auth.ResendThrottle
	var checkCache func(ctx context.Context) error

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		cooldown := redisstore.NewCooldown(rdb, constants.RedisPrefixResendCooldown, cfg.ResendCooldown)
		throttle = auth.NewResendThrottle(cooldown)
		checkCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	} else {
		log.Warn("redis_not_configured", slog.String("effect", "verification resend cooldown disabled"))
	}

	// ── 5. Mail ───────────────────────────────────────────────────────────
	mailer, err := mail.New(mail.Settings{
		Provider:     cfg.MailProvider,
		From:         cfg.MailFrom,
		Timeout:      cfg.MailTimeout,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUsername: cfg.SMTPUsername,
		SMTPPassword: cfg.SMTPPassword,
		ResendAPIKey: cfg.ResendAPIKey,
	}, log)
	must(log, err, "configure mail")

	// ── 6. Security ───────────────────────────────────────────────────────
	sessions := sec.NewSessionIssuer(cfg.SessionSecret, constants.AuthIssuer, constants.SessionTTL)
	tokens := sec.NewVerificationTokens(constants.VerificationTokenBytes, constants.VerificationTokenTTL)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		DatabaseName:  string(store.driver),
		CheckDatabase: store.ping,
		CheckCache:    checkCache,
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(store.accounts, tokens, sessions, mailer, auth.Settings{
		APIBaseURL:      cfg.APIBaseURL,
		AdminEmail:      cfg.AdminEmail,
		VerificationTTL: constants.VerificationTokenTTL,
	})
	if throttle != nil {
		authService = authService.WithResendThrottle(throttle)
	}
	authHandler := auth.NewHandler(authService, auth.HandlerSettings{
		FrontendURL:  cfg.FrontendURL,
		SecureCookie: cfg.CookieSecure(),
	})

	demoService := demo.NewService(store.demos, mailer, cfg.AdminEmail)
	demoHandler := demo.NewHandler(demoService, cfg.Environment)

	contactService := contact.NewService(mailer, cfg.ContactRecipient())
	contactHandler := contact.NewHandler(contactService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Root:      api.NewRootHandler(startedAt, time.Now),
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Demo:      demoHandler,
		Contact:   contactHandler,
	}

	server := api.NewServer(rootCtx, cfg, log, sessions, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		rootCancel()
		store.close()
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
