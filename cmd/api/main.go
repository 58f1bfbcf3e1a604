package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/artbucket-io/artbucket/internal/api"
	"github.com/artbucket-io/artbucket/internal/auth"
	"github.com/artbucket-io/artbucket/internal/cleanup"
	"github.com/artbucket-io/artbucket/internal/config"
	"github.com/artbucket-io/artbucket/internal/database"
	"github.com/artbucket-io/artbucket/internal/logging"
	"github.com/artbucket-io/artbucket/internal/mail"
	"github.com/artbucket-io/artbucket/internal/storage"
	"github.com/artbucket-io/artbucket/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.NewDefault()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.RunMigrations(ctx, db, cfg.Database.Type); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	st := store.New(db)
	sessions := auth.NewSessions(st, cfg.SessionTTL(), cfg.Session.CookieName, cfg.Session.Secure)
	tokens := auth.NewTokenManager(cfg.Auth.TokenSecret)

	uploader, err := storage.NewClient(
		cfg.Storage.Endpoint, cfg.Storage.Region, cfg.Storage.Bucket,
		cfg.Storage.AccessKey, cfg.Storage.SecretKey,
	)
	if err != nil {
		log.Fatalf("failed to create storage client: %v", err)
	}

	mailer := mail.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From)

	worker := cleanup.NewWorker(st, uploader, logger, cfg.CleanupInterval(), cfg.Cleanup.MaxAttempts, cfg.Cleanup.BatchSize)
	go worker.Run(ctx)

	app := api.NewApi(cfg, st, sessions, tokens, mailer, uploader, logger)
	if err := app.Serve(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
