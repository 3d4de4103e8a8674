package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mahek9015/community-learning-hub/internal/aggregator"
	"github.com/mahek9015/community-learning-hub/internal/api"
	"github.com/mahek9015/community-learning-hub/internal/auth"
	"github.com/mahek9015/community-learning-hub/internal/config"
	"github.com/mahek9015/community-learning-hub/internal/db"
	"github.com/mahek9015/community-learning-hub/internal/logger"
	"github.com/mahek9015/community-learning-hub/internal/mailer"
	"github.com/mahek9015/community-learning-hub/internal/metrics"
	repo "github.com/mahek9015/community-learning-hub/internal/repository"
	"github.com/mahek9015/community-learning-hub/internal/repository/memory"
	"github.com/mahek9015/community-learning-hub/internal/repository/postgres"
	"github.com/mahek9015/community-learning-hub/internal/services"
	"github.com/mahek9015/community-learning-hub/internal/worker"
)

type repositories struct {
	Users     repo.Users
	Ledger    repo.Ledger
	Contents  repo.Contents
	AuditLogs repo.AuditLogs
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repos repositories
	switch cfg.Storage {
	case "memory":
		m := memory.NewRepositories()
		repos = repositories{Users: m.Users, Ledger: m.Ledger, Contents: m.Contents, AuditLogs: m.AuditLogs}
	default:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("db connect", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if os.Getenv("APP_MIGRATE") == "true" {
			if err := db.RunMigrations(ctx, pool); err != nil {
				log.Error("migrations", "err", err)
				os.Exit(1)
			}
		}
		p := postgres.NewRepositories(pool)
		repos = repositories{Users: p.Users, Ledger: p.Ledger, Contents: p.Contents, AuditLogs: p.AuditLogs}
	}

	metrics.Init()
	wp := worker.NewPool(4)
	defer wp.Stop()

	var mail mailer.Sender = mailer.Nop{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer,
		15*time.Minute, 7*24*time.Hour)

	userSvc := services.NewUserService(repos.Users, tm, mail, wp, cfg)
	creditSvc := services.NewCreditService(repos.Ledger, repos.Contents, repos.Users)
	gateSvc := services.NewGateService(creditSvc, repos.Contents, repos.Users, mail, wp)
	contentSvc := services.NewContentService(repos.Contents, creditSvc, repos.AuditLogs)

	agg := aggregator.New(
		[]aggregator.Fetcher{aggregator.NewRedditFetcher(cfg.Subreddits)},
		repos.Contents, wp, aggregator.PricingPolicy(cfg.PremiumPricing), cfg.AggregateEvery, log,
	)
	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		agg.Run(ctx)
	}()

	r := api.NewRouter(api.RouterDeps{
		Cfg:        cfg,
		TM:         tm,
		UserSvc:    userSvc,
		CreditSvc:  creditSvc,
		ContentSvc: contentSvc,
		GateSvc:    gateSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	// the aggregator submits to the pool; join it before the deferred
	// wp.Stop closes the job channel
	<-aggDone
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
