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

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/care-marketplace/internal/audit"
	"github.com/BruksfildServices01/care-marketplace/internal/auth"
	"github.com/BruksfildServices01/care-marketplace/internal/config"
	dbpkg "github.com/BruksfildServices01/care-marketplace/internal/db"
	"github.com/BruksfildServices01/care-marketplace/internal/infra/payment"
	"github.com/BruksfildServices01/care-marketplace/internal/infra/storage"
	"github.com/BruksfildServices01/care-marketplace/internal/jobs"
	"github.com/BruksfildServices01/care-marketplace/internal/logger"
	"github.com/BruksfildServices01/care-marketplace/internal/metrics"
	"github.com/BruksfildServices01/care-marketplace/internal/middleware"
	"github.com/BruksfildServices01/care-marketplace/internal/notify"
	"github.com/BruksfildServices01/care-marketplace/internal/routes"
	"github.com/BruksfildServices01/care-marketplace/internal/session"
	"github.com/BruksfildServices01/care-marketplace/internal/validators"
)

func main() {
	// .env é opcional; em produção as variáveis vêm do ambiente.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", logger.Err(err))
		os.Exit(1)
	}

	log := logger.Setup(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	if cfg.Env == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Error("database unavailable", logger.Err(err))
		os.Exit(1)
	}

	// ======================================================
	// SESSÕES
	// ======================================================
	var sessions session.Store = session.NewMemoryStore()
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Error("redis unavailable", logger.Err(err))
			os.Exit(1)
		}
		sessions = session.NewRedisStore(rdb)
	}

	authSvc := auth.NewService(
		db,
		sessions,
		auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		log,
		auth.WithEmailDomainCheck(validators.IsEmailDomainValid),
	)

	if cfg.Admin.Enabled() {
		created, err := authSvc.EnsureAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Error("admin seed failed", logger.Err(err))
			os.Exit(1)
		}
		if created {
			log.Info("admin user created", slog.String("email", cfg.Admin.Email))
		}
	}

	// ======================================================
	// WORKERS
	// ======================================================
	auditDispatcher := audit.NewDispatcher(audit.New(db, log), log)
	defer auditDispatcher.Close()

	var mailer notify.Mailer
	if cfg.SMTP.Enabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTP)
	}
	notifyDispatcher := notify.NewDispatcher(db, mailer, log)
	defer notifyDispatcher.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	scheduler := cron.New()
	if err := jobs.Schedule(scheduler, cfg.StatsSchedule, jobs.NewStatsJob(db, collector, log)); err != nil {
		log.Error("invalid stats schedule", slog.String("spec", cfg.StatsSchedule), logger.Err(err))
		os.Exit(1)
	}
	scheduler.Start()

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMin, 5*time.Minute)
	defer loginLimiter.Stop()

	deps := routes.Deps{
		Auth:       authSvc,
		Audit:      auditDispatcher,
		Notify:     notifyDispatcher,
		Metrics:    collector,
		LoginLimit: loginLimiter,
		Log:        log,
	}

	if cfg.S3.Enabled() {
		deps.Storage = storage.NewS3Store(cfg.S3)
	} else {
		log.Warn("S3 not configured, photo upload disabled")
	}

	if cfg.Payment.Enabled() {
		mp, err := payment.NewMercadoPago(cfg.Payment)
		if err != nil {
			log.Error("payment gateway unavailable", logger.Err(err))
			os.Exit(1)
		}
		deps.Payments = mp
	} else {
		log.Warn("Mercado Pago not configured, checkout disabled")
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, db, cfg, deps)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server running", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server listen error", logger.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	<-stop
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", logger.Err(err))
	}

	<-scheduler.Stop().Done()
	log.Info("server stopped")
}
