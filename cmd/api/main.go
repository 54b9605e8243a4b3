package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/umeloans/lead-capture/internal/config"
	"github.com/umeloans/lead-capture/internal/infra/auth"
	"github.com/umeloans/lead-capture/internal/infra/database"
	"github.com/umeloans/lead-capture/internal/infra/http/handlers"
	"github.com/umeloans/lead-capture/internal/infra/http/middleware"
	"github.com/umeloans/lead-capture/internal/infra/integration/salesforce"
	"github.com/umeloans/lead-capture/internal/infra/mail"
	"github.com/umeloans/lead-capture/internal/infra/queue"
	"github.com/umeloans/lead-capture/internal/infra/ratelimit"
	"github.com/umeloans/lead-capture/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Database
	sqlDB, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer sqlDB.Close()

	gormDB, err := database.OpenGorm(sqlDB, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open ORM")
	}
	if err := database.Migrate(gormDB); err != nil {
		logger.WithError(err).Fatal("Failed to migrate schema")
	}
	store := database.NewStore(gormDB)

	// 2. CRM sync
	crm := salesforce.NewClient(cfg.CRM.URL, cfg.CRM.Token, cfg.CRM.Timeout, logger)
	syncLead := usecase.NewSyncLeadUseCase(store, crm, logger)
	syncLead.OnFailure = middleware.RecordIntegrationError

	var (
		dispatcher usecase.LeadSyncDispatcher
		direct     *usecase.DirectDispatcher
		rabbit     *queue.RabbitMQ
	)
	switch cfg.CRM.SyncMode {
	case config.CRMSyncQueue:
		rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to RabbitMQ")
		}
		defer rabbit.Close()

		dispatcher = queue.NewProducer(rabbit.Ch)
		worker := queue.NewWorker(rabbit.Ch, syncLead, logger)
		go func() {
			if err := worker.Start(ctx, queue.QueueName); err != nil {
				logger.WithError(err).Error("Lead sync worker stopped")
			}
		}()
	default:
		direct = usecase.NewDirectDispatcher(syncLead, cfg.CRM.Timeout+5*time.Second)
		dispatcher = direct
	}

	// 3. Optional collaborators
	var mailer usecase.OTPSender
	if cfg.Mail.Host != "" {
		mailer = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	} else {
		logger.Warn("MAIL_HOST not set, OTP codes will not be emailed")
	}

	var limiter ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		limiter = ratelimit.NewRedis(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	} else {
		mem := ratelimit.NewMemory(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		defer mem.Stop()
		limiter = mem
	}

	var (
		tokenIssuer usecase.ApplicationTokenIssuer
		authMW      *middleware.AuthMiddleware
	)
	if cfg.JWT.Secret != "" {
		tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
		if err != nil {
			logger.WithError(err).Fatal("Failed to build token service")
		}
		tokenIssuer = tokens
		authMW = middleware.NewAuthMiddleware(tokens, logger)
	}

	// 4. Use cases
	otp := usecase.NewOTPIssuer(cfg.OTP.Length, cfg.OTP.TTL, cfg.OTP.HashCost)
	production := cfg.IsProduction()

	submitLead := usecase.NewSubmitLeadUseCase(store, otp, mailer, dispatcher, logger, production)
	verifyOTP := usecase.NewVerifyOTPUseCase(store, otp, tokenIssuer, cfg.OTP.MaxAttempts, logger)
	resendOTP := usecase.NewResendOTPUseCase(store, otp, mailer, logger, production)
	getLead := usecase.NewGetLeadUseCase(store)

	// 5. Handlers
	health := handlers.NewHealthHandler(store, crm.Configured())
	if rabbit != nil {
		health.RabbitMQ = rabbit
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Lead:           handlers.NewLeadHandler(submitLead, getLead, limiter, logger),
		OTP:            handlers.NewOTPHandler(verifyOTP, resendOTP, limiter, logger),
		Health:         health,
		Auth:           authMW,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":      cfg.Port,
			"env":       cfg.Env,
			"crm_sync":  cfg.CRM.SyncMode,
			"rate_mode": limiterMode(cfg),
		}).Info("Lead capture API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
	if direct != nil {
		direct.Wait()
	}
	logger.Info("Server stopped")
}

func limiterMode(cfg *config.Config) string {
	if cfg.Redis.Addr != "" {
		return "redis"
	}
	return "memory"
}
