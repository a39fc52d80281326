package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentry "github.com/getsentry/sentry-go"

	"promo-bot/internal/bot"
	"promo-bot/internal/config"
	"promo-bot/internal/logger"
	"promo-bot/internal/repository"
	"promo-bot/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bootstrap logger so configuration errors are visible.
	if err := logger.Initialize("info"); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("config: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		logger.Log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			logger.Log.Fatalf("sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	} else {
		logger.Log.Warn("SENTRY_DSN is not set, error tracking disabled")
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	promoSvc := service.NewPromoService(cfg.PlatformURL)
	statsSvc := service.NewStatsService(userRepo)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, promoSvc)
	if err != nil {
		sentry.CaptureException(err)
		logger.Log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	statsJob := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := statsSvc.Report(jobCtx); err != nil {
			logger.Log.Errorw("stats report", "error", err)
			sentry.CaptureException(err)
		}
	}
	switch {
	case cfg.StatsDailyAt != "":
		if _, err := scheduler.ScheduleDaily(cfg.StatsDailyAt, statsJob); err != nil {
			logger.Log.Fatalf("schedule stats: %v", err)
		}
	case cfg.StatsInterval > 0:
		if _, err := scheduler.ScheduleInterval(cfg.StatsInterval, statsJob); err != nil {
			logger.Log.Fatalf("schedule stats: %v", err)
		}
	}
	if scheduler.Entries() > 0 {
		scheduler.Start()
		defer scheduler.Stop()
	}

	logger.Log.Infow("promo bot started", "platform_url", cfg.PlatformURL, "db", cfg.DatabaseURL)
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Errorw("bot stopped with error", "error", err)
	}
	logger.Log.Info("shutdown complete")
}
