package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/telebot.v3"

	"silver_bullet_notifier/internal/app"
	"silver_bullet_notifier/internal/domain/session"
	"silver_bullet_notifier/internal/infra/config"
	"silver_bullet_notifier/internal/infra/logger"
	"silver_bullet_notifier/internal/infra/scheduler"
	"silver_bullet_notifier/internal/infra/storage"
	itelegram "silver_bullet_notifier/internal/infra/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; write to stderr and bail.
		os.Stderr.WriteString("FATAL: Could not load application configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg)
	log.Infof("Silver Bullet notification system starting. Environment: %s, sessions: %d, lead times: %v",
		cfg.Environment, len(cfg.Sessions), cfg.LeadTimesMinutes)

	calendar, err := session.NewCalendar(cfg.Sessions, cfg.ReferenceTimezone, cfg.DisplayTimezone)
	if err != nil {
		log.Fatalf("FATAL: Invalid session configuration: %v", err)
	}
	clock := session.SystemClock{}

	// The bot sends and deletes messages only; it never polls for updates,
	// so bot.Start() is deliberately not called.
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	client := itelegram.NewTelebotAdapter(bot, cfg.TelegramChatID)
	log.Info("Telegram client initialized.")

	ledger := storage.NewFileLedger(cfg.LedgerFile, log)
	marker := storage.NewFileCleanupMarker(cfg.CleanupMarkerFile)

	notifService := app.NewNotificationService(
		calendar, clock, client, ledger,
		cfg.LeadTimesMinutes, cfg.PollInterval, log,
	)
	cleanupService := app.NewCleanupService(
		ledger, marker, client, clock,
		calendar.ReferenceLocation(), log,
	)

	pollScheduler := scheduler.NewPollScheduler(
		notifService, cleanupService,
		calendar.ReferenceLocation(),
		cfg.PollInterval, cfg.RunDuration, log,
	)

	// SIGINT/SIGTERM cancel the run context; the loop exits without a
	// shutdown notice.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pollScheduler.Run(ctx); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	log.Info("Application shut down gracefully.")
}
