package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cycle_companion_bot/internal/app"
	"cycle_companion_bot/internal/infra/config"
	idb "cycle_companion_bot/internal/infra/database"
	"cycle_companion_bot/internal/infra/logger"
	"cycle_companion_bot/internal/infra/scheduler"
	"cycle_companion_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Cycle Companion Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get().WithField("component", "main")
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	// Initialize Repositories
	userRepo := idb.NewPostgresUserRepository(db)
	entryRepo := idb.NewPostgresEntryRepository(db)
	partnerRepo := idb.NewPostgresPartnerRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)
	log.Info("Repositories initialized.")

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Get().WithError(err).WithField("component", "telebot")
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Unhandled bot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.WithError(err).Fatal("Could not create Telegram bot")
	}

	// Initialize Application Services
	baseLogger := logger.Get().WithField("app", "cycle_companion_bot")
	entryService := app.NewEntryService(userRepo, entryRepo, baseLogger.WithField("service", "entry"))
	partnerService := app.NewPartnerService(userRepo, partnerRepo)
	statsService := app.NewStatisticsService(userRepo, entryRepo)
	notificationService := app.NewNotificationServiceImpl(
		userRepo,
		entryRepo,
		partnerRepo,
		notificationRepo,
		telegram.NewTelebotAdapter(bot),
		baseLogger.WithField("service", "notification"),
	)
	log.Info("Application services initialized.")

	// Initialize CycleScheduler
	cycleScheduler := scheduler.NewCycleScheduler(
		notificationService,
		baseLogger.WithField("component", "scheduler"),
		cfg.CronSpecPhaseCheck,
		cfg.CronSpecWeeklyReminder,
	)
	cycleScheduler.Start()

	// Register Handlers
	ctx := context.Background()
	telegram.RegisterBotCommands(ctx, bot, userRepo, partnerService, statsService, cfg.DefaultCycleLength, baseLogger)
	telegram.RegisterCycleInputHandlers(ctx, bot, entryService, baseLogger)
	telegram.RegisterCallbackHandlers(ctx, bot, userRepo, entryService, partnerService, baseLogger)
	log.Info("Bot handlers registered.")

	log.Info("Application setup complete. Bot and Scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")
	cycleScheduler.Stop()
	bot.Stop()
	log.Info("Application shut down gracefully.")
}
