// Package main contains the entrypoint for the MuralBot Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/muralbot/internal/bot"
	"github.com/edgard/muralbot/internal/bot/handlers"
	"github.com/edgard/muralbot/internal/bot/tasks"
	"github.com/edgard/muralbot/internal/cache"
	"github.com/edgard/muralbot/internal/config"
	"github.com/edgard/muralbot/internal/database"
	"github.com/edgard/muralbot/internal/logger"
	"github.com/edgard/muralbot/internal/policy"
	"github.com/edgard/muralbot/internal/prefetch"
	"github.com/edgard/muralbot/internal/telegram"
	"github.com/edgard/muralbot/internal/unsplash"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// provider client, bot, scheduler), handles graceful shutdown, and returns
// an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	provider, err := unsplash.NewClient(unsplash.Options{
		AccessKey:   cfg.Unsplash.AccessKey,
		BaseURL:     cfg.Unsplash.BaseURL,
		Orientation: cfg.Unsplash.Orientation,
		Timeout:     cfg.Unsplash.Timeout,
	}, log)
	if err != nil {
		log.Error("Failed to initialize Unsplash client", "error", err)
		return 1
	}

	manager := cache.NewManager(store, provider, log)
	cooldown := policy.NewCooldown(cfg.Policy.CooldownWindow, nil)
	groups := policy.NewGroupAssigner(cfg.Policy.GroupSeed)
	limiter := prefetch.NewLimiter(cfg.Unsplash.RequestsPerHour, time.Hour, nil, log)
	prefetcher := prefetch.NewPrefetcher(store, provider, limiter, log)

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Cache:    manager,
		Cooldown: cooldown,
		Groups:   groups,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllHandlers(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger:     log,
		Config:     cfg,
		Store:      store,
		Bot:        tg,
		Prefetcher: prefetcher,
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, db, store, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
