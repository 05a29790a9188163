package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ventilia/nuclear-donor-bot/internal/bot"
	"github.com/ventilia/nuclear-donor-bot/internal/config"
	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/logger"
	"github.com/ventilia/nuclear-donor-bot/internal/scheduler"
	"github.com/ventilia/nuclear-donor-bot/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	if err := db.Init(cfg.DBPath, cfg.SeedAdminIDs); err != nil {
		log.Fatal("db init failed", zap.Error(err))
	}

	client := bot.NewClient(cfg.BotToken)
	dispatcher := bot.NewDispatcher(client, log, cfg.PublicBaseURL, bot.NewCSVSheets(client))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(dispatcher, log, cfg.ReminderInterval, cfg.SurveyHour)
	go sched.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: web.Router(dispatcher, log),
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Info("donor bot listening", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server failed", zap.Error(err))
	}
}
