package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"materiaux-bot/internal/admin"
	"materiaux-bot/internal/catalog"
	"materiaux-bot/internal/checkout"
	"materiaux-bot/internal/config"
	"materiaux-bot/internal/db"
	"materiaux-bot/internal/logger"
	"materiaux-bot/internal/notify"
	"materiaux-bot/internal/order"
	"materiaux-bot/internal/session"
	"materiaux-bot/internal/telegram"
	"materiaux-bot/internal/user"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("failed to connect to telegram: %v", err)
	}

	catalogRepo := catalog.NewRepository(database)
	userRepo := user.NewRepository(database)
	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, catalogRepo)

	dispatcher := notify.NewDispatcher(telegram.NewSender(api), cfg.OperatorChatID)
	sessions := session.NewMemoryStore()
	machine := checkout.NewMachine(sessions, catalogRepo, orderSvc, dispatcher)
	adminHandler := admin.NewHandler(cfg.OperatorChatID, orderSvc, userRepo, dispatcher)

	bot := telegram.NewBot(api, machine, userRepo, adminHandler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(ctx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Fatalf("bot stopped: %v", err)
	}
	logger.L().Info("shutdown complete")
}
