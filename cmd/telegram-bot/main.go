package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/qrstore/backend/internal/config"
	"github.com/qrstore/backend/internal/database"
	"github.com/qrstore/backend/internal/handlers"
	"github.com/qrstore/backend/internal/services"
	"github.com/qrstore/backend/internal/telegram"
)

func main() {
	cfg := config.MustLoad()
	if cfg.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	db := database.InitDatabase(cfg.DatabaseURL)
	defer db.Close()

	handler := handlers.NewBotHandler(
		services.NewItemService(db),
		services.NewChatService(db),
		telegram.NewSender(cfg.BotToken, cfg.TelegramAPIURL),
	)

	lambda.Start(handler.Handle)
}
