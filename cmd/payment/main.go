package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/qrstore/backend/internal/config"
	"github.com/qrstore/backend/internal/database"
	"github.com/qrstore/backend/internal/handlers"
	"github.com/qrstore/backend/internal/services"
)

func main() {
	cfg := config.MustLoad()

	db := database.InitDatabase(cfg.DatabaseURL)
	defer db.Close()

	handler := handlers.NewPaymentHandler(services.NewLedgerService(db))

	lambda.Start(handler.Handle)
}
