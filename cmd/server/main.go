package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/qrstore/backend/internal/config"
	"github.com/qrstore/backend/internal/database"
	"github.com/qrstore/backend/internal/handlers"
	"github.com/qrstore/backend/internal/services"
	"github.com/qrstore/backend/internal/telegram"
)

// Local dev server. In production each handler runs as its own cloud
// function behind the gateway; here both are mounted on one router.
func main() {
	cfg := config.MustLoad()

	db := database.InitDatabase(cfg.DatabaseURL)
	defer db.Close()

	paymentHandler := handlers.NewPaymentHandler(services.NewLedgerService(db))
	botHandler := handlers.NewBotHandler(
		services.NewItemService(db),
		services.NewChatService(db),
		telegram.NewSender(cfg.BotToken, cfg.TelegramAPIURL),
	)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	r.Handle("/payment", handlers.AdaptHTTP(paymentHandler.Handle))
	r.Handle("/telegram-bot", handlers.AdaptHTTP(botHandler.Handle))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
