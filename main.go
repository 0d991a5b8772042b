package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thonzy/Inventory-App/internal/api"
	"github.com/Thonzy/Inventory-App/internal/api/handlers"
	"github.com/Thonzy/Inventory-App/internal/auth"
	"github.com/Thonzy/Inventory-App/internal/config"
	"github.com/Thonzy/Inventory-App/internal/database"
	"github.com/Thonzy/Inventory-App/internal/jobs"
	"github.com/Thonzy/Inventory-App/internal/logger"
	"github.com/Thonzy/Inventory-App/internal/mail"
	"github.com/Thonzy/Inventory-App/internal/services"
	"github.com/Thonzy/Inventory-App/internal/storage"
	"github.com/Thonzy/Inventory-App/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Environment)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the activity feed hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	resetService := services.NewResetService(db)
	eventService := services.NewEventService(db, hub)
	productService := services.NewProductService(db)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret)
	mailer := mail.NewBrevoMailer(cfg.BrevoAPIKey, cfg.EmailSenderName, cfg.EmailSenderAddress)

	// Image storage is optional; without a bucket the API runs but
	// rejects image attachments.
	var uploader storage.Uploader
	if cfg.S3Bucket != "" {
		store, err := storage.NewS3Store(context.Background(), cfg.S3Region, cfg.S3Bucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		uploader = store
	} else {
		log.Warn().Msg("S3_BUCKET not set, product image uploads are disabled")
	}

	// Set up and run the background janitor
	janitor := jobs.NewJanitor(resetService, productService, eventService, cfg.LowStockThreshold)
	if err := janitor.Start(cfg.JanitorCron); err != nil {
		log.Fatal().Err(err).Msg("Failed to start janitor")
	}

	// Set up router
	router := api.NewRouter(api.RouterDeps{
		FrontendURL:    cfg.FrontendURL,
		Issuer:         issuer,
		Resolver:       userService,
		UserHandler:    handlers.NewUserHandler(userService, resetService, eventService, issuer, mailer, cfg.FrontendURL),
		ProductHandler: handlers.NewProductHandler(productService, eventService, uploader),
		EventHandler:   handlers.NewEventHandler(eventService),
		WSHandler:      handlers.NewWebSocketHandler(hub),
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	janitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
