package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trip-planner/internal/api"
	"trip-planner/internal/config"
	"trip-planner/internal/modules/catalog"
	"trip-planner/internal/modules/itinerary"
	"trip-planner/internal/modules/timing"
	"trip-planner/pkg/email"
	"trip-planner/pkg/maps"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	e := echo.New()

	// 2. --- Middleware ---
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Database Connection ---
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database configuration: %v", err)
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v\n", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}
	e.Logger.Info("Successfully connected to the database!")

	// 4. --- External Clients ---
	mapsClient := maps.NewClient(cfg.GoogleMapsAPIKey)

	emailTemplates, err := email.NewTemplateManager()
	if err != nil {
		log.Fatalf("Failed to parse email templates: %v", err)
	}

	// The share-by-email feature degrades to link-only when SES is not
	// configured.
	var emailSender email.ServiceInterface
	if cfg.AWSRegion != "" && cfg.EmailFrom != "" {
		sender, err := email.NewSESV2Sender(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
		if err != nil {
			log.Fatalf("Failed to initialize SES sender: %v", err)
		}
		emailSender = sender
	} else {
		e.Logger.Warn("Email sending disabled: AWS_REGION or EMAIL_FROM not set")
	}

	// 5. --- Dependency Injection (Wiring everything up) ---
	// --- Catalog Module ---
	catalogRepo := catalog.NewRepository(dbPool)
	catalogService := catalog.NewService(catalogRepo, mapsClient)

	// --- Timing Module ---
	timingRepo := timing.NewRepository(dbPool)
	timingService := timing.NewService(timingRepo)
	timingHandler := timing.NewHandler(timingService)

	// --- Itinerary Module ---
	itineraryRepo := itinerary.NewRepository(dbPool)
	itineraryService := itinerary.NewService(
		itineraryRepo,
		catalogService,
		timingService,
		mapsClient,
		emailSender,
		emailTemplates,
		itinerary.Config{
			ClientOrigin:  cfg.ClientOrigin,
			SharePolicy:   cfg.SharePolicy,
			DaySeedPolicy: cfg.DaySeedPolicy,
		},
	)
	itineraryHandler := itinerary.NewHandler(itineraryService)

	// 6. --- Initialize Router ---
	api.SetupRoutes(e, itineraryHandler, timingHandler, cfg.JWTSecret)

	// 7. --- Start Server with graceful shutdown logic ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server an error occurred:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exiting")
}
