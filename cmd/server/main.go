package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/donation-share/internal/api"
	"alcyxob/donation-share/internal/config"
	"alcyxob/donation-share/internal/logger"
	"alcyxob/donation-share/internal/repository"
	"alcyxob/donation-share/internal/repository/mongo"
	"alcyxob/donation-share/internal/repository/postgres"
	"alcyxob/donation-share/internal/service"
	"alcyxob/donation-share/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// @title Donation Share API
// @version 1.0
// @description Post and browse community donations; upload item photos straight to object storage.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	logger.Init(cfg.Log)
	log.WithFields(log.Fields{
		"address": cfg.Server.Address,
		"db":      cfg.Database.Driver,
		"bucket":  cfg.S3.BucketName,
	}).Info("Starting donation-share server")

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret (JWT_SECRET) must be set")
	}

	// --- Database Connection ---
	store, err := openStore(context.Background(), cfg.Database)
	if err != nil {
		log.Fatalf("could not open %s store: %v", cfg.Database.Driver, err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.WithError(err).Error("failed to close store")
		}
	}()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), time.Minute)
	err = store.EnsureSchema(schemaCtx)
	cancelSchema()
	if err != nil {
		log.Fatalf("could not prepare schema: %v", err)
	}
	log.Info("Database ready")

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3)
	if err != nil {
		log.Fatalf("failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Services ---
	authService := service.NewAuthService(store.Users(), cfg.JWT.Secret, cfg.JWT.Expiration)
	donationService := service.NewDonationService(store.Donations())
	uploadService := service.NewUploadService(fileStorage, service.UploadPolicy{
		MaxBytes:  cfg.Upload.MaxBytes,
		Expiry:    cfg.Upload.PresignExpiry,
		KeyPrefix: cfg.Upload.KeyPrefix,
	})

	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(cfg.Server.AllowedOrigins)
	api.SetupRoutes(router, cfg.JWT.Secret, api.Services{
		Auth:      authService,
		Donations: donationService,
		Uploads:   uploadService,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	log.Info("Server exiting.")
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		store, err := mongo.NewStore(cfg.URI, cfg.Name)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.Open(ctx, cfg.URI)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
