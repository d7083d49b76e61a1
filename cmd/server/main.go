package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mekaniko-ph/mekaniko-backend/internal/config"
	"github.com/mekaniko-ph/mekaniko-backend/internal/db"
	httpHandlers "github.com/mekaniko-ph/mekaniko-backend/internal/http/handlers"
	httpRouter "github.com/mekaniko-ph/mekaniko-backend/internal/http/router"
	"github.com/mekaniko-ph/mekaniko-backend/internal/logger"
	"github.com/mekaniko-ph/mekaniko-backend/internal/repository"
	"github.com/mekaniko-ph/mekaniko-backend/internal/service"
	"github.com/mekaniko-ph/mekaniko-backend/internal/storage"
	bookinguc "github.com/mekaniko-ph/mekaniko-backend/internal/usecase/booking"
	"github.com/mekaniko-ph/mekaniko-backend/internal/usecase/feed"
	requestuc "github.com/mekaniko-ph/mekaniko-backend/internal/usecase/request"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: could not load configuration: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: could not connect to the database: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: migrations failed: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: could not prepare the file storage: %v", err)
	}

	// Repositories.
	accountRepo := repository.NewAccountRepository(dbConn)
	catalogRepo := repository.NewCatalogRepository(dbConn)
	requestRepo := repository.NewRequestRepository(dbConn)
	bookingRepo := repository.NewBookingRepository(dbConn)

	// Services.
	identityService := service.NewIdentityService(accountRepo, tokenManager)

	// Use cases.
	createCustom := requestuc.NewCreateCustomRequestUseCase(requestRepo, accountRepo)
	createDirect := requestuc.NewCreateDirectRequestUseCase(requestRepo, accountRepo, catalogRepo)
	createEmergency := requestuc.NewCreateEmergencyRequestUseCase(requestRepo, accountRepo)
	quoteRequest := requestuc.NewQuoteCustomRequestUseCase(requestRepo)
	respondRequest := requestuc.NewRespondToRequestUseCase(requestRepo)

	createBooking := bookinguc.NewCreateBookingUseCase(bookingRepo, requestRepo, catalogRepo)
	startWork := bookinguc.NewStartWorkUseCase(bookingRepo)
	markJobDone := bookinguc.NewMarkJobDoneUseCase(bookingRepo)
	reschedule := bookinguc.NewRescheduleBookingUseCase(bookingRepo)
	completeBooking := bookinguc.NewCompleteBookingUseCase(bookingRepo)
	cancelBooking := bookinguc.NewCancelBookingUseCase(bookingRepo)
	fileRework := bookinguc.NewFileReworkUseCase(bookingRepo)
	resolveRework := bookinguc.NewResolveReworkUseCase(bookingRepo)
	fileDispute := bookinguc.NewFileDisputeUseCase(bookingRepo)
	resolveDispute := bookinguc.NewResolveDisputeUseCase(bookingRepo)

	homeFeed := feed.NewHomeFeedUseCase(bookingRepo, requestRepo)
	listBookings := feed.NewListBookingsUseCase(bookingRepo)
	bookingDetail := feed.NewBookingDetailUseCase(bookingRepo)
	clientRequests := feed.NewListClientRequestsUseCase(requestRepo)

	// HTTP handlers.
	authHandler := httpHandlers.NewAuthHandler(identityService)
	requestHandler := httpHandlers.NewRequestHandler(createCustom, createDirect, createEmergency, quoteRequest, respondRequest)
	bookingHandler := httpHandlers.NewBookingHandler(
		createBooking, startWork, markJobDone, reschedule,
		completeBooking, cancelBooking, fileRework, resolveRework,
		fileDispute, resolveDispute,
	)
	feedHandler := httpHandlers.NewFeedHandler(homeFeed, listBookings, bookingDetail, clientRequests)
	catalogHandler := httpHandlers.NewCatalogHandler(catalogRepo)
	mediaHandler := httpHandlers.NewMediaHandler(photoStorage)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(cfg, authHandler, requestHandler, bookingHandler, feedHandler, catalogHandler, mediaHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: http server shutdown error: %v", err)
		}
	}()

	log.Printf("main: HTTP server listening on port %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: server exited with error: %v", err)
	}
}

func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: error closing the database: %v", err)
	}
}
