package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mr-Racnok/akui-esport/brackets"
	"github.com/Mr-Racnok/akui-esport/config"
	"github.com/Mr-Racnok/akui-esport/db"
	"github.com/Mr-Racnok/akui-esport/handlers"
	"github.com/Mr-Racnok/akui-esport/repositories"
	api "github.com/Mr-Racnok/akui-esport/routes"
	"github.com/Mr-Racnok/akui-esport/services"
	"github.com/Mr-Racnok/akui-esport/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Time("registration_open", cfg.RegistrationOpen),
		slog.Time("registration_close", cfg.RegistrationClose),
		slog.Int("max_teams", cfg.MaxTeams),
	)

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Загрузчик логотипов (Cloudflare R2) — опционален.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("Cloudflare R2 is not configured, logo uploads disabled")
	}

	// WebSocket Hub для живого счётчика регистраций
	wsHub := brackets.NewHub(cfg.MaxTeams)
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	// Репозитории
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	txManager := repositories.NewSQLTxManager(dbConn)

	// Сервисы
	registrationService := services.NewRegistrationService(
		txManager,
		teamRepo,
		participantRepo,
		cfg.RegistrationOpen,
		cfg.RegistrationClose,
		wsHub,
		logger,
	)
	rosterService := services.NewRosterService(teamRepo, logger)
	bracketService := services.NewBracketService(teamRepo, participantRepo, cfg.MaxTeams)
	scheduleService := services.NewScheduleService(teamRepo)
	logoService := services.NewLogoService(uploader)
	logger.Info("services initialized")

	// Обработчики HTTP
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	rosterHandler := handlers.NewRosterHandler(rosterService, cfg.MaxTeams)
	bracketHandler := handlers.NewBracketHandler(bracketService, scheduleService)
	logoHandler := handlers.NewLogoHandler(logoService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, rosterService, cfg.MaxTeams)

	// Маршрутизатор
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.CORSAllowedOrigins,
		registrationHandler,
		rosterHandler,
		bracketHandler,
		logoHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
