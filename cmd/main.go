package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecommerce-backend/internal/config"
	"ecommerce-backend/internal/delivery/http/handler"
	"ecommerce-backend/internal/domain/event"
	"ecommerce-backend/internal/infrastructure/database/postgres"
	"ecommerce-backend/internal/infrastructure/messaging"
	"ecommerce-backend/internal/infrastructure/notification"
	"ecommerce-backend/internal/logger"
	"ecommerce-backend/internal/routes"
	"ecommerce-backend/internal/usecase/auth"
	"ecommerce-backend/internal/usecase/cart"
	"ecommerce-backend/internal/usecase/catalog"
	"ecommerce-backend/internal/usecase/user"
	"ecommerce-backend/pkg/mqtt"
	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	publisher, closePublisher := newPublisher(cfg)
	defer closePublisher()

	tokens := utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.AccessTTL(), cfg.RefreshTTL())

	userRepo := postgres.NewUserRepository(db)
	otpRepo := postgres.NewOTPRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	productRepo := postgres.NewProductRepository(db)
	cartRepo := postgres.NewCartRepository(db)

	authService := auth.NewService(userRepo, otpRepo, postgres.NewTxRunner(db), tokens, newNotifier(cfg), publisher, cfg)
	userService := user.NewService(userRepo)
	catalogService := catalog.NewService(categoryRepo, productRepo)
	cartService := cart.NewService(cartRepo, productRepo, publisher)

	if cfg.OTP.CleanupIntervalMinutes > 0 {
		go authService.StartOTPCleanupJob(ctx,
			time.Duration(cfg.OTP.CleanupIntervalMinutes)*time.Minute,
			time.Duration(cfg.OTP.RetentionHours)*time.Hour,
		)
	}

	router := routes.SetupRoutes(ctx, cfg, tokens, routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Catalog: handler.NewCatalogHandler(catalogService),
		Cart:    handler.NewCartHandler(cartService),
		Health:  handler.NewHealthHandler(db),
	})

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "4000"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown Server ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}

func newNotifier(cfg *config.Config) auth.Notifier {
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP_HOST not set, OTP mails are dropped")
		return notification.LogSender{}
	}
	return notification.NewSMTPSender(cfg.SMTP)
}

func newPublisher(cfg *config.Config) (event.Publisher, func()) {
	if cfg.MQTT.Broker == "" {
		return event.NopPublisher{}, func() {}
	}

	client := mqtt.NewClient(
		mqtt.DefaultConfig(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Username, cfg.MQTT.Password),
		logger.Logger,
	)
	if err := client.Connect(); err != nil {
		logger.Warn("MQTT broker unavailable, domain events are dropped", zap.Error(err))
		return event.NopPublisher{}, func() {}
	}

	return messaging.NewMQTTPublisher(client, cfg.MQTT.TopicPrefix), func() { client.Disconnect() }
}
