package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventplanner/config"
	_ "eventplanner/docs"
	httpdelivery "eventplanner/internal/delivery/http"
	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/delivery/http/middleware"
	authadapter "eventplanner/internal/adapters/auth"
	emailadapter "eventplanner/internal/adapters/email"
	"eventplanner/internal/repository/postgres"
	"eventplanner/internal/services"
)

const shutdownTimeout = 10 * time.Second

// @title Event Planner API
// @version 1.0
// @description Backend for event browsing, registration, and capacity management.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())

	hasher := authadapter.NewBcryptHasher(authadapter.DefaultBcryptCost)
	tokenIssuer := authadapter.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := authadapter.NewJWTVerifier(cfg.JWTSecret)

	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.JWTExpiry, emailService, logger)
	eventService := services.NewEventService(eventRepo, categoryRepo, registrationRepo)
	registrationService := services.NewRegistrationService(registrationRepo, eventRepo, userRepo, emailService, logger)

	authController := controllers.NewAuthController(logger, authService)
	eventController := controllers.NewEventController(logger, eventService)
	registrationController := controllers.NewRegistrationController(logger, registrationService)

	mux := httpdelivery.NewRouter(authController, eventController, registrationController, tokenVerifier, logger)
	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
