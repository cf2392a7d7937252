// @title Community Activity Registration API
// @version 1.0
// @description Registration platform for community activities: staff publish
// @description capacity-limited events, caregivers and guests register
// @description participants, admins review and export registration rolls.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	"communityreg/config"
	adapterauth "communityreg/internal/adapters/auth"
	adapteremail "communityreg/internal/adapters/email"
	delivery "communityreg/internal/delivery/http"
	"communityreg/internal/delivery/http/controllers"
	"communityreg/internal/delivery/http/middleware"
	"communityreg/internal/repository/postgres"
	"communityreg/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)

	hasher := adapterauth.NewBcryptHasher(10)
	tokenIssuer := adapterauth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := adapterauth.NewJWTVerifier(cfg.JWTSecret)

	mailer, err := adapteremail.NewMailer(adapteremail.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: adapteremail.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}
	emailService := services.NewEmailService(mailer, adapteremail.NewTemplateRenderer(), logger)

	participantService := services.NewParticipantService(participantRepo)
	eventService := services.NewEventService(eventRepo, registrationRepo)
	registrationService := services.NewRegistrationService(
		eventRepo, participantRepo, registrationRepo, userRepo, emailService, logger)
	authService := services.NewAuthService(
		userRepo, participantService, hasher, tokenIssuer, cfg.TokenExpiry,
		emailService, cfg.StaffAccessCode, cfg.CaregiverAccessCode, logger)

	authController := controllers.NewAuthController(logger, authService, participantService)
	eventController := controllers.NewEventController(logger, eventService, registrationService, participantService)
	participantController := controllers.NewParticipantController(logger, participantService, registrationService)
	adminController := controllers.NewAdminController(logger, eventService, registrationService, participantService)

	mux := delivery.NewRouter(logger, tokenVerifier,
		authController, eventController, participantController, adminController)

	handler := middleware.LoggingMiddleware(logger,
		middleware.CORS(cfg.CORSAllowedOrigins, mux))

	addr := ":" + cfg.Port
	logger.Info("server starting", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
