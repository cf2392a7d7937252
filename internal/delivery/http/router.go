package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"communityreg/internal/delivery/http/controllers"
	"communityreg/internal/delivery/http/middleware"
	"communityreg/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	participantController *controllers.ParticipantController,
	adminController *controllers.AdminController,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	optionalAuth := middleware.OptionalAuth(verifier, logger)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireAdmin(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("GET /auth/me", auth(authController.Me))

	// Public catalog and registration
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("POST /events/{eventID}/registrations", optionalAuth(eventController.Register))

	// Caregiver roster
	mux.HandleFunc("GET /me/participants", auth(participantController.ListMine))
	mux.HandleFunc("POST /me/participants", auth(participantController.Link))
	mux.HandleFunc("DELETE /me/participants/{participantID}", auth(participantController.Unlink))
	mux.HandleFunc("GET /me/registrations", auth(participantController.MyRegisteredEvents))

	// Admin
	mux.HandleFunc("POST /admin/events", admin(adminController.CreateEvent))
	mux.HandleFunc("POST /admin/events/{eventID}/walkins", admin(adminController.RecordWalkIn))
	mux.HandleFunc("GET /admin/registrations", admin(adminController.ListRegistrations))
	mux.HandleFunc("GET /admin/registrations/export", admin(adminController.ExportRegistrations))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
