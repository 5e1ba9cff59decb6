package api

import (
	"net/http"
	"time"

	"flight_api/internal/api/handler"
	"flight_api/internal/api/middleware"
	"flight_api/internal/app/service"
	"flight_api/internal/common/security"
	"flight_api/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	tokens *security.TokenService,
	authMW *middleware.AuthMiddleware,
	authService *service.AuthService,
	userService *service.UserService,
	flightService *service.FlightService,
	passengerService *service.PassengerService,
	reservationService *service.ReservationService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifier parses the bearer token from "Authorization: Bearer T" and
	// records the outcome in the context. It rejects nothing by itself;
	// the auth middleware decides per route group.
	r.Use(jwtauth.Verifier(tokens.AccessAuth()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService, tokens.RefreshTTL(), config.AppConfig.CookieSecure)
	r.Route("/auth", authHandler.RegisterRoutes)

	userHandler := handler.NewUserHandler(userService)
	r.Route("/users", func(sub chi.Router) {
		userHandler.RegisterRoutes(sub, authMW)
	})

	flightHandler := handler.NewFlightHandler(flightService)
	r.Route("/flights", func(sub chi.Router) {
		flightHandler.RegisterRoutes(sub, authMW)
	})

	passengerHandler := handler.NewPassengerHandler(passengerService)
	r.Route("/passengers", func(sub chi.Router) {
		passengerHandler.RegisterRoutes(sub, authMW)
	})

	reservationHandler := handler.NewReservationHandler(reservationService)
	r.Route("/reservations", func(sub chi.Router) {
		reservationHandler.RegisterRoutes(sub, authMW)
	})

	return r
}
