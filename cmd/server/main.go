package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flight_api/internal/api"
	"flight_api/internal/api/middleware"
	"flight_api/internal/app/service"
	"flight_api/internal/common/security"
	"flight_api/internal/domain/repository"
	"flight_api/internal/platform/cache"
	"flight_api/internal/platform/config"
	"flight_api/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	log.Println("Configuration loaded")

	// 2. Initialize Database
	database.Connect()
	defer database.Close()

	// 3. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()

	// 4. Token Service (two keys, two lifetimes)
	tokens := security.NewTokenService(security.TokenConfig{
		AccessKey:  config.AppConfig.AccessKey,
		RefreshKey: config.AppConfig.RefreshKey,
		AccessTTL:  config.AppConfig.AccessTokenTTL,
		RefreshTTL: config.AppConfig.RefreshTokenTTL,
	})

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	flightRepo := repository.NewPgFlightRepository(database.DB)
	passengerRepo := repository.NewPgPassengerRepository(database.DB)
	reservationRepo := repository.NewPgReservationRepository(database.DB)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)
	flightService := service.NewFlightService(flightRepo, cache.RDB, config.AppConfig.FlightCacheTTL)
	passengerService := service.NewPassengerService(passengerRepo)
	reservationService := service.NewReservationService(reservationRepo, passengerRepo, flightRepo)

	// 7. Identity resolution middleware
	authMW := middleware.NewAuthMiddleware(userRepo)

	// 8. Router & HTTP Server
	router := api.NewRouter(tokens, authMW, authService, userService, flightService, passengerService, reservationService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully")
}
