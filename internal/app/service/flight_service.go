package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"flight_api/internal/common"
	"flight_api/internal/domain/model"
	"flight_api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
)

// FlightService handles flight CRUD. Single-flight reads go through a
// best-effort redis cache; writes invalidate the cached entries.
type FlightService struct {
	flightRepo repository.FlightRepository
	rdb        *redis.Client
	cacheTTL   time.Duration
}

func NewFlightService(flightRepo repository.FlightRepository, rdb *redis.Client, cacheTTL time.Duration) *FlightService {
	return &FlightService{flightRepo: flightRepo, rdb: rdb, cacheTTL: cacheTTL}
}

type FlightRequest struct {
	FlightNumber  string    `json:"flight_number"`
	Airline       string    `json:"airline"`
	Departure     string    `json:"departure"`
	DepartureDate time.Time `json:"departure_date"`
	Arrival       string    `json:"arrival"`
	ArrivalDate   time.Time `json:"arrival_date"`
}

func flightSlug(flightNumber, departure, arrival string) string {
	return slug.Make(fmt.Sprintf("%s %s %s", flightNumber, departure, arrival))
}

func (s *FlightService) CreateFlight(ctx context.Context, createdBy string, req FlightRequest) (*model.Flight, error) {
	if req.FlightNumber == "" || req.Airline == "" || req.Departure == "" || req.Arrival == "" ||
		req.DepartureDate.IsZero() || req.ArrivalDate.IsZero() {
		return nil, common.E(common.ErrValidation,
			"flight_number, airline, departure, departure_date, arrival and arrival_date are required")
	}

	flight := &model.Flight{
		ID:            uuid.NewString(),
		FlightNumber:  req.FlightNumber,
		Airline:       req.Airline,
		Departure:     req.Departure,
		DepartureDate: req.DepartureDate,
		Arrival:       req.Arrival,
		ArrivalDate:   req.ArrivalDate,
		Slug:          flightSlug(req.FlightNumber, req.Departure, req.Arrival),
	}
	if createdBy != "" {
		flight.CreatedByID = &createdBy
	}

	if err := s.flightRepo.Create(ctx, flight); err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}
	return flight, nil
}

// GetFlight accepts either a flight ID or a URL slug.
func (s *FlightService) GetFlight(ctx context.Context, ref string) (*model.Flight, error) {
	if flight := s.cachedFlight(ctx, ref); flight != nil {
		return flight, nil
	}

	var flight *model.Flight
	var err error
	if uuid.Validate(ref) == nil {
		flight, err = s.flightRepo.FindByID(ctx, ref)
	} else {
		flight, err = s.flightRepo.FindBySlug(ctx, ref)
	}
	if err != nil {
		return nil, err
	}

	s.cacheFlight(ctx, flight)
	return flight, nil
}

func (s *FlightService) ListFlights(ctx context.Context, page, limit int, filter repository.FlightFilter) ([]model.Flight, int, error) {
	return s.flightRepo.List(ctx, limit, (page-1)*limit, filter)
}

func (s *FlightService) UpdateFlight(ctx context.Context, id string, req FlightRequest) (*model.Flight, error) {
	flight, err := s.flightRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidateFlight(ctx, flight)

	if req.FlightNumber != "" {
		flight.FlightNumber = req.FlightNumber
	}
	if req.Airline != "" {
		flight.Airline = req.Airline
	}
	if req.Departure != "" {
		flight.Departure = req.Departure
	}
	if !req.DepartureDate.IsZero() {
		flight.DepartureDate = req.DepartureDate
	}
	if req.Arrival != "" {
		flight.Arrival = req.Arrival
	}
	if !req.ArrivalDate.IsZero() {
		flight.ArrivalDate = req.ArrivalDate
	}
	flight.Slug = flightSlug(flight.FlightNumber, flight.Departure, flight.Arrival)

	if err := s.flightRepo.Update(ctx, flight); err != nil {
		return nil, fmt.Errorf("failed to update flight: %w", err)
	}
	return flight, nil
}

func (s *FlightService) DeleteFlight(ctx context.Context, id string) error {
	flight, err := s.flightRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	s.invalidateFlight(ctx, flight)
	return s.flightRepo.Delete(ctx, id)
}

// Cache helpers. Redis being down never fails a request; the database
// remains the source of truth.

func flightCacheKey(ref string) string { return "flight:" + ref }

func (s *FlightService) cachedFlight(ctx context.Context, ref string) *model.Flight {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.Get(ctx, flightCacheKey(ref)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("flight cache read failed: %v", err)
		}
		return nil
	}
	flight := &model.Flight{}
	if err := json.Unmarshal(data, flight); err != nil {
		return nil
	}
	return flight
}

func (s *FlightService) cacheFlight(ctx context.Context, flight *model.Flight) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(flight)
	if err != nil {
		return
	}
	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, flightCacheKey(flight.ID), data, s.cacheTTL)
	pipe.Set(ctx, flightCacheKey(flight.Slug), data, s.cacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("flight cache write failed: %v", err)
	}
}

func (s *FlightService) invalidateFlight(ctx context.Context, flight *model.Flight) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, flightCacheKey(flight.ID), flightCacheKey(flight.Slug)).Err(); err != nil {
		log.Printf("flight cache invalidation failed: %v", err)
	}
}
