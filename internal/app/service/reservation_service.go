package service

import (
	"context"
	"errors"
	"fmt"

	"flight_api/internal/common"
	"flight_api/internal/domain/model"
	"flight_api/internal/domain/repository"

	"github.com/google/uuid"
)

type ReservationService struct {
	reservationRepo repository.ReservationRepository
	passengerRepo   repository.PassengerRepository
	flightRepo      repository.FlightRepository
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	passengerRepo repository.PassengerRepository,
	flightRepo repository.FlightRepository,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		passengerRepo:   passengerRepo,
		flightRepo:      flightRepo,
	}
}

type CreateReservationRequest struct {
	FlightID   string             `json:"flight_id"`
	Passengers []PassengerRequest `json:"passengers"`
}

type UpdateReservationRequest struct {
	FlightID     string   `json:"flight_id"`
	PassengerIDs []string `json:"passenger_ids"`
}

// CreateReservation books a flight. An authenticated caller becomes the
// passenger; an anonymous caller must supply passenger details.
func (s *ReservationService) CreateReservation(ctx context.Context, identity *model.User, req CreateReservationRequest) (*model.Reservation, error) {
	if req.FlightID == "" {
		return nil, common.E(common.ErrValidation, "flight_id is required")
	}

	if _, err := s.flightRepo.FindByID(ctx, req.FlightID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.E(common.ErrNotFound, "flight not found")
		}
		return nil, fmt.Errorf("failed to find flight: %w", err)
	}

	var info PassengerRequest
	if identity != nil {
		info = PassengerRequest{
			FirstName: identity.FirstName,
			LastName:  identity.LastName,
			Gender:    identity.Gender,
			Email:     identity.Email,
		}
	} else {
		if len(req.Passengers) == 0 || req.Passengers[0].FirstName == "" ||
			req.Passengers[0].LastName == "" || req.Passengers[0].Email == "" {
			return nil, common.E(common.ErrValidation, "passenger information is required")
		}
		info = req.Passengers[0]
	}

	passenger := &model.Passenger{
		ID:        uuid.NewString(),
		FirstName: info.FirstName,
		LastName:  info.LastName,
		Gender:    info.Gender,
		Email:     info.Email,
	}
	if identity != nil {
		passenger.CreatedByID = &identity.ID
	}
	if err := s.passengerRepo.Create(ctx, passenger); err != nil {
		return nil, fmt.Errorf("failed to create passenger: %w", err)
	}

	createdBy := passenger.ID
	if identity != nil {
		createdBy = identity.ID
	}

	reservation := &model.Reservation{
		ID:          uuid.NewString(),
		FlightID:    req.FlightID,
		CreatedByID: createdBy,
	}
	if err := s.reservationRepo.Create(ctx, reservation, []string{passenger.ID}); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	reservation.Passengers = []model.Passenger{*passenger}
	return reservation, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.E(common.ErrNotFound, "reservation not found")
		}
		return nil, err
	}
	return reservation, nil
}

// ListReservations scopes results to the caller unless the caller is staff
// or admin.
func (s *ReservationService) ListReservations(ctx context.Context, identity *model.User, page, limit int) ([]model.Reservation, int, error) {
	createdBy := ""
	if identity != nil && identity.Role == model.RoleUser {
		createdBy = identity.ID
	}
	return s.reservationRepo.List(ctx, limit, (page-1)*limit, createdBy)
}

func (s *ReservationService) UpdateReservation(ctx context.Context, id string, req UpdateReservationRequest) (*model.Reservation, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.E(common.ErrNotFound, "reservation not found")
		}
		return nil, err
	}

	if req.FlightID != "" {
		if _, err := s.flightRepo.FindByID(ctx, req.FlightID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.E(common.ErrNotFound, "flight not found")
			}
			return nil, fmt.Errorf("failed to find flight: %w", err)
		}
		reservation.FlightID = req.FlightID
	}

	if err := s.reservationRepo.Update(ctx, reservation, req.PassengerIDs); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	return s.reservationRepo.FindByID(ctx, id)
}

func (s *ReservationService) DeleteReservation(ctx context.Context, id string) error {
	return s.reservationRepo.Delete(ctx, id)
}
