package service

import (
	"context"
	"fmt"

	"flight_api/internal/common"
	"flight_api/internal/domain/model"
	"flight_api/internal/domain/repository"

	"github.com/google/uuid"
)

type PassengerService struct {
	passengerRepo repository.PassengerRepository
}

func NewPassengerService(passengerRepo repository.PassengerRepository) *PassengerService {
	return &PassengerService{passengerRepo: passengerRepo}
}

type PassengerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Email     string `json:"email"`
}

func (s *PassengerService) CreatePassenger(ctx context.Context, createdBy string, req PassengerRequest) (*model.Passenger, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return nil, common.E(common.ErrValidation, "first_name, last_name and email are required")
	}

	passenger := &model.Passenger{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Email:     req.Email,
	}
	if createdBy != "" {
		passenger.CreatedByID = &createdBy
	}

	// Creation failures collapse into one fixed message; the caller never
	// sees storage-level detail on this endpoint.
	if err := s.passengerRepo.Create(ctx, passenger); err != nil {
		return nil, common.E(common.ErrBadRequest, "error creating passenger")
	}
	return passenger, nil
}

func (s *PassengerService) GetPassenger(ctx context.Context, id string) (*model.Passenger, error) {
	return s.passengerRepo.FindByID(ctx, id)
}

func (s *PassengerService) ListPassengers(ctx context.Context, page, limit int) ([]model.Passenger, int, error) {
	return s.passengerRepo.List(ctx, limit, (page-1)*limit)
}

func (s *PassengerService) UpdatePassenger(ctx context.Context, id string, req PassengerRequest) (*model.Passenger, error) {
	passenger, err := s.passengerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		passenger.FirstName = req.FirstName
	}
	if req.LastName != "" {
		passenger.LastName = req.LastName
	}
	if req.Gender != "" {
		passenger.Gender = req.Gender
	}
	if req.Email != "" {
		passenger.Email = req.Email
	}

	if err := s.passengerRepo.Update(ctx, passenger); err != nil {
		return nil, fmt.Errorf("failed to update passenger: %w", err)
	}
	return passenger, nil
}

func (s *PassengerService) DeletePassenger(ctx context.Context, id string) error {
	return s.passengerRepo.Delete(ctx, id)
}
