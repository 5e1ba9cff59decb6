package service

import (
	"context"
	"testing"

	"flight_api/internal/common"
	"flight_api/internal/domain/model"
	"flight_api/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFlightRepo struct {
	flights map[string]*model.Flight
}

func newFakeFlightRepo(flights ...*model.Flight) *fakeFlightRepo {
	repo := &fakeFlightRepo{flights: map[string]*model.Flight{}}
	for _, f := range flights {
		repo.flights[f.ID] = f
	}
	return repo
}

func (r *fakeFlightRepo) Create(ctx context.Context, flight *model.Flight) error {
	r.flights[flight.ID] = flight
	return nil
}

func (r *fakeFlightRepo) FindByID(ctx context.Context, id string) (*model.Flight, error) {
	if f, ok := r.flights[id]; ok {
		copied := *f
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeFlightRepo) FindBySlug(ctx context.Context, slug string) (*model.Flight, error) {
	for _, f := range r.flights {
		if f.Slug == slug {
			copied := *f
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeFlightRepo) List(ctx context.Context, limit, offset int, filter repository.FlightFilter) ([]model.Flight, int, error) {
	flights := []model.Flight{}
	for _, f := range r.flights {
		flights = append(flights, *f)
	}
	return flights, len(flights), nil
}

func (r *fakeFlightRepo) Update(ctx context.Context, flight *model.Flight) error {
	if _, ok := r.flights[flight.ID]; !ok {
		return common.ErrNotFound
	}
	r.flights[flight.ID] = flight
	return nil
}

func (r *fakeFlightRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.flights[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.flights, id)
	return nil
}

type fakePassengerRepo struct {
	passengers map[string]*model.Passenger
}

func newFakePassengerRepo() *fakePassengerRepo {
	return &fakePassengerRepo{passengers: map[string]*model.Passenger{}}
}

func (r *fakePassengerRepo) Create(ctx context.Context, p *model.Passenger) error {
	r.passengers[p.ID] = p
	return nil
}

func (r *fakePassengerRepo) FindByID(ctx context.Context, id string) (*model.Passenger, error) {
	if p, ok := r.passengers[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakePassengerRepo) List(ctx context.Context, limit, offset int) ([]model.Passenger, int, error) {
	passengers := []model.Passenger{}
	for _, p := range r.passengers {
		passengers = append(passengers, *p)
	}
	return passengers, len(passengers), nil
}

func (r *fakePassengerRepo) Update(ctx context.Context, p *model.Passenger) error {
	if _, ok := r.passengers[p.ID]; !ok {
		return common.ErrNotFound
	}
	r.passengers[p.ID] = p
	return nil
}

func (r *fakePassengerRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.passengers[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.passengers, id)
	return nil
}

type fakeReservationRepo struct {
	reservations map[string]*model.Reservation
	links        map[string][]string
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{
		reservations: map[string]*model.Reservation{},
		links:        map[string][]string{},
	}
}

func (r *fakeReservationRepo) Create(ctx context.Context, res *model.Reservation, passengerIDs []string) error {
	copied := *res
	r.reservations[res.ID] = &copied
	r.links[res.ID] = passengerIDs
	return nil
}

func (r *fakeReservationRepo) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if res, ok := r.reservations[id]; ok {
		copied := *res
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeReservationRepo) List(ctx context.Context, limit, offset int, createdBy string) ([]model.Reservation, int, error) {
	reservations := []model.Reservation{}
	for _, res := range r.reservations {
		if createdBy != "" && res.CreatedByID != createdBy {
			continue
		}
		reservations = append(reservations, *res)
	}
	return reservations, len(reservations), nil
}

func (r *fakeReservationRepo) Update(ctx context.Context, res *model.Reservation, passengerIDs []string) error {
	if _, ok := r.reservations[res.ID]; !ok {
		return common.ErrNotFound
	}
	copied := *res
	r.reservations[res.ID] = &copied
	if len(passengerIDs) > 0 {
		r.links[res.ID] = passengerIDs
	}
	return nil
}

func (r *fakeReservationRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.reservations[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.reservations, id)
	return nil
}

func testFlight() *model.Flight {
	return &model.Flight{
		ID:           "flight-1",
		FlightNumber: "TK123",
		Airline:      "Turkish Airlines",
		Departure:    "Istanbul",
		Arrival:      "New York",
		Slug:         "tk123-istanbul-new-york",
	}
}

func TestCreateReservationAuthenticated(t *testing.T) {
	passengerRepo := newFakePassengerRepo()
	reservationRepo := newFakeReservationRepo()
	svc := NewReservationService(reservationRepo, passengerRepo, newFakeFlightRepo(testFlight()))

	identity := &model.User{
		ID:        "user-alice",
		Email:     "alice@site.com",
		FirstName: "Alice",
		LastName:  "Doe",
		Gender:    "Female",
		Role:      model.RoleUser,
	}

	reservation, err := svc.CreateReservation(context.Background(), identity, CreateReservationRequest{FlightID: "flight-1"})
	require.NoError(t, err)

	// The passenger is derived from the caller's identity.
	require.Len(t, reservation.Passengers, 1)
	assert.Equal(t, "Alice", reservation.Passengers[0].FirstName)
	assert.Equal(t, "alice@site.com", reservation.Passengers[0].Email)
	assert.Equal(t, "user-alice", reservation.CreatedByID)
}

func TestCreateReservationGuest(t *testing.T) {
	passengerRepo := newFakePassengerRepo()
	reservationRepo := newFakeReservationRepo()
	svc := NewReservationService(reservationRepo, passengerRepo, newFakeFlightRepo(testFlight()))

	reservation, err := svc.CreateReservation(context.Background(), nil, CreateReservationRequest{
		FlightID: "flight-1",
		Passengers: []PassengerRequest{
			{FirstName: "John", LastName: "Doe", Gender: "Male", Email: "john.doe@example.com"},
		},
	})
	require.NoError(t, err)

	require.Len(t, reservation.Passengers, 1)
	assert.Equal(t, "john.doe@example.com", reservation.Passengers[0].Email)
	// Anonymous bookings are attributed to the created passenger.
	assert.Equal(t, reservation.Passengers[0].ID, reservation.CreatedByID)
}

func TestCreateReservationGuestWithoutPassengerInfo(t *testing.T) {
	svc := NewReservationService(newFakeReservationRepo(), newFakePassengerRepo(), newFakeFlightRepo(testFlight()))

	_, err := svc.CreateReservation(context.Background(), nil, CreateReservationRequest{FlightID: "flight-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "passenger information is required", err.Error())
}

func TestCreateReservationUnknownFlight(t *testing.T) {
	svc := NewReservationService(newFakeReservationRepo(), newFakePassengerRepo(), newFakeFlightRepo())

	_, err := svc.CreateReservation(context.Background(), nil, CreateReservationRequest{FlightID: "missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "flight not found", err.Error())
}

func TestListReservationsScopedToRegularUser(t *testing.T) {
	reservationRepo := newFakeReservationRepo()
	reservationRepo.reservations["res-1"] = &model.Reservation{ID: "res-1", FlightID: "flight-1", CreatedByID: "user-alice"}
	reservationRepo.reservations["res-2"] = &model.Reservation{ID: "res-2", FlightID: "flight-1", CreatedByID: "user-bob"}
	svc := NewReservationService(reservationRepo, newFakePassengerRepo(), newFakeFlightRepo(testFlight()))

	alice := &model.User{ID: "user-alice", Role: model.RoleUser}
	reservations, total, err := svc.ListReservations(context.Background(), alice, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, reservations, 1)
	assert.Equal(t, "res-1", reservations[0].ID)

	admin := &model.User{ID: "user-admin", Role: model.RoleAdmin}
	_, total, err = svc.ListReservations(context.Background(), admin, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
