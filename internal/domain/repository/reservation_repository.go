package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"flight_api/internal/common"
	"flight_api/internal/domain/model"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation, passengerIDs []string) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	List(ctx context.Context, limit, offset int, createdBy string) ([]model.Reservation, int, error)
	Update(ctx context.Context, reservation *model.Reservation, passengerIDs []string) error
	Delete(ctx context.Context, id string) error
}

type pgReservationRepository struct {
	db *sql.DB
}

func NewPgReservationRepository(db *sql.DB) ReservationRepository {
	return &pgReservationRepository{db: db}
}

func (r *pgReservationRepository) Create(ctx context.Context, res *model.Reservation, passengerIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgReservationRepository.Create begin: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO reservations (id, flight_id, created_by) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, query, res.ID, res.FlightID, res.CreatedByID); err != nil {
		return fmt.Errorf("pgReservationRepository.Create: %w", err)
	}

	if err := linkPassengers(ctx, tx, res.ID, passengerIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgReservationRepository.Create commit: %w", err)
	}
	return nil
}

func linkPassengers(ctx context.Context, tx *sql.Tx, reservationID string, passengerIDs []string) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO reservation_passengers (reservation_id, passenger_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("pgReservationRepository.linkPassengers prepare: %w", err)
	}
	defer stmt.Close()

	for _, pid := range passengerIDs {
		if _, err := stmt.ExecContext(ctx, reservationID, pid); err != nil {
			return fmt.Errorf("pgReservationRepository.linkPassengers exec for passenger %s: %w", pid, err)
		}
	}
	return nil
}

func (r *pgReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	query := `
	    SELECT r.id, r.flight_id, r.created_by, r.created_at, r.updated_at,
	           f.id, f.flight_number, f.airline, f.departure, f.departure_date,
	           f.arrival, f.arrival_date, f.slug, f.created_by, f.created_at, f.updated_at
	    FROM reservations r
	    JOIN flights f ON r.flight_id = f.id
	    WHERE r.id = $1`

	res := &model.Reservation{}
	flight := &model.Flight{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.FlightID, &res.CreatedByID, &res.CreatedAt, &res.UpdatedAt,
		&flight.ID, &flight.FlightNumber, &flight.Airline, &flight.Departure, &flight.DepartureDate,
		&flight.Arrival, &flight.ArrivalDate, &flight.Slug, &flight.CreatedByID, &flight.CreatedAt, &flight.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgReservationRepository.FindByID: %w", err)
	}
	res.Flight = flight

	passengers, err := r.passengersFor(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	res.Passengers = passengers
	return res, nil
}

func (r *pgReservationRepository) passengersFor(ctx context.Context, reservationID string) ([]model.Passenger, error) {
	query := `
	    SELECT p.id, p.first_name, p.last_name, p.gender, p.email, p.created_by, p.created_at, p.updated_at
	    FROM passengers p
	    JOIN reservation_passengers rp ON rp.passenger_id = p.id
	    WHERE rp.reservation_id = $1`

	rows, err := r.db.QueryContext(ctx, query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("pgReservationRepository.passengersFor query: %w", err)
	}
	defer rows.Close()

	passengers := []model.Passenger{}
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, fmt.Errorf("pgReservationRepository.passengersFor scan: %w", err)
		}
		passengers = append(passengers, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgReservationRepository.passengersFor rows.Err: %w", err)
	}
	return passengers, nil
}

func (r *pgReservationRepository) List(ctx context.Context, limit, offset int, createdBy string) ([]model.Reservation, int, error) {
	whereClause := ""
	args := []interface{}{}
	argID := 1
	if createdBy != "" {
		whereClause = fmt.Sprintf(" WHERE created_by = $%d", argID)
		args = append(args, createdBy)
		argID++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgReservationRepository.List count: %w", err)
	}

	query := `SELECT id, flight_id, created_by, created_at, updated_at FROM reservations` + whereClause +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgReservationRepository.List query: %w", err)
	}
	defer rows.Close()

	reservations := []model.Reservation{}
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.FlightID, &res.CreatedByID, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("pgReservationRepository.List scan: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgReservationRepository.List rows.Err: %w", err)
	}

	// Passengers are loaded per reservation; list pages are small enough
	// that the extra queries are acceptable.
	for i := range reservations {
		passengers, err := r.passengersFor(ctx, reservations[i].ID)
		if err != nil {
			return nil, 0, err
		}
		reservations[i].Passengers = passengers
	}
	return reservations, total, nil
}

func (r *pgReservationRepository) Update(ctx context.Context, res *model.Reservation, passengerIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgReservationRepository.Update begin: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE reservations SET flight_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	result, err := tx.ExecContext(ctx, query, res.FlightID, res.ID)
	if err != nil {
		return fmt.Errorf("pgReservationRepository.Update: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.ErrNotFound
	}

	if len(passengerIDs) > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_passengers WHERE reservation_id = $1`, res.ID); err != nil {
			return fmt.Errorf("pgReservationRepository.Update clear passengers: %w", err)
		}
		if err := linkPassengers(ctx, tx, res.ID, passengerIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgReservationRepository.Update commit: %w", err)
	}
	return nil
}

func (r *pgReservationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgReservationRepository.Delete: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
