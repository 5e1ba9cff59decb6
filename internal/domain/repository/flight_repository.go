package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"flight_api/internal/common"
	"flight_api/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// FlightFilter narrows List results; empty fields are ignored.
type FlightFilter struct {
	Airline   string
	Departure string
	Arrival   string
}

type FlightRepository interface {
	Create(ctx context.Context, flight *model.Flight) error
	FindByID(ctx context.Context, id string) (*model.Flight, error)
	FindBySlug(ctx context.Context, slug string) (*model.Flight, error)
	List(ctx context.Context, limit, offset int, filter FlightFilter) ([]model.Flight, int, error)
	Update(ctx context.Context, flight *model.Flight) error
	Delete(ctx context.Context, id string) error
}

type pgFlightRepository struct {
	db *sql.DB
}

func NewPgFlightRepository(db *sql.DB) FlightRepository {
	return &pgFlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, departure, departure_date, arrival, arrival_date, slug, created_by, created_at, updated_at`

func scanFlight(row interface{ Scan(dest ...interface{}) error }) (*model.Flight, error) {
	flight := &model.Flight{}
	err := row.Scan(
		&flight.ID, &flight.FlightNumber, &flight.Airline, &flight.Departure,
		&flight.DepartureDate, &flight.Arrival, &flight.ArrivalDate, &flight.Slug,
		&flight.CreatedByID, &flight.CreatedAt, &flight.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return flight, nil
}

func (r *pgFlightRepository) Create(ctx context.Context, f *model.Flight) error {
	query := `INSERT INTO flights (id, flight_number, airline, departure, departure_date, arrival, arrival_date, slug, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, f.ID, f.FlightNumber, f.Airline, f.Departure,
		f.DepartureDate, f.Arrival, f.ArrivalDate, f.Slug, f.CreatedByID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("flight with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgFlightRepository.Create: %w", err)
	}
	return nil
}

func (r *pgFlightRepository) FindByID(ctx context.Context, id string) (*model.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = $1`
	flight, err := scanFlight(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgFlightRepository.FindByID: %w", err)
	}
	return flight, nil
}

func (r *pgFlightRepository) FindBySlug(ctx context.Context, slug string) (*model.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE slug = $1`
	flight, err := scanFlight(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgFlightRepository.FindBySlug: %w", err)
	}
	return flight, nil
}

func (r *pgFlightRepository) List(ctx context.Context, limit, offset int, filter FlightFilter) ([]model.Flight, int, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	if filter.Airline != "" {
		conditions = append(conditions, fmt.Sprintf("airline ILIKE $%d", argID))
		args = append(args, "%"+filter.Airline+"%")
		argID++
	}
	if filter.Departure != "" {
		conditions = append(conditions, fmt.Sprintf("departure ILIKE $%d", argID))
		args = append(args, "%"+filter.Departure+"%")
		argID++
	}
	if filter.Arrival != "" {
		conditions = append(conditions, fmt.Sprintf("arrival ILIKE $%d", argID))
		args = append(args, "%"+filter.Arrival+"%")
		argID++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM flights` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgFlightRepository.List count: %w", err)
	}

	query := `SELECT ` + flightColumns + ` FROM flights` + whereClause +
		fmt.Sprintf(" ORDER BY departure_date ASC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgFlightRepository.List query: %w", err)
	}
	defer rows.Close()

	flights := []model.Flight{}
	for rows.Next() {
		flight, err := scanFlight(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgFlightRepository.List scan: %w", err)
		}
		flights = append(flights, *flight)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgFlightRepository.List rows.Err: %w", err)
	}
	return flights, total, nil
}

func (r *pgFlightRepository) Update(ctx context.Context, f *model.Flight) error {
	query := `UPDATE flights SET
	            flight_number = $1, airline = $2, departure = $3, departure_date = $4,
	            arrival = $5, arrival_date = $6, slug = $7, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query, f.FlightNumber, f.Airline, f.Departure,
		f.DepartureDate, f.Arrival, f.ArrivalDate, f.Slug, f.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("flight with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgFlightRepository.Update: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgFlightRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgFlightRepository.Delete: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
