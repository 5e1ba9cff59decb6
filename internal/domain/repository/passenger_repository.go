package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"flight_api/internal/common"
	"flight_api/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type PassengerRepository interface {
	Create(ctx context.Context, passenger *model.Passenger) error
	FindByID(ctx context.Context, id string) (*model.Passenger, error)
	List(ctx context.Context, limit, offset int) ([]model.Passenger, int, error)
	Update(ctx context.Context, passenger *model.Passenger) error
	Delete(ctx context.Context, id string) error
}

type pgPassengerRepository struct {
	db *sql.DB
}

func NewPgPassengerRepository(db *sql.DB) PassengerRepository {
	return &pgPassengerRepository{db: db}
}

const passengerColumns = `id, first_name, last_name, gender, email, created_by, created_at, updated_at`

func scanPassenger(row interface{ Scan(dest ...interface{}) error }) (*model.Passenger, error) {
	p := &model.Passenger{}
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Gender, &p.Email,
		&p.CreatedByID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pgPassengerRepository) Create(ctx context.Context, p *model.Passenger) error {
	query := `INSERT INTO passengers (id, first_name, last_name, gender, email, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.FirstName, p.LastName, p.Gender, p.Email, p.CreatedByID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for email
			return fmt.Errorf("passenger with this email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgPassengerRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPassengerRepository) FindByID(ctx context.Context, id string) (*model.Passenger, error) {
	query := `SELECT ` + passengerColumns + ` FROM passengers WHERE id = $1`
	p, err := scanPassenger(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPassengerRepository.FindByID: %w", err)
	}
	return p, nil
}

func (r *pgPassengerRepository) List(ctx context.Context, limit, offset int) ([]model.Passenger, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passengers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgPassengerRepository.List count: %w", err)
	}

	query := `SELECT ` + passengerColumns + ` FROM passengers ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgPassengerRepository.List query: %w", err)
	}
	defer rows.Close()

	passengers := []model.Passenger{}
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgPassengerRepository.List scan: %w", err)
		}
		passengers = append(passengers, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgPassengerRepository.List rows.Err: %w", err)
	}
	return passengers, total, nil
}

func (r *pgPassengerRepository) Update(ctx context.Context, p *model.Passenger) error {
	query := `UPDATE passengers SET
	            first_name = $1, last_name = $2, gender = $3, email = $4, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, p.FirstName, p.LastName, p.Gender, p.Email, p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("passenger with this email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgPassengerRepository.Update: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgPassengerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM passengers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgPassengerRepository.Delete: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
