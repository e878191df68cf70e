package repositories

import (
	"context"
	"database/sql"
	"errors"

	intdb "seatreserve/internal/db"
	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
)

type BusModelRepository struct {
	DB *sql.DB
}

func (r BusModelRepository) Create(ctx context.Context, m *models.BusModel) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO bus_models (id, name, number_of_seats) VALUES (?, ?, ?)`,
		intdb.NullIfZero(int64(m.ID)), m.Name, m.NumberOfSeats)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = domain.BusModelID(id)
	return nil
}

func (r BusModelRepository) GetByID(ctx context.Context, id domain.BusModelID) (models.BusModel, error) {
	var out models.BusModel
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, number_of_seats FROM bus_models WHERE id=? LIMIT 1`, id,
	).Scan(&out.ID, &out.Name, &out.NumberOfSeats)
	if errors.Is(err, sql.ErrNoRows) {
		return out, ErrNotFound
	}
	return out, err
}

type BusRepository struct {
	DB *sql.DB
}

func (r BusRepository) Create(ctx context.Context, b *models.Bus) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO buses (id, bus_model_id) VALUES (?, ?)`,
		intdb.NullIfZero(int64(b.ID)), b.BusModelID)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = domain.BusID(id)
	return nil
}

func (r BusRepository) GetByID(ctx context.Context, id domain.BusID) (models.Bus, error) {
	var out models.Bus
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, bus_model_id FROM buses WHERE id=? LIMIT 1`, id,
	).Scan(&out.ID, &out.BusModelID)
	if errors.Is(err, sql.ErrNoRows) {
		return out, ErrNotFound
	}
	return out, err
}
