package repositories

import (
	"context"
	"database/sql"
	"errors"

	intdb "seatreserve/internal/db"
	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
)

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) Create(ctx context.Context, t *models.Trip) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO trips (id, route_id, bus_id) VALUES (?, ?, ?)`,
		intdb.NullIfZero(int64(t.ID)), t.RouteID, t.BusID)
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
	t.ID = domain.TripID(id)
	return nil
}

func (r TripRepository) GetByID(ctx context.Context, id domain.TripID) (models.Trip, error) {
	var out models.Trip
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, route_id, bus_id FROM trips WHERE id=? LIMIT 1`, id,
	).Scan(&out.ID, &out.RouteID, &out.BusID)
	if errors.Is(err, sql.ErrNoRows) {
		return out, ErrNotFound
	}
	return out, err
}
