package repositories

import (
	"context"
	"database/sql"
	"errors"

	intdb "seatreserve/internal/db"
	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
)

type StopRepository struct {
	DB *sql.DB
}

func (r StopRepository) Create(ctx context.Context, s *models.Stop) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO stops (id, name) VALUES (?, ?)`,
		intdb.NullIfZero(int64(s.ID)), s.Name)
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
	s.ID = domain.StopID(id)
	return nil
}

func (r StopRepository) GetByID(ctx context.Context, id domain.StopID) (models.Stop, error) {
	var out models.Stop
	err := r.DB.QueryRowContext(ctx, `SELECT id, name FROM stops WHERE id=? LIMIT 1`, id).Scan(&out.ID, &out.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return out, ErrNotFound
	}
	return out, err
}
