package repositories

import (
	"context"
	"database/sql"
	"errors"

	intdb "seatreserve/internal/db"
	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
)

// SeatReservationRepository is append-only: rows are inserted once and never updated.
type SeatReservationRepository struct {
	DB *sql.DB
}

const seatReservationCols = `id, code, trip_id, seat_index, from_stop_index, to_stop_index, created_at`

func scanSeatReservation(row interface{ Scan(...any) error }) (models.SeatReservation, error) {
	var out models.SeatReservation
	err := row.Scan(&out.ID, &out.Code, &out.TripID, &out.SeatIndex, &out.FromStopIndex, &out.ToStopIndex, &out.CreatedAt)
	return out, err
}

func (r SeatReservationRepository) ListByTripID(ctx context.Context, tripID domain.TripID) ([]models.SeatReservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+seatReservationCols+` FROM seat_reservations WHERE trip_id=? ORDER BY id ASC`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SeatReservation{}
	for rows.Next() {
		rec, err := scanSeatReservation(rows)
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r SeatReservationRepository) Insert(ctx context.Context, rec *models.SeatReservation) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO seat_reservations (code, trip_id, seat_index, from_stop_index, to_stop_index, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Code, rec.TripID, rec.SeatIndex, rec.FromStopIndex, rec.ToStopIndex, rec.CreatedAt)
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
	rec.ID = id
	return nil
}

func (r SeatReservationRepository) GetByCode(ctx context.Context, code string) (models.SeatReservation, error) {
	rec, err := scanSeatReservation(r.DB.QueryRowContext(ctx,
		`SELECT `+seatReservationCols+` FROM seat_reservations WHERE code=? LIMIT 1`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	return rec, err
}
