package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "seatreserve/internal/db"
	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
)

type RouteRepository struct {
	DB *sql.DB
}

// Create inserts the route and its stops in one transaction.
func (r RouteRepository) Create(ctx context.Context, route *models.Route, stops []models.RouteStop) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin route tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `INSERT INTO routes (id, name) VALUES (?, ?)`,
		intdb.NullIfZero(int64(route.ID)), route.Name)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	routeID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range stops {
		stops[i].RouteID = domain.RouteID(routeID)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO route_stops (id, route_id, stop_id, stop_index) VALUES (?, ?, ?, ?)`,
			intdb.NullIfZero(int64(stops[i].ID)), routeID, stops[i].StopID, stops[i].Index)
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
		stops[i].ID = domain.RouteStopID(id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit route tx: %w", err)
	}
	committed = true
	route.ID = domain.RouteID(routeID)
	return nil
}

func (r RouteRepository) GetByID(ctx context.Context, id domain.RouteID) (models.Route, error) {
	var out models.Route
	err := r.DB.QueryRowContext(ctx, `SELECT id, name FROM routes WHERE id=? LIMIT 1`, id).Scan(&out.ID, &out.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return out, ErrNotFound
	}
	return out, err
}

// ListStops returns the route's stops in storage order.
func (r RouteRepository) ListStops(ctx context.Context, id domain.RouteID) ([]models.RouteStop, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, route_id, stop_id, stop_index FROM route_stops WHERE route_id=? ORDER BY id ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RouteStop{}
	for rows.Next() {
		var rs models.RouteStop
		if err := rows.Scan(&rs.ID, &rs.RouteID, &rs.StopID, &rs.Index); err != nil {
			return out, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}
