package services

import (
	"context"

	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
)

// Find* methods return repositories.ErrNotFound when the key is unknown and
// Create* methods return repositories.ErrDuplicate when the id is taken.

type BusModelStore interface {
	CreateBusModel(ctx context.Context, m *models.BusModel) error
	FindBusModel(ctx context.Context, id domain.BusModelID) (models.BusModel, error)
}

type BusStore interface {
	CreateBus(ctx context.Context, b *models.Bus) error
	FindBus(ctx context.Context, id domain.BusID) (models.Bus, error)
}

type StopStore interface {
	CreateStop(ctx context.Context, s *models.Stop) error
	FindStop(ctx context.Context, id domain.StopID) (models.Stop, error)
}

type RouteStore interface {
	CreateRoute(ctx context.Context, r *models.Route, stops []models.RouteStop) error
	FindRoute(ctx context.Context, id domain.RouteID) (models.Route, error)
	FindRouteStops(ctx context.Context, id domain.RouteID) ([]models.RouteStop, error)
}

type TripStore interface {
	CreateTrip(ctx context.Context, t *models.Trip) error
	FindTrip(ctx context.Context, id domain.TripID) (models.Trip, error)
}

type SeatReservationStore interface {
	ListSeatReservations(ctx context.Context, tripID domain.TripID) ([]models.SeatReservation, error)
	AppendSeatReservation(ctx context.Context, r *models.SeatReservation) error
	FindSeatReservation(ctx context.Context, code string) (models.SeatReservation, error)
}

// Store is everything the services need; MemoryStore and MySQLStore both satisfy it.
type Store interface {
	BusModelStore
	BusStore
	StopStore
	RouteStore
	TripStore
	SeatReservationStore
	Ping(ctx context.Context) error
}
