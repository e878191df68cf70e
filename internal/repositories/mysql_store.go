package repositories

import (
	"context"
	"database/sql"

	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
)

// MySQLStore exposes the per-table repositories behind the same method set as MemoryStore.
type MySQLStore struct {
	DB           *sql.DB
	BusModels    BusModelRepository
	Buses        BusRepository
	Stops        StopRepository
	Routes       RouteRepository
	Trips        TripRepository
	Reservations SeatReservationRepository
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{
		DB:           db,
		BusModels:    BusModelRepository{DB: db},
		Buses:        BusRepository{DB: db},
		Stops:        StopRepository{DB: db},
		Routes:       RouteRepository{DB: db},
		Trips:        TripRepository{DB: db},
		Reservations: SeatReservationRepository{DB: db},
	}
}

func (s *MySQLStore) CreateBusModel(ctx context.Context, m *models.BusModel) error {
	return s.BusModels.Create(ctx, m)
}

func (s *MySQLStore) FindBusModel(ctx context.Context, id domain.BusModelID) (models.BusModel, error) {
	return s.BusModels.GetByID(ctx, id)
}

func (s *MySQLStore) CreateBus(ctx context.Context, b *models.Bus) error {
	return s.Buses.Create(ctx, b)
}

func (s *MySQLStore) FindBus(ctx context.Context, id domain.BusID) (models.Bus, error) {
	return s.Buses.GetByID(ctx, id)
}

func (s *MySQLStore) CreateStop(ctx context.Context, st *models.Stop) error {
	return s.Stops.Create(ctx, st)
}

func (s *MySQLStore) FindStop(ctx context.Context, id domain.StopID) (models.Stop, error) {
	return s.Stops.GetByID(ctx, id)
}

func (s *MySQLStore) CreateRoute(ctx context.Context, r *models.Route, stops []models.RouteStop) error {
	return s.Routes.Create(ctx, r, stops)
}

func (s *MySQLStore) FindRoute(ctx context.Context, id domain.RouteID) (models.Route, error) {
	return s.Routes.GetByID(ctx, id)
}

func (s *MySQLStore) FindRouteStops(ctx context.Context, id domain.RouteID) ([]models.RouteStop, error) {
	return s.Routes.ListStops(ctx, id)
}

func (s *MySQLStore) CreateTrip(ctx context.Context, t *models.Trip) error {
	return s.Trips.Create(ctx, t)
}

func (s *MySQLStore) FindTrip(ctx context.Context, id domain.TripID) (models.Trip, error) {
	return s.Trips.GetByID(ctx, id)
}

func (s *MySQLStore) ListSeatReservations(ctx context.Context, tripID domain.TripID) ([]models.SeatReservation, error) {
	return s.Reservations.ListByTripID(ctx, tripID)
}

func (s *MySQLStore) AppendSeatReservation(ctx context.Context, r *models.SeatReservation) error {
	return s.Reservations.Insert(ctx, r)
}

func (s *MySQLStore) FindSeatReservation(ctx context.Context, code string) (models.SeatReservation, error) {
	return s.Reservations.GetByCode(ctx, code)
}

func (s *MySQLStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
