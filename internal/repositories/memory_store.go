package repositories

import (
	"context"
	"errors"
	"sort"
	"sync"

	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
)

var (
	// ErrNotFound is returned by Find* when no row matches the key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned by Create* when the id is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// MemoryStore keeps every entity in process memory. Ids given on create must be
// unique; zero ids are assigned from a per-table sequence.
type MemoryStore struct {
	mu sync.RWMutex

	busModels    map[domain.BusModelID]models.BusModel
	buses        map[domain.BusID]models.Bus
	stops        map[domain.StopID]models.Stop
	routes       map[domain.RouteID]models.Route
	routeStops   []models.RouteStop
	trips        map[domain.TripID]models.Trip
	reservations []models.SeatReservation

	seq map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		busModels: map[domain.BusModelID]models.BusModel{},
		buses:     map[domain.BusID]models.Bus{},
		stops:     map[domain.StopID]models.Stop{},
		routes:    map[domain.RouteID]models.Route{},
		trips:     map[domain.TripID]models.Trip{},
		seq:       map[string]int64{},
	}
}

// next returns the id to use for table, bumping the sequence past explicit ids.
func (s *MemoryStore) next(table string, id int64) int64 {
	if id == 0 {
		s.seq[table]++
		return s.seq[table]
	}
	if id > s.seq[table] {
		s.seq[table] = id
	}
	return id
}

func (s *MemoryStore) CreateBusModel(_ context.Context, m *models.BusModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.busModels[m.ID]; ok && m.ID != 0 {
		return ErrDuplicate
	}
	m.ID = domain.BusModelID(s.next("bus_models", int64(m.ID)))
	s.busModels[m.ID] = *m
	return nil
}

func (s *MemoryStore) FindBusModel(_ context.Context, id domain.BusModelID) (models.BusModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.busModels[id]
	if !ok {
		return models.BusModel{}, ErrNotFound
	}
	return m, nil
}

func (s *MemoryStore) CreateBus(_ context.Context, b *models.Bus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buses[b.ID]; ok && b.ID != 0 {
		return ErrDuplicate
	}
	b.ID = domain.BusID(s.next("buses", int64(b.ID)))
	s.buses[b.ID] = *b
	return nil
}

func (s *MemoryStore) FindBus(_ context.Context, id domain.BusID) (models.Bus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buses[id]
	if !ok {
		return models.Bus{}, ErrNotFound
	}
	return b, nil
}

func (s *MemoryStore) CreateStop(_ context.Context, st *models.Stop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stops[st.ID]; ok && st.ID != 0 {
		return ErrDuplicate
	}
	st.ID = domain.StopID(s.next("stops", int64(st.ID)))
	s.stops[st.ID] = *st
	return nil
}

func (s *MemoryStore) FindStop(_ context.Context, id domain.StopID) (models.Stop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stops[id]
	if !ok {
		return models.Stop{}, ErrNotFound
	}
	return st, nil
}

// CreateRoute stores the route and its stops together; nothing is written when
// any id collides.
func (s *MemoryStore) CreateRoute(_ context.Context, r *models.Route, stops []models.RouteStop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.routes[r.ID]; ok && r.ID != 0 {
		return ErrDuplicate
	}
	seen := map[domain.RouteStopID]bool{}
	for _, rs := range s.routeStops {
		seen[rs.ID] = true
	}
	for _, rs := range stops {
		if rs.ID != 0 && seen[rs.ID] {
			return ErrDuplicate
		}
		seen[rs.ID] = true
	}

	r.ID = domain.RouteID(s.next("routes", int64(r.ID)))
	s.routes[r.ID] = *r
	for i := range stops {
		stops[i].RouteID = r.ID
		stops[i].ID = domain.RouteStopID(s.next("route_stops", int64(stops[i].ID)))
		s.routeStops = append(s.routeStops, stops[i])
	}
	return nil
}

func (s *MemoryStore) FindRoute(_ context.Context, id domain.RouteID) (models.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.routes[id]
	if !ok {
		return models.Route{}, ErrNotFound
	}
	return r, nil
}

// FindRouteStops filters the unordered route stop collection by route id.
func (s *MemoryStore) FindRouteStops(_ context.Context, id domain.RouteID) ([]models.RouteStop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.RouteStop{}
	for _, rs := range s.routeStops {
		if rs.RouteID == id {
			out = append(out, rs)
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateTrip(_ context.Context, t *models.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[t.ID]; ok && t.ID != 0 {
		return ErrDuplicate
	}
	t.ID = domain.TripID(s.next("trips", int64(t.ID)))
	s.trips[t.ID] = *t
	return nil
}

func (s *MemoryStore) FindTrip(_ context.Context, id domain.TripID) (models.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trips[id]
	if !ok {
		return models.Trip{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) ListSeatReservations(_ context.Context, tripID domain.TripID) ([]models.SeatReservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.SeatReservation{}
	for _, r := range s.reservations {
		if r.TripID == tripID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) AppendSeatReservation(_ context.Context, r *models.SeatReservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reservations {
		if r.Code != "" && existing.Code == r.Code {
			return ErrDuplicate
		}
	}
	r.ID = s.next("seat_reservations", 0)
	s.reservations = append(s.reservations, *r)
	return nil
}

func (s *MemoryStore) FindSeatReservation(_ context.Context, code string) (models.SeatReservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reservations {
		if r.Code == code {
			return r, nil
		}
	}
	return models.SeatReservation{}, ErrNotFound
}

// Ping always succeeds; it lets the health check treat every store alike.
func (s *MemoryStore) Ping(context.Context) error { return nil }
