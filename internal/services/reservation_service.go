package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
	"seatreserve/internal/occupancy"
	"seatreserve/internal/repositories"
	"seatreserve/internal/utils"
)

// ReservationService admits seat reservations. Handlers copy it per request to
// set RequestID and Actor (the authenticated subject, logged on writes); Store
// and Locker are shared.
type ReservationService struct {
	Store     Store
	Locker    TripLocker
	RequestID string
	Actor     string
	Now       func() time.Time
	NewCode   func() string
}

// ReserveSeatForm asks for SeatIndex over the inclusive stop range
// [FromStopIndex, ToStopIndex] of TripID.
type ReserveSeatForm struct {
	TripID        domain.TripID `json:"trip_id"`
	SeatIndex     int           `json:"seat_index"`
	FromStopIndex int           `json:"from_stop_index"`
	ToStopIndex   int           `json:"to_stop_index"`
}

func (s ReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s ReservationService) newCode() string {
	if s.NewCode != nil {
		return s.NewCode()
	}
	return uuid.NewString()
}

func (s ReservationService) locker() TripLocker {
	if s.Locker != nil {
		return s.Locker
	}
	return defaultLocker
}

var defaultLocker = NewLocalTripLocker()

// validateRange checks a (seat, from, to) request against the trip dimensions.
func validateRange(agg TripAggregate, seat, from, to int) error {
	stops, seats := agg.StopsCount(), agg.SeatsCount()
	if from < 0 || from >= stops {
		return domain.ValidationError{Field: "from_stop_index", Msg: fmt.Sprintf("must be in [0, %d)", stops), Err: domain.ErrInvalidFromStop}
	}
	if to < 0 || to >= stops {
		return domain.ValidationError{Field: "to_stop_index", Msg: fmt.Sprintf("must be in [0, %d)", stops), Err: domain.ErrInvalidToStop}
	}
	if seat < 0 || seat >= seats {
		return domain.ValidationError{Field: "seat_index", Msg: fmt.Sprintf("must be in [0, %d)", seats), Err: domain.ErrInvalidSeat}
	}
	if from > to {
		return domain.ValidationError{Field: "to_stop_index", Msg: "must not be before from_stop_index", Err: domain.ErrInvalidRange}
	}
	return nil
}

// ReserveSeat resolves the trip, validates the request, and appends it unless it
// collides with the trip's current occupancy. Nothing is stored on failure.
func (s ReservationService) ReserveSeat(ctx context.Context, form ReserveSeatForm) (models.SeatReservation, error) {
	agg, err := ResolveTripAggregate(ctx, s.Store, form.TripID)
	if err != nil {
		return models.SeatReservation{}, err
	}
	if err := validateRange(agg, form.SeatIndex, form.FromStopIndex, form.ToStopIndex); err != nil {
		return models.SeatReservation{}, err
	}

	candidate, err := models.NewSeatReservation(form.TripID, form.SeatIndex, form.FromStopIndex, form.ToStopIndex,
		agg.SeatsCount(), agg.StopsCount())
	if err != nil {
		return models.SeatReservation{}, domain.InternalError{Msg: "failed to build reservation", Err: err}
	}

	unlock, err := s.locker().Lock(ctx, form.TripID)
	if err != nil {
		return models.SeatReservation{}, err
	}
	defer unlock()

	current, err := s.tripOccupancy(ctx, agg)
	if err != nil {
		return models.SeatReservation{}, err
	}
	want, err := candidate.Occupancy(agg.SeatsCount(), agg.StopsCount())
	if err != nil {
		return models.SeatReservation{}, domain.InternalError{Msg: "failed to build reservation", Err: err}
	}
	taken, err := current.HasCollidingBits(want)
	if err != nil {
		return models.SeatReservation{}, domain.InternalError{Msg: "failed to check occupancy", Err: err}
	}
	if taken {
		return models.SeatReservation{}, domain.ConflictError{
			Resource: "seat",
			Msg:      fmt.Sprintf("seat %d is already reserved between stops %d and %d", form.SeatIndex, form.FromStopIndex, form.ToStopIndex),
			Err:      domain.ErrSeatAlreadyReserved,
		}
	}

	candidate.Code = s.newCode()
	candidate.CreatedAt = s.now()
	if err := s.Store.AppendSeatReservation(ctx, &candidate); err != nil {
		return models.SeatReservation{}, domain.InternalError{Msg: "failed to save reservation", Err: err}
	}
	utils.LogEvent(s.RequestID, "reservations", "reserve_seat", "seat reserved",
		"trip_id", int64(form.TripID), "seat_index", form.SeatIndex,
		"from_stop_index", form.FromStopIndex, "to_stop_index", form.ToStopIndex, "code", candidate.Code, "actor", s.Actor)
	return candidate, nil
}

// tripOccupancy loads the trip's reservations and folds them. Inconsistencies
// are logged here so they are never mistaken for an ordinary rejection.
func (s ReservationService) tripOccupancy(ctx context.Context, agg TripAggregate) (*occupancy.Matrix, error) {
	records, err := s.Store.ListSeatReservations(ctx, agg.Trip.ID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load reservations", Err: err}
	}
	m, err := BuildTripOccupancy(agg.Trip.ID, agg.SeatsCount(), agg.StopsCount(), records)
	if err != nil {
		if errors.Is(err, domain.ErrInconsistentOccupancy) {
			utils.LogError(s.RequestID, "reservations", "build_occupancy", err, "trip_id", int64(agg.Trip.ID), "alert", true)
		}
		return nil, err
	}
	return m, nil
}

// SeatOccupancy lists the reserved stop positions of one seat.
type SeatOccupancy struct {
	Seat          int   `json:"seat"`
	StopPositions []int `json:"stop_positions"`
}

// SeatMap is the current occupancy of a trip.
type SeatMap struct {
	TripID      domain.TripID   `json:"trip_id"`
	Seats       int             `json:"seats"`
	Stops       int             `json:"stops"`
	Grid        []string        `json:"grid"`
	Occupied    []SeatOccupancy `json:"occupied"`
	StopLoad    []int           `json:"stop_load"`
	FreeCells   int             `json:"free_cells"`
	RouteStopID []int64         `json:"route_stop_ids"`
}

func (s ReservationService) SeatMap(ctx context.Context, tripID domain.TripID) (SeatMap, error) {
	agg, err := ResolveTripAggregate(ctx, s.Store, tripID)
	if err != nil {
		return SeatMap{}, err
	}
	m, err := s.tripOccupancy(ctx, agg)
	if err != nil {
		return SeatMap{}, err
	}

	out := SeatMap{
		TripID:    tripID,
		Seats:     agg.SeatsCount(),
		Stops:     agg.StopsCount(),
		Grid:      m.Lines(),
		Occupied:  []SeatOccupancy{},
		StopLoad:  make([]int, agg.StopsCount()),
		FreeCells: agg.SeatsCount()*agg.StopsCount() - m.Count(),
	}
	for _, rs := range agg.RouteStops {
		out.RouteStopID = append(out.RouteStopID, int64(rs.ID))
	}
	for seat := 0; seat < out.Seats; seat++ {
		row := m.Row(seat)
		if row.Count() == 0 {
			continue
		}
		occ := SeatOccupancy{Seat: seat}
		for x := 0; x < out.Stops; x++ {
			if row.Get(x, 0) {
				occ.StopPositions = append(occ.StopPositions, x)
			}
		}
		out.Occupied = append(out.Occupied, occ)
	}
	for x := 0; x < out.Stops; x++ {
		out.StopLoad[x] = m.Column(x).Count()
	}
	return out, nil
}

// AvailableSeats returns the seats that are free over [from, to].
func (s ReservationService) AvailableSeats(ctx context.Context, tripID domain.TripID, from, to int) ([]int, error) {
	agg, err := ResolveTripAggregate(ctx, s.Store, tripID)
	if err != nil {
		return nil, err
	}
	if err := validateRange(agg, 0, from, to); err != nil && !errors.Is(err, domain.ErrInvalidSeat) {
		return nil, err
	}
	m, err := s.tripOccupancy(ctx, agg)
	if err != nil {
		return nil, err
	}

	free := []int{}
	for seat := 0; seat < agg.SeatsCount(); seat++ {
		want := occupancy.New(agg.StopsCount(), 1)
		if err := want.SetRowRange(0, from, to, true); err != nil {
			return nil, domain.InternalError{Msg: "failed to build seat range", Err: err}
		}
		taken, err := m.Row(seat).HasCollidingBits(want)
		if err != nil {
			return nil, domain.InternalError{Msg: "failed to check occupancy", Err: err}
		}
		if !taken {
			free = append(free, seat)
		}
	}
	return free, nil
}

func (s ReservationService) ListReservations(ctx context.Context, tripID domain.TripID) ([]models.SeatReservation, error) {
	if _, err := s.Store.FindTrip(ctx, tripID); err != nil {
		return nil, lookupError(err, "trip", domain.ErrTripNotFound)
	}
	out, err := s.Store.ListSeatReservations(ctx, tripID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load reservations", Err: err}
	}
	return out, nil
}

func (s ReservationService) ShowReservation(ctx context.Context, code string) (models.SeatReservation, error) {
	r, err := s.Store.FindSeatReservation(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return r, domain.NotFoundError{Resource: "reservation", Err: domain.ErrReservationNotFound}
		}
		return r, domain.InternalError{Msg: "failed to load reservation", Err: err}
	}
	return r, nil
}
