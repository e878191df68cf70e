package services

import (
	"context"
	"errors"

	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
	"seatreserve/internal/repositories"
)

// TripAggregate bundles what sizes and validates a reservation on one trip.
// It is built per request and never cached.
type TripAggregate struct {
	Trip       models.Trip
	Route      models.Route
	Bus        models.Bus
	BusModel   models.BusModel
	RouteStops []models.RouteStop
}

func (a TripAggregate) StopsCount() int { return len(a.RouteStops) }

func (a TripAggregate) SeatsCount() int { return a.BusModel.NumberOfSeats }

type aggregateStore interface {
	TripStore
	RouteStore
	BusStore
	BusModelStore
}

// ResolveTripAggregate walks trip -> route -> bus -> bus model -> route stops.
// The first missing entity decides the error.
func ResolveTripAggregate(ctx context.Context, store aggregateStore, tripID domain.TripID) (TripAggregate, error) {
	var (
		agg TripAggregate
		err error
	)
	if agg.Trip, err = store.FindTrip(ctx, tripID); err != nil {
		return agg, lookupError(err, "trip", domain.ErrTripNotFound)
	}
	if agg.Route, err = store.FindRoute(ctx, agg.Trip.RouteID); err != nil {
		return agg, lookupError(err, "route", domain.ErrRouteNotFound)
	}
	if agg.Bus, err = store.FindBus(ctx, agg.Trip.BusID); err != nil {
		return agg, lookupError(err, "bus", domain.ErrBusNotFound)
	}
	if agg.BusModel, err = store.FindBusModel(ctx, agg.Bus.BusModelID); err != nil {
		return agg, lookupError(err, "bus model", domain.ErrBusModelNotFound)
	}
	stops, err := store.FindRouteStops(ctx, agg.Route.ID)
	if err != nil {
		return agg, domain.InternalError{Msg: "failed to load route stops", Err: err}
	}
	models.SortRouteStops(stops)
	agg.RouteStops = stops
	return agg, nil
}

// lookupError turns a store miss into a NotFoundError and anything else into an InternalError.
func lookupError(err error, resource string, sentinel error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return domain.NotFoundError{Resource: resource, Err: sentinel}
	}
	return domain.InternalError{Msg: "failed to load " + resource, Err: err}
}

// createError maps a store insert failure.
func createError(err error, resource string) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return domain.ConflictError{Resource: resource, Msg: "id already exists", Err: domain.ErrDuplicateID}
	}
	return domain.InternalError{Msg: "failed to save " + resource, Err: err}
}
