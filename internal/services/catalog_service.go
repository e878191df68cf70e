package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"seatreserve/internal/config"
	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
	"seatreserve/internal/repositories"
	"seatreserve/internal/utils"
)

var validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CatalogService creates and shows the entities a trip is made of. Every
// create checks that the entities it references already exist.
type CatalogService struct {
	Store     Store
	RequestID string
}

// RouteDetail is a route with its stops ordered by index.
type RouteDetail struct {
	models.Route
	Stops []models.RouteStop `json:"stops"`
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		f := ve[0]
		return domain.ValidationError{Field: f.Field(), Msg: fmt.Sprintf("failed on %s", f.Tag())}
	}
	return domain.ValidationError{Msg: err.Error()}
}

func (s CatalogService) CreateBusModel(ctx context.Context, in models.BusModel) (models.BusModel, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return models.BusModel{}, validationError(err)
	}
	if err := s.Store.CreateBusModel(ctx, &in); err != nil {
		return models.BusModel{}, createError(err, "bus model")
	}
	utils.LogEvent(s.RequestID, "catalog", "create_bus_model", "bus model created", "id", int64(in.ID))
	return in, nil
}

func (s CatalogService) CreateBus(ctx context.Context, in models.Bus) (models.Bus, error) {
	if err := validate.Struct(in); err != nil {
		return models.Bus{}, validationError(err)
	}
	if _, err := s.Store.FindBusModel(ctx, in.BusModelID); err != nil {
		return models.Bus{}, lookupError(err, "bus model", domain.ErrBusModelNotFound)
	}
	if err := s.Store.CreateBus(ctx, &in); err != nil {
		return models.Bus{}, createError(err, "bus")
	}
	utils.LogEvent(s.RequestID, "catalog", "create_bus", "bus created", "id", int64(in.ID))
	return in, nil
}

func (s CatalogService) CreateStop(ctx context.Context, in models.Stop) (models.Stop, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return models.Stop{}, validationError(err)
	}
	if err := s.Store.CreateStop(ctx, &in); err != nil {
		return models.Stop{}, createError(err, "stop")
	}
	utils.LogEvent(s.RequestID, "catalog", "create_stop", "stop created", "id", int64(in.ID))
	return in, nil
}

// checkRouteStops requires indices 0..n-1, each used once, in any order.
func checkRouteStops(stops []models.RouteStop) error {
	if len(stops) == 0 {
		return domain.ValidationError{Field: "stops", Msg: "route needs at least one stop", Err: domain.ErrInvalidRouteStops}
	}
	seen := make([]bool, len(stops))
	for _, rs := range stops {
		if rs.Index < 0 || rs.Index >= len(stops) || seen[rs.Index] {
			return domain.ValidationError{
				Field: "stops",
				Msg:   fmt.Sprintf("index %d must be unique and within [0, %d)", rs.Index, len(stops)),
				Err:   domain.ErrInvalidRouteStops,
			}
		}
		seen[rs.Index] = true
	}
	return nil
}

func (s CatalogService) CreateRoute(ctx context.Context, route models.Route, stops []models.RouteStop) (RouteDetail, error) {
	route.Name = utils.NormalizeSpace(route.Name)
	for _, rs := range stops {
		if err := validate.Struct(rs); err != nil {
			return RouteDetail{}, validationError(err)
		}
	}
	if err := checkRouteStops(stops); err != nil {
		return RouteDetail{}, err
	}
	for _, rs := range stops {
		if _, err := s.Store.FindStop(ctx, rs.StopID); err != nil {
			return RouteDetail{}, lookupError(err, "stop", domain.ErrStopNotFound)
		}
	}

	stops = append([]models.RouteStop(nil), stops...)
	if err := s.Store.CreateRoute(ctx, &route, stops); err != nil {
		return RouteDetail{}, createError(err, "route")
	}
	models.SortRouteStops(stops)
	utils.LogEvent(s.RequestID, "catalog", "create_route", "route created", "id", int64(route.ID), "stops", len(stops))
	return RouteDetail{Route: route, Stops: stops}, nil
}

func (s CatalogService) CreateTrip(ctx context.Context, in models.Trip) (models.Trip, error) {
	if err := validate.Struct(in); err != nil {
		return models.Trip{}, validationError(err)
	}
	if _, err := s.Store.FindRoute(ctx, in.RouteID); err != nil {
		return models.Trip{}, lookupError(err, "route", domain.ErrRouteNotFound)
	}
	if _, err := s.Store.FindBus(ctx, in.BusID); err != nil {
		return models.Trip{}, lookupError(err, "bus", domain.ErrBusNotFound)
	}
	if err := s.Store.CreateTrip(ctx, &in); err != nil {
		return models.Trip{}, createError(err, "trip")
	}
	utils.LogEvent(s.RequestID, "catalog", "create_trip", "trip created", "id", int64(in.ID))
	return in, nil
}

func (s CatalogService) ShowBusModel(ctx context.Context, id domain.BusModelID) (models.BusModel, error) {
	m, err := s.Store.FindBusModel(ctx, id)
	if err != nil {
		return m, lookupError(err, "bus model", domain.ErrBusModelNotFound)
	}
	return m, nil
}

func (s CatalogService) ShowBus(ctx context.Context, id domain.BusID) (models.Bus, error) {
	b, err := s.Store.FindBus(ctx, id)
	if err != nil {
		return b, lookupError(err, "bus", domain.ErrBusNotFound)
	}
	return b, nil
}

func (s CatalogService) ShowStop(ctx context.Context, id domain.StopID) (models.Stop, error) {
	st, err := s.Store.FindStop(ctx, id)
	if err != nil {
		return st, lookupError(err, "stop", domain.ErrStopNotFound)
	}
	return st, nil
}

func (s CatalogService) ShowRoute(ctx context.Context, id domain.RouteID) (RouteDetail, error) {
	r, err := s.Store.FindRoute(ctx, id)
	if err != nil {
		return RouteDetail{}, lookupError(err, "route", domain.ErrRouteNotFound)
	}
	stops, err := s.Store.FindRouteStops(ctx, id)
	if err != nil {
		return RouteDetail{}, domain.InternalError{Msg: "failed to load route stops", Err: err}
	}
	models.SortRouteStops(stops)
	return RouteDetail{Route: r, Stops: stops}, nil
}

func (s CatalogService) ShowTrip(ctx context.Context, id domain.TripID) (models.Trip, error) {
	t, err := s.Store.FindTrip(ctx, id)
	if err != nil {
		return t, lookupError(err, "trip", domain.ErrTripNotFound)
	}
	return t, nil
}

// Seed creates every entity of seed in dependency order and stops at the first error.
// SeedLoaded reports whether the first entity of seed that carries an explicit
// id is already stored. A seed with no explicit ids never counts as loaded.
func (s CatalogService) SeedLoaded(ctx context.Context, seed config.Seed) (bool, error) {
	var err error
	switch {
	case len(seed.BusModels) > 0 && seed.BusModels[0].ID != 0:
		_, err = s.Store.FindBusModel(ctx, seed.BusModels[0].ID)
	case len(seed.Buses) > 0 && seed.Buses[0].ID != 0:
		_, err = s.Store.FindBus(ctx, seed.Buses[0].ID)
	case len(seed.Stops) > 0 && seed.Stops[0].ID != 0:
		_, err = s.Store.FindStop(ctx, seed.Stops[0].ID)
	case len(seed.Routes) > 0 && seed.Routes[0].ID != 0:
		_, err = s.Store.FindRoute(ctx, seed.Routes[0].ID)
	case len(seed.Trips) > 0 && seed.Trips[0].ID != 0:
		_, err = s.Store.FindTrip(ctx, seed.Trips[0].ID)
	default:
		return false, nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check seed: %w", err)
	}
	return true, nil
}

// Seed creates every entity in dependency order and stops at the first error.
func (s CatalogService) Seed(ctx context.Context, seed config.Seed) error {
	for _, m := range seed.BusModels {
		if _, err := s.CreateBusModel(ctx, m); err != nil {
			return fmt.Errorf("seed bus model %d: %w", m.ID, err)
		}
	}
	for _, b := range seed.Buses {
		if _, err := s.CreateBus(ctx, b); err != nil {
			return fmt.Errorf("seed bus %d: %w", b.ID, err)
		}
	}
	for _, st := range seed.Stops {
		if _, err := s.CreateStop(ctx, st); err != nil {
			return fmt.Errorf("seed stop %d: %w", st.ID, err)
		}
	}
	for _, r := range seed.Routes {
		if _, err := s.CreateRoute(ctx, r.Route, r.Stops); err != nil {
			return fmt.Errorf("seed route %d: %w", r.ID, err)
		}
	}
	for _, t := range seed.Trips {
		if _, err := s.CreateTrip(ctx, t); err != nil {
			return fmt.Errorf("seed trip %d: %w", t.ID, err)
		}
	}
	utils.LogEvent(s.RequestID, "catalog", "seed", "seed loaded",
		"bus_models", len(seed.BusModels), "buses", len(seed.Buses), "stops", len(seed.Stops),
		"routes", len(seed.Routes), "trips", len(seed.Trips))
	return nil
}
