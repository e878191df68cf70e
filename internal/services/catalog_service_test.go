package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatreserve/internal/config"
	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
	"seatreserve/internal/repositories"
)

func TestCatalogCreateAndShow(t *testing.T) {
	ctx := context.Background()
	svc := CatalogService{Store: repositories.NewMemoryStore()}

	bm, err := svc.CreateBusModel(ctx, models.BusModel{Name: "  Coach   40 ", NumberOfSeats: 40})
	require.NoError(t, err)
	assert.Equal(t, "Coach 40", bm.Name)
	assert.NotZero(t, bm.ID)

	bus, err := svc.CreateBus(ctx, models.Bus{ID: 10, BusModelID: bm.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.BusID(10), bus.ID)

	a, err := svc.CreateStop(ctx, models.Stop{Name: "A"})
	require.NoError(t, err)
	b, err := svc.CreateStop(ctx, models.Stop{Name: "B"})
	require.NoError(t, err)

	route, err := svc.CreateRoute(ctx, models.Route{Name: "A-B"}, []models.RouteStop{
		{StopID: b.ID, Index: 1},
		{StopID: a.ID, Index: 0},
	})
	require.NoError(t, err)
	require.Len(t, route.Stops, 2)
	assert.Equal(t, a.ID, route.Stops[0].StopID)
	assert.Equal(t, route.ID, route.Stops[0].RouteID)

	trip, err := svc.CreateTrip(ctx, models.Trip{RouteID: route.ID, BusID: bus.ID})
	require.NoError(t, err)

	gotTrip, err := svc.ShowTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip, gotTrip)

	gotRoute, err := svc.ShowRoute(ctx, route.ID)
	require.NoError(t, err)
	assert.Equal(t, route, gotRoute)

	gotBus, err := svc.ShowBus(ctx, bus.ID)
	require.NoError(t, err)
	assert.Equal(t, bm.ID, gotBus.BusModelID)

	gotModel, err := svc.ShowBusModel(ctx, bm.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, gotModel.NumberOfSeats)

	gotStop, err := svc.ShowStop(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", gotStop.Name)
}

func TestCatalogShowMissing(t *testing.T) {
	ctx := context.Background()
	svc := CatalogService{Store: repositories.NewMemoryStore()}

	_, err := svc.ShowBusModel(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrBusModelNotFound)
	_, err = svc.ShowBus(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrBusNotFound)
	_, err = svc.ShowStop(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrStopNotFound)
	_, err = svc.ShowRoute(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)
	_, err = svc.ShowTrip(ctx, 1)
	assert.True(t, domain.IsNotFound(err))
	assert.ErrorIs(t, err, domain.ErrTripNotFound)
}

func TestCatalogValidation(t *testing.T) {
	ctx := context.Background()
	svc := CatalogService{Store: repositories.NewMemoryStore()}

	_, err := svc.CreateBusModel(ctx, models.BusModel{Name: "X", NumberOfSeats: 0})
	require.Error(t, err)
	var ve domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "number_of_seats", ve.Field)

	_, err = svc.CreateBusModel(ctx, models.BusModel{Name: "   ", NumberOfSeats: 3})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CreateStop(ctx, models.Stop{})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CreateTrip(ctx, models.Trip{RouteID: 1})
	assert.True(t, domain.IsValidation(err))
}

func TestCatalogRouteStopIndices(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := CatalogService{Store: store}
	for i := 0; i < 3; i++ {
		_, err := svc.CreateStop(ctx, models.Stop{Name: "S"})
		require.NoError(t, err)
	}

	cases := map[string][]models.RouteStop{
		"empty":     nil,
		"gap":       {{StopID: 1, Index: 0}, {StopID: 2, Index: 2}},
		"duplicate": {{StopID: 1, Index: 0}, {StopID: 2, Index: 0}},
		"not zero":  {{StopID: 1, Index: 1}, {StopID: 2, Index: 2}},
	}
	for name, stops := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateRoute(ctx, models.Route{Name: name}, stops)
			assert.True(t, domain.IsValidation(err))
			assert.ErrorIs(t, err, domain.ErrInvalidRouteStops)
		})
	}

	_, err := svc.CreateRoute(ctx, models.Route{Name: "ghost"}, []models.RouteStop{{StopID: 99, Index: 0}})
	assert.ErrorIs(t, err, domain.ErrStopNotFound)
}

func TestCatalogReferencesAndDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := CatalogService{Store: repositories.NewMemoryStore()}

	_, err := svc.CreateBus(ctx, models.Bus{BusModelID: 5})
	assert.ErrorIs(t, err, domain.ErrBusModelNotFound)

	_, err = svc.CreateBusModel(ctx, models.BusModel{ID: 1, Name: "A", NumberOfSeats: 2})
	require.NoError(t, err)
	_, err = svc.CreateBusModel(ctx, models.BusModel{ID: 1, Name: "B", NumberOfSeats: 2})
	assert.True(t, domain.IsConflict(err))
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	_, err = svc.CreateTrip(ctx, models.Trip{RouteID: 3, BusID: 4})
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)
}

func TestCatalogSeed(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := CatalogService{Store: store}

	seed := config.Seed{
		BusModels: []models.BusModel{{ID: 1, Name: "Coach", NumberOfSeats: 2}},
		Buses:     []models.Bus{{ID: 1, BusModelID: 1}},
		Stops:     []models.Stop{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
		Routes: []config.SeedRoute{{
			Route: models.Route{ID: 1, Name: "A-B"},
			Stops: []models.RouteStop{{StopID: 1, Index: 0}, {StopID: 2, Index: 1}},
		}},
		Trips: []models.Trip{{ID: 1, RouteID: 1, BusID: 1}},
	}
	require.NoError(t, svc.Seed(ctx, seed))

	agg, err := ResolveTripAggregate(ctx, store, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, agg.SeatsCount())
	assert.Equal(t, 2, agg.StopsCount())

	err = svc.Seed(ctx, seed)
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
}

func TestCatalogSeedLoaded(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := CatalogService{Store: store}

	seed := config.Seed{
		BusModels: []models.BusModel{{ID: 1, Name: "Coach", NumberOfSeats: 2}},
		Stops:     []models.Stop{{ID: 5, Name: "A"}},
	}
	loaded, err := svc.SeedLoaded(ctx, seed)
	require.NoError(t, err)
	assert.False(t, loaded)

	require.NoError(t, svc.Seed(ctx, seed))
	loaded, err = svc.SeedLoaded(ctx, seed)
	require.NoError(t, err)
	assert.True(t, loaded)

	// A new first entity with a clash further down is not a reload; Seed must fail.
	clash := config.Seed{
		BusModels: []models.BusModel{{ID: 2, Name: "Mini", NumberOfSeats: 1}},
		Stops:     []models.Stop{{ID: 5, Name: "A again"}},
	}
	loaded, err = svc.SeedLoaded(ctx, clash)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.ErrorIs(t, svc.Seed(ctx, clash), domain.ErrDuplicateID)

	loaded, err = svc.SeedLoaded(ctx, config.Seed{Stops: []models.Stop{{Name: "auto"}}})
	require.NoError(t, err)
	assert.False(t, loaded)
}
