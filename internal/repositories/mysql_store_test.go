package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
)

func newMockStore(t *testing.T) (*MySQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMySQLStore(db), mock
}

func TestMySQLCreateBusModelAutoID(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO bus_models (id, name, number_of_seats)`)).
		WithArgs(nil, "Coach", 40).
		WillReturnResult(sqlmock.NewResult(7, 1))

	m := models.BusModel{Name: "Coach", NumberOfSeats: 40}
	require.NoError(t, s.CreateBusModel(context.Background(), &m))
	assert.Equal(t, domain.BusModelID(7), m.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCreateDuplicate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO trips`)).
		WithArgs(3, 1, 1).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '3' for key 'PRIMARY'"})

	trip := models.Trip{ID: 3, RouteID: 1, BusID: 1}
	assert.ErrorIs(t, s.CreateTrip(context.Background(), &trip), ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLFindNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, route_id, bus_id FROM trips WHERE id=?`)).
		WithArgs(9).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, bus_model_id FROM buses WHERE id=?`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "bus_model_id"}))

	_, err := s.FindTrip(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindBus(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLFindBusModel(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM bus_models WHERE id=?`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "number_of_seats"}).AddRow(2, "Coach", 40))

	m, err := s.FindBusModel(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.BusModel{ID: 2, Name: "Coach", NumberOfSeats: 40}, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCreateRouteTransaction(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO routes`)).
		WithArgs(nil, "Line 1").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO route_stops`)).
		WithArgs(nil, 4, 10, 0).
		WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO route_stops`)).
		WithArgs(nil, 4, 11, 1).
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectCommit()

	route := models.Route{Name: "Line 1"}
	stops := []models.RouteStop{{StopID: 10, Index: 0}, {StopID: 11, Index: 1}}
	require.NoError(t, s.CreateRoute(context.Background(), &route, stops))

	assert.Equal(t, domain.RouteID(4), route.ID)
	assert.Equal(t, domain.RouteStopID(101), stops[1].ID)
	assert.Equal(t, domain.RouteID(4), stops[1].RouteID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCreateRouteRollsBack(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO routes`)).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO route_stops`)).
		WillReturnError(&mysql.MySQLError{Number: 1062})
	mock.ExpectRollback()

	route := models.Route{Name: "Line 1"}
	err := s.CreateRoute(context.Background(), &route, []models.RouteStop{{ID: 1, StopID: 10}})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Zero(t, route.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRouteStops(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM route_stops WHERE route_id=?`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "stop_id", "stop_index"}).
			AddRow(1, 4, 10, 1).
			AddRow(2, 4, 11, 0))

	stops, err := s.FindRouteStops(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, stops, 2)
	assert.Equal(t, 1, stops[0].Index)
	assert.Equal(t, domain.StopID(11), stops[1].StopID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSeatReservations(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO seat_reservations`)).
		WithArgs("abc", 1, 0, 0, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM seat_reservations WHERE trip_id=?`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "trip_id", "seat_index", "from_stop_index", "to_stop_index", "created_at"}).
			AddRow(12, "abc", 1, 0, 0, 1, created))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM seat_reservations WHERE code=?`)).
		WithArgs("zzz").
		WillReturnError(sql.ErrNoRows)

	rec := models.SeatReservation{Code: "abc", TripID: 1, SeatIndex: 0, FromStopIndex: 0, ToStopIndex: 1, CreatedAt: created}
	require.NoError(t, s.AppendSeatReservation(context.Background(), &rec))
	assert.Equal(t, int64(12), rec.ID)

	list, err := s.ListSeatReservations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "abc", list[0].Code)
	assert.Equal(t, 1, list[0].ToStopIndex)
	assert.True(t, created.Equal(list[0].CreatedAt))

	_, err = s.FindSeatReservation(context.Background(), "zzz")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaCreatesMissingTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, tbl := range schema {
		q := mock.ExpectQuery("information_schema\\.tables").WithArgs(tbl.table)
		if tbl.table == "bus_models" {
			q.WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("bus_models"))
			continue
		}
		q.WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + tbl.table).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
