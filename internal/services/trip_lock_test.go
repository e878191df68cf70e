package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatreserve/internal/domain"
)

func TestLocalTripLockerSerializesSameTrip(t *testing.T) {
	l := NewLocalTripLocker()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, 1)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		u, err := l.Lock(ctx, 1)
		if err == nil {
			close(acquired)
			u()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(30 * time.Millisecond):
	}
	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestLocalTripLockerOtherTripsDoNotWait(t *testing.T) {
	l := NewLocalTripLocker()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	u1, err := l.Lock(ctx, 1)
	require.NoError(t, err)
	defer u1()
	u2, err := l.Lock(ctx, 2)
	require.NoError(t, err)
	u2()
}

func TestLocalTripLockerReleasesEntries(t *testing.T) {
	l := NewLocalTripLocker()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			u, err := l.Lock(context.Background(), domain.TripID(id%3))
			if err != nil {
				return
			}
			u()
			u()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, l.held())
}

func TestLocalTripLockerContextCanceled(t *testing.T) {
	l := NewLocalTripLocker()
	unlock, err := l.Lock(context.Background(), 9)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lock(ctx, 9)
	assert.True(t, domain.IsConflict(err))
	assert.ErrorIs(t, err, domain.ErrTripBusy)
	assert.Equal(t, "trip_busy", domain.Reason(err))
}

func TestMySQLTripLockerAcquireAndRelease(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT GET_LOCK\(\?, \?\)`).
		WithArgs("seat_reservations:trip:7", 3).
		WillReturnRows(sqlmock.NewRows([]string{"got"}).AddRow(1))
	mock.ExpectExec(`SELECT RELEASE_LOCK\(\?\)`).
		WithArgs("seat_reservations:trip:7").
		WillReturnResult(sqlmock.NewResult(0, 0))

	l := MySQLTripLocker{DB: db, Timeout: 3 * time.Second}
	unlock, err := l.Lock(context.Background(), 7)
	require.NoError(t, err)
	unlock()
	unlock()

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLTripLockerTimeout(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT GET_LOCK\(\?, \?\)`).
		WithArgs("seat_reservations:trip:7", 5).
		WillReturnRows(sqlmock.NewRows([]string{"got"}).AddRow(0))

	l := MySQLTripLocker{DB: db}
	_, err = l.Lock(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrTripBusy)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Needs a live server; set REDIS_ADDR to run it.
func newRedisLocker(t *testing.T) (*miniredis.Miniredis, RedisTripLocker) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, RedisTripLocker{Client: client, TTL: 2 * time.Second, RetryInterval: 5 * time.Millisecond}
}

func TestRedisTripLocker(t *testing.T) {
	mr, l := newRedisLocker(t)
	key := tripLockKey(4242)

	unlock, err := l.Lock(context.Background(), 4242)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, 4242)
	assert.ErrorIs(t, err, domain.ErrTripBusy)

	other, err := l.Lock(context.Background(), 4243)
	require.NoError(t, err)
	other()

	unlock()
	unlock()
	assert.False(t, mr.Exists(key))

	again, err := l.Lock(context.Background(), 4242)
	require.NoError(t, err)
	again()
}

func TestRedisTripLockerStaleHolderExpires(t *testing.T) {
	mr, l := newRedisLocker(t)
	key := tripLockKey(7)
	require.NoError(t, mr.Set(key, "crashed-holder"))
	mr.SetTTL(key, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := l.Lock(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrTripBusy)

	mr.FastForward(2 * time.Second)

	unlock, err := l.Lock(context.Background(), 7)
	require.NoError(t, err)
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.NotEqual(t, "crashed-holder", got)
	unlock()
}

func TestRedisTripLockerRenewsWhileHeld(t *testing.T) {
	mr, l := newRedisLocker(t)
	l.TTL = 300 * time.Millisecond
	l.RenewInterval = 20 * time.Millisecond
	key := tripLockKey(9)

	unlock, err := l.Lock(context.Background(), 9)
	require.NoError(t, err)

	// Five jumps of 200ms outlive the 300ms TTL unless the holder keeps renewing.
	for i := 0; i < 5; i++ {
		time.Sleep(60 * time.Millisecond)
		mr.FastForward(200 * time.Millisecond)
		require.True(t, mr.Exists(key), "lock expired while held (jump %d)", i)
	}

	unlock()
	assert.False(t, mr.Exists(key))
}

func TestRedisTripLockerUnlockLeavesNewHolder(t *testing.T) {
	mr, l := newRedisLocker(t)
	key := tripLockKey(11)

	unlock, err := l.Lock(context.Background(), 11)
	require.NoError(t, err)

	// The key expired and another instance took it over.
	require.NoError(t, mr.Set(key, "next-holder"))
	unlock()

	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "next-holder", got)
}
