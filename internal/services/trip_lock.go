package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"seatreserve/internal/domain"
)

// TripLocker serializes the occupancy read and the reservation append of one trip.
// Requests for different trips never wait on each other.
type TripLocker interface {
	Lock(ctx context.Context, tripID domain.TripID) (unlock func(), err error)
}

func tripLockKey(tripID domain.TripID) string {
	return fmt.Sprintf("seat_reservations:trip:%d", tripID)
}

func busyError(tripID domain.TripID, err error) error {
	return domain.ConflictError{
		Resource: "trip",
		Msg:      fmt.Sprintf("trip %d is busy, retry later", tripID),
		Err:      fmt.Errorf("%w: %v", domain.ErrTripBusy, err),
	}
}

// LocalTripLocker is an in-process keyed mutex. Entries are dropped once no
// request holds or waits for them.
type LocalTripLocker struct {
	mu    sync.Mutex
	locks map[domain.TripID]*tripLock
}

type tripLock struct {
	sem  chan struct{}
	refs int
}

func NewLocalTripLocker() *LocalTripLocker {
	return &LocalTripLocker{locks: map[domain.TripID]*tripLock{}}
}

func (l *LocalTripLocker) Lock(ctx context.Context, tripID domain.TripID) (func(), error) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = map[domain.TripID]*tripLock{}
	}
	tl, ok := l.locks[tripID]
	if !ok {
		tl = &tripLock{sem: make(chan struct{}, 1)}
		l.locks[tripID] = tl
	}
	tl.refs++
	l.mu.Unlock()

	select {
	case tl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(tripID, tl)
		return nil, busyError(tripID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-tl.sem
			l.release(tripID, tl)
		})
	}, nil
}

func (l *LocalTripLocker) release(tripID domain.TripID, tl *tripLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tl.refs--
	if tl.refs == 0 {
		delete(l.locks, tripID)
	}
}

// held reports how many trips currently have a lock entry.
func (l *LocalTripLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// MySQLTripLocker uses MySQL named locks (GET_LOCK) so several service
// instances sharing one database serialize on the same trip. Each lock pins a
// dedicated connection until it is released.
type MySQLTripLocker struct {
	DB      *sql.DB
	Timeout time.Duration
}

func (l MySQLTripLocker) Lock(ctx context.Context, tripID domain.TripID) (func(), error) {
	conn, err := l.DB.Conn(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to reserve lock connection", Err: err}
	}
	timeout := int(l.Timeout / time.Second)
	if timeout <= 0 {
		timeout = 5
	}
	key := tripLockKey(tripID)

	var got sql.NullInt64
	if err := conn.QueryRowContext(ctx, `SELECT GET_LOCK(?, ?)`, key, timeout).Scan(&got); err != nil {
		_ = conn.Close()
		return nil, busyError(tripID, err)
	}
	if !got.Valid || got.Int64 != 1 {
		_ = conn.Close()
		return nil, busyError(tripID, fmt.Errorf("GET_LOCK(%s) timed out", key))
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_, _ = conn.ExecContext(context.Background(), `SELECT RELEASE_LOCK(?)`, key)
			_ = conn.Close()
		})
	}, nil
}
