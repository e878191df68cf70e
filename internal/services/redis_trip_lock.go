package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"seatreserve/internal/domain"
	"seatreserve/internal/utils"
)

// releaseTripLock deletes the key only while it still holds our token, so a
// lock that expired and was taken by another request is left alone.
var releaseTripLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewTripLock pushes the expiry out by ARGV[2] milliseconds while the key
// still holds our token.
var renewTripLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisTripLocker holds a per-trip SET NX key with a random token. TTL bounds
// how long a crashed holder blocks the trip; a live holder renews the key every
// RenewInterval (TTL/3 by default) until it unlocks. RetryInterval is the
// polling step while waiting and Wait caps the total wait when ctx has no deadline.
type RedisTripLocker struct {
	Client        redis.UniversalClient
	TTL           time.Duration
	RenewInterval time.Duration
	RetryInterval time.Duration
	Wait          time.Duration
}

func (l RedisTripLocker) Lock(ctx context.Context, tripID domain.TripID) (func(), error) {
	ttl := l.TTL
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	renew := l.RenewInterval
	if renew <= 0 || renew >= ttl {
		renew = ttl / 3
	}
	step := l.RetryInterval
	if step <= 0 {
		step = 25 * time.Millisecond
	}
	if _, ok := ctx.Deadline(); !ok {
		wait := l.Wait
		if wait <= 0 {
			wait = 5 * time.Second
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}

	key := tripLockKey(tripID)
	token := uuid.NewString()
	for {
		ok, err := l.Client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, busyError(tripID, fmt.Errorf("redis SETNX %s: %w", key, err))
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, busyError(tripID, ctx.Err())
		case <-time.After(step):
		}
	}

	stop := make(chan struct{})
	stopped := make(chan struct{})
	go l.keepAlive(tripID, key, token, ttl, renew, stop, stopped)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-stopped
			if err := releaseTripLock.Run(context.Background(), l.Client, []string{key}, token).Err(); err != nil {
				utils.LogError("", "reservations", "release_trip_lock", err, "trip_id", int64(tripID))
			}
		})
	}, nil
}

// keepAlive renews the lock until stop is closed or the token is gone.
func (l RedisTripLocker) keepAlive(tripID domain.TripID, key, token string, ttl, every time.Duration, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		n, err := renewTripLock.Run(context.Background(), l.Client, []string{key}, token, ttl.Milliseconds()).Int()
		if err != nil {
			utils.LogError("", "reservations", "renew_trip_lock", err, "trip_id", int64(tripID))
			continue
		}
		if n == 0 {
			utils.LogError("", "reservations", "renew_trip_lock", fmt.Errorf("lock %s lost before release", key), "trip_id", int64(tripID))
			return
		}
	}
}
