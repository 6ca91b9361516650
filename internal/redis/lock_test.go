package redisclient

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestScheduleLockHeldDuringCriticalSection(t *testing.T) {
	client := testClient(t)
	locker := NewRedisScheduleLocker(client, time.Second, 200*time.Millisecond)

	practitionerID := uuid.New()
	key := "lock:schedule:" + practitionerID.String() + ":2026-08-24"

	err := locker.WithScheduleLock(context.Background(), practitionerID, "2026-08-24", func(ctx context.Context) error {
		n, err := client.Exists(ctx, key).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n, "lock key must exist inside the critical section")
		return nil
	})
	require.NoError(t, err)

	n, err := client.Exists(context.Background(), key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "lock key must be released afterwards")
}

func TestScheduleLockTimesOutWhenContended(t *testing.T) {
	client := testClient(t)
	locker := NewRedisScheduleLocker(client, time.Minute, 150*time.Millisecond)

	practitionerID := uuid.New()
	key := "lock:schedule:" + practitionerID.String() + ":2026-08-24"

	// Someone else holds the lock with their own token.
	require.NoError(t, client.Set(context.Background(), key, "other-token", time.Minute).Err())

	err := locker.WithScheduleLock(context.Background(), practitionerID, "2026-08-24", func(ctx context.Context) error {
		t.Fatal("critical section must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	// The foreign token survives the failed attempt.
	val, err := client.Get(context.Background(), key).Result()
	require.NoError(t, err)
	assert.Equal(t, "other-token", val)
}

func TestScheduleLockWaitsForRelease(t *testing.T) {
	client := testClient(t)
	locker := NewRedisScheduleLocker(client, time.Minute, 2*time.Second)

	practitionerID := uuid.New()

	var order []string
	var mu sync.Mutex
	record := func(step string) {
		mu.Lock()
		order = append(order, step)
		mu.Unlock()
	}

	started := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		err := locker.WithScheduleLock(context.Background(), practitionerID, "2026-08-24", func(ctx context.Context) error {
			close(started)
			time.Sleep(150 * time.Millisecond)
			record("first")
			return nil
		})
		assert.NoError(t, err)
	}()

	go func() {
		defer wg.Done()
		<-started
		err := locker.WithScheduleLock(context.Background(), practitionerID, "2026-08-24", func(ctx context.Context) error {
			record("second")
			return nil
		})
		assert.NoError(t, err)
	}()

	wg.Wait()

	require.Equal(t, []string{"first", "second"}, order, "the waiter must enter only after the holder releases")
}

func TestScheduleLockSeparateDaysDoNotContend(t *testing.T) {
	client := testClient(t)
	locker := NewRedisScheduleLocker(client, time.Minute, 100*time.Millisecond)

	practitionerID := uuid.New()

	err := locker.WithScheduleLock(context.Background(), practitionerID, "2026-08-24", func(ctx context.Context) error {
		return locker.WithScheduleLock(ctx, practitionerID, "2026-08-25", func(context.Context) error {
			return nil
		})
	})
	assert.NoError(t, err)
}
