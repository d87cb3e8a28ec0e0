package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevadhara/console/internal/platform/httpx"
	"github.com/sevadhara/console/internal/upstream"
)

func statsServer(t *testing.T, hits *atomic.Int32) *upstream.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success":true,"data":{"TotalBuyers":42,"TotalSellers":17,"TodayMilkIn":310.5,"TotalOutstanding":12500}}`))
	}))
	t.Cleanup(srv.Close)
	return upstream.NewClient(srv.URL)
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSnapshotIsCachedUntilInvalidated(t *testing.T) {
	var hits atomic.Int32
	svc := NewService(statsServer(t, &hits), NewCache(newRedis(t), time.Minute), nil)
	ctx := context.Background()

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, snap.Stats.TotalBuyers)
	assert.Equal(t, 310.5, snap.Stats.TodayMilkIn)

	_, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	svc.Invalidate(ctx)
	_, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestSnapshotDeduplicatesConcurrentMisses(t *testing.T) {
	var hits atomic.Int32
	svc := NewService(statsServer(t, &hits), NewCache(newRedis(t), time.Minute), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Snapshot(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), hits.Load())
}

func TestSnapshotWithoutRedisAlwaysLoads(t *testing.T) {
	var hits atomic.Int32
	svc := NewService(statsServer(t, &hits), NewCache(nil, time.Minute), nil)
	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	_, err = svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCacheVersioning(t *testing.T) {
	cache := NewCache(newRedis(t), time.Minute)
	ctx := context.Background()
	key, err := cache.BuildKey(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a:b:1", key)
	require.NoError(t, cache.Bump(ctx))
	key, err = cache.BuildKey(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a:b:2", key)
}

func TestSnapshotIsScopedPerToken(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer admin" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"forbidden"}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"TotalOutstanding":12500}}`))
	}))
	t.Cleanup(srv.Close)
	svc := NewService(upstream.NewClient(srv.URL), NewCache(newRedis(t), time.Minute), nil)

	snap, err := svc.Snapshot(upstream.WithToken(context.Background(), "admin"))
	require.NoError(t, err)
	assert.Equal(t, 12500.0, snap.Stats.TotalOutstanding)

	_, err = svc.Snapshot(upstream.WithToken(context.Background(), "clerk"))
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrForbidden)
	assert.Equal(t, int32(2), hits.Load())

	_, err = svc.Snapshot(upstream.WithToken(context.Background(), "admin"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestSnapshotSurvivesLeaderCancellation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-release
		_, _ = w.Write([]byte(`{"data":{"TotalBuyers":42}}`))
	}))
	t.Cleanup(srv.Close)
	svc := NewService(upstream.NewClient(srv.URL), NewCache(newRedis(t), time.Minute), nil)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := svc.Snapshot(leaderCtx)
		leaderErr <- err
	}()
	<-started

	type result struct {
		snap Snapshot
		err  error
	}
	follower := make(chan result, 1)
	go func() {
		snap, err := svc.Snapshot(context.Background())
		follower <- result{snap, err}
	}()

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)
	close(release)

	res := <-follower
	require.NoError(t, res.err)
	assert.Equal(t, 42, res.snap.Stats.TotalBuyers)
}
