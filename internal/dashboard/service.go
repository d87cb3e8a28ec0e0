// Package dashboard serves the console home page statistics.
package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sevadhara/console/internal/upstream"
)

const (
	statsPath         = "/api/dashboard-stats"
	sharedLoadTimeout = 30 * time.Second
)

// Stats is the server-side aggregate shown on the home page.
type Stats struct {
	TotalBuyers      int     `json:"TotalBuyers"`
	TotalSellers     int     `json:"TotalSellers"`
	TodayMilkIn      float64 `json:"TodayMilkIn"`
	TodayMilkOut     float64 `json:"TodayMilkOut"`
	TotalOutstanding float64 `json:"TotalOutstanding"`
	TodayCollection  float64 `json:"TodayCollection"`
	MonthlyDonations float64 `json:"MonthlyDonations"`
}

// Snapshot is Stats plus when it was fetched.
type Snapshot struct {
	Stats     Stats     `json:"stats"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Service loads dashboard stats through the cache.
type Service struct {
	api    *upstream.Client
	cache  *Cache
	group  singleflight.Group
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds the dashboard service. cache may be nil.
func NewService(api *upstream.Client, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, cache: cache, logger: logger, now: time.Now}
}

// Snapshot returns cached stats, loading them once per version, TTL and
// bearer token. Concurrent misses for the same token share one upstream
// request that outlives any single caller.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	key, err := s.cache.BuildKey(ctx, "sevadhara", "dashboard", "stats", tokenScope(s.api.Token(ctx)))
	if err != nil {
		s.logger.Warn("dashboard cache version", slog.Any("error", err))
		return s.load(ctx)
	}
	ch := s.group.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()
		var snap Snapshot
		err := s.cache.FetchJSON(shared, key, &snap, func(ctx context.Context) (any, error) {
			return s.load(ctx)
		})
		return snap, err
	})
	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Snapshot{}, res.Err
		}
		return res.Val.(Snapshot), nil
	}
}

// tokenScope keys cached stats by bearer token.
func tokenScope(token string) string {
	if token == "" {
		return "anon"
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// Invalidate drops cached stats after a write. Failures are logged only.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("dashboard cache bump", slog.Any("error", err))
	}
}

func (s *Service) load(ctx context.Context) (Snapshot, error) {
	var stats Stats
	if err := s.api.Get(ctx, statsPath, nil, &stats); err != nil {
		return Snapshot{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return Snapshot{Stats: stats, FetchedAt: s.now()}, nil
}
