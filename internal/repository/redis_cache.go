package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"villa-predictor/internal/metrics"
	"villa-predictor/internal/model"
	"villa-predictor/internal/service"

	"github.com/go-redis/redis/v8"
	"github.com/pgvector/pgvector-go"
)

const (
	nearestKeyPrefix  = "villa:nearest"
	nearestVersionKey = "villa:nearest:version"
)

// CachedListingStore caches nearest-neighbour lookups of another store in Redis.
// Imports bump a version counter so stale entries are never read again.
type CachedListingStore struct {
	inner service.ListingStore
	rdb   *redis.Client
	ttl   time.Duration
}

// Ensure CachedListingStore implements service.ListingStore
var _ service.ListingStore = (*CachedListingStore)(nil)

// NewRedisClient creates a Redis client and checks the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// NewCachedListingStore wraps inner with a Redis cache
func NewCachedListingStore(inner service.ListingStore, rdb *redis.Client, ttl time.Duration) *CachedListingStore {
	return &CachedListingStore{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
	}
}

// NearestListings serves cached results when present. Redis errors fall through to the inner store.
func (s *CachedListingStore) NearestListings(ctx context.Context, vector pgvector.Vector, limit int) ([]model.VillaListing, error) {
	version, err := s.rdb.Get(ctx, nearestVersionKey).Int64()
	if err != nil && err != redis.Nil {
		log.Printf("[WARN] redis unavailable, skipping cache: %v", err)
		metrics.ObserveCache("error")
		return s.inner.NearestListings(ctx, vector, limit)
	}

	key := nearestKey(version, vector, limit)
	if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var listings []model.VillaListing
		if err := json.Unmarshal(data, &listings); err == nil {
			metrics.ObserveCache("hit")
			return listings, nil
		}
	}
	metrics.ObserveCache("miss")

	listings, err := s.inner.NearestListings(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(listings); err == nil {
		if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
			log.Printf("[WARN] failed to cache comparable villas: %v", err)
		}
	}
	return listings, nil
}

// GetListingByID is not cached
func (s *CachedListingStore) GetListingByID(ctx context.Context, listingID string) (*model.VillaListing, error) {
	return s.inner.GetListingByID(ctx, listingID)
}

// BatchUpsertListings writes through and invalidates cached lookups
func (s *CachedListingStore) BatchUpsertListings(ctx context.Context, listings []model.VillaListing) (int, []string) {
	success, errs := s.inner.BatchUpsertListings(ctx, listings)
	if success > 0 {
		if err := s.rdb.Incr(ctx, nearestVersionKey).Err(); err != nil {
			log.Printf("[WARN] failed to invalidate comparable villa cache: %v", err)
		}
	}
	return success, errs
}

// nearestKey builds the cache key for one lookup
func nearestKey(version int64, vector pgvector.Vector, limit int) string {
	values := vector.Slice()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return fmt.Sprintf("%s:%d:%d:%s", nearestKeyPrefix, version, limit, strings.Join(parts, ","))
}
