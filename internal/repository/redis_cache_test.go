package repository

import (
	"context"
	"testing"
	"time"

	"villa-predictor/internal/model"

	"github.com/go-redis/redis/v8"
	"github.com/pgvector/pgvector-go"
)

type countingStore struct {
	nearestCalls int
	upserts      int
}

func (s *countingStore) NearestListings(ctx context.Context, vector pgvector.Vector, limit int) ([]model.VillaListing, error) {
	s.nearestCalls++
	return []model.VillaListing{{ListingID: "galle-12", NightlyPrice: 180}}, nil
}

func (s *countingStore) GetListingByID(ctx context.Context, listingID string) (*model.VillaListing, error) {
	return nil, nil
}

func (s *countingStore) BatchUpsertListings(ctx context.Context, listings []model.VillaListing) (int, []string) {
	s.upserts += len(listings)
	return len(listings), nil
}

func TestNearestKey(t *testing.T) {
	vec := pgvector.NewVector([]float32{2, 1, 0.3, 1, 1, 2, 1, 2})

	got := nearestKey(4, vec, 5)
	want := "villa:nearest:4:5:2,1,0.3,1,1,2,1,2"
	if got != want {
		t.Errorf("nearestKey() = %q, want %q", got, want)
	}

	if nearestKey(5, vec, 5) == got {
		t.Error("Expected a version bump to change the key")
	}
	if nearestKey(4, vec, 10) == got {
		t.Error("Expected the limit to change the key")
	}
}

func TestCachedListingStore_RedisDown(t *testing.T) {
	// Nothing listens on port 1, so every Redis call fails fast
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	inner := &countingStore{}
	store := NewCachedListingStore(inner, rdb, time.Minute)
	ctx := context.Background()

	listings, err := store.NearestListings(ctx, pgvector.NewVector([]float32{1, 1, 1, 0, 0, 2, 0, 2}), 5)
	if err != nil {
		t.Fatalf("NearestListings() error = %v", err)
	}
	if len(listings) != 1 || inner.nearestCalls != 1 {
		t.Errorf("Expected the inner store to answer, got %d listings after %d calls", len(listings), inner.nearestCalls)
	}

	success, errs := store.BatchUpsertListings(ctx, []model.VillaListing{{ListingID: "a"}})
	if success != 1 || len(errs) != 0 || inner.upserts != 1 {
		t.Errorf("Expected the write to go through, got %d / %v", success, errs)
	}
}
