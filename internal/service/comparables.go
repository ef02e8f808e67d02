package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"villa-predictor/internal/model"

	"github.com/pgvector/pgvector-go"
)

// ErrComparablesDisabled is returned when no listing store is configured
var ErrComparablesDisabled = errors.New("comparable villa store is not configured")

// ListingStore persists reference villas and answers nearest-neighbour queries
type ListingStore interface {
	NearestListings(ctx context.Context, vector pgvector.Vector, limit int) ([]model.VillaListing, error)
	GetListingByID(ctx context.Context, listingID string) (*model.VillaListing, error)
	BatchUpsertListings(ctx context.Context, listings []model.VillaListing) (int, []string)
}

// ComparablesService finds reference villas similar to a description
type ComparablesService struct {
	store   ListingStore
	pricing *PricingService
	ranker  *Ranker
}

// NewComparablesService creates a new comparables service. A nil store disables it.
func NewComparablesService(store ListingStore, pricing *PricingService, ranker *Ranker) *ComparablesService {
	return &ComparablesService{
		store:   store,
		pricing: pricing,
		ranker:  ranker,
	}
}

// Enabled reports whether a listing store is configured
func (s *ComparablesService) Enabled() bool {
	return s != nil && s.store != nil
}

// Find estimates the villa's price and ranks the nearest reference villas around it
func (s *ComparablesService) Find(ctx context.Context, villa model.VillaFeatures, limit int) (*model.ComparablesResponse, error) {
	if !s.Enabled() {
		return nil, ErrComparablesDisabled
	}
	startTime := time.Now()

	prediction, estimate, err := s.pricing.Predict(villa)
	if err != nil {
		return nil, err
	}

	vector := pgvector.NewVector(SearchVector(Normalize(villa)).Float32())
	listings, err := s.store.NearestListings(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find comparable villas: %w", err)
	}

	results := s.ranker.RankComparables(listings, villa, estimate.Price)

	return &model.ComparablesResponse{
		Estimate:    *prediction,
		Comparables: results,
		Total:       len(results),
		MedianPrice: MedianPrice(listings),
		Took:        time.Since(startTime).Milliseconds(),

		EstimateFellBack: estimate.FellBack(),
	}, nil
}

// GetListing retrieves a single reference villa by ID
func (s *ComparablesService) GetListing(ctx context.Context, listingID string) (*model.VillaListing, error) {
	if !s.Enabled() {
		return nil, ErrComparablesDisabled
	}
	return s.store.GetListingByID(ctx, listingID)
}

// ImportListings normalizes and upserts reference villas
func (s *ComparablesService) ImportListings(ctx context.Context, inputs []model.ListingInput) (int, []string, error) {
	if !s.Enabled() {
		return 0, nil, ErrComparablesDisabled
	}

	listings := make([]model.VillaListing, 0, len(inputs))
	for _, in := range inputs {
		villa := in.Villa.Features()
		listings = append(listings, model.VillaListing{
			ListingID:      in.ListingID,
			Title:          in.Title,
			Location:       in.Location,
			URL:            in.URL,
			NightlyPrice:   in.NightlyPrice,
			Bedrooms:       villa.Bedrooms,
			Bathrooms:      villa.Bathrooms,
			BeachDistanceM: villa.BeachDistanceM,
			Pool:           villa.Pool,
			OceanView:      villa.OceanView,
			GardenSize:     villa.GardenSize,
			ACRooms:        villa.ACRooms,
			WifiQuality:    villa.WifiQuality,
			Amenities:      in.Amenities,
			Features:       pgvector.NewVector(SearchVector(Normalize(villa)).Float32()),
		})
	}

	success, errs := s.store.BatchUpsertListings(ctx, listings)
	return success, errs, nil
}
