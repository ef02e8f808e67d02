package service

import (
	"math"
	"sort"

	"villa-predictor/internal/model"
)

// Match reason constants
const (
	ReasonBedroomsMatch  = "Bedrooms match"
	ReasonBathroomsMatch = "Bathrooms match"
	ReasonPoolMatch      = "Pool match"
	ReasonOceanViewMatch = "Ocean view match"
	ReasonBeachfront     = "Beachfront"
	ReasonGardenMatch    = "Garden size match"
	ReasonWifiMatch      = "Wi-Fi quality match"
	ReasonPriceNear      = "Price close to estimate"
	ReasonGeneralMatch   = "General match"
)

const (
	beachDistanceScaleM   = 100.0
	priceNearScoreCutoff  = 0.8
	beachfrontReasonLimit = 50
)

// SearchVector rescales a feature vector for nearest-neighbour search.
// Beach distance is expressed in hundreds of meters so it does not swamp the counts.
func SearchVector(f FeatureVector) FeatureVector {
	out := make(FeatureVector, len(f))
	copy(out, f)
	if len(out) > FeatureBeachDistance {
		out[FeatureBeachDistance] /= beachDistanceScaleM
	}
	return out
}

// Ranker handles ranking and scoring of comparable villas
type Ranker struct {
	weightSimilarity float64
	weightPrice      float64
}

// NewRanker creates a new ranker with specified weights
func NewRanker(weightSimilarity, weightPrice float64) *Ranker {
	return &Ranker{
		weightSimilarity: weightSimilarity,
		weightPrice:      weightPrice,
	}
}

// RankComparables scores reference villas against the query villa and its estimated price
func (r *Ranker) RankComparables(
	listings []model.VillaListing,
	query model.VillaFeatures,
	estimate float64,
) []model.ComparableResult {
	results := make([]model.ComparableResult, 0, len(listings))
	queryVec := SearchVector(Normalize(query))

	for _, listing := range listings {
		listingVec := SearchVector(Normalize(listingFeatures(listing)))

		similarityScore := r.calculateSimilarity(queryVec, listingVec)
		priceScore := r.calculatePriceScore(listing.NightlyPrice, estimate)

		results = append(results, model.ComparableResult{
			VillaListing: listing,
			Score: (r.weightSimilarity * similarityScore) +
				(r.weightPrice * priceScore),
			MatchedReasons: r.generateMatchedReasons(query, listing, priceScore),
		})
	}

	// Sort by score descending
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// calculateSimilarity maps the euclidean distance between two search vectors into (0, 1]
func (r *Ranker) calculateSimilarity(a, b FeatureVector) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return 1.0 / (1.0 + math.Sqrt(sum))
}

// calculatePriceScore scores how close a listing's price is to the estimate
func (r *Ranker) calculatePriceScore(price, estimate float64) float64 {
	if estimate <= 0 || price <= 0 {
		return 0.5 // Neutral score without a usable price
	}

	score := 1.0 - math.Abs(price-estimate)/estimate
	if score < 0 {
		score = 0
	}
	return score
}

// generateMatchedReasons generates human-readable reasons for why this villa is comparable
func (r *Ranker) generateMatchedReasons(
	query model.VillaFeatures,
	listing model.VillaListing,
	priceScore float64,
) []string {
	reasons := []string{}

	if listing.Bedrooms == query.Bedrooms {
		reasons = append(reasons, ReasonBedroomsMatch)
	}
	if listing.Bathrooms == query.Bathrooms {
		reasons = append(reasons, ReasonBathroomsMatch)
	}
	if ParseYesNo(query.Pool) == 1 && ParseYesNo(listing.Pool) == 1 {
		reasons = append(reasons, ReasonPoolMatch)
	}
	if ParseYesNo(query.OceanView) == 1 && ParseYesNo(listing.OceanView) == 1 {
		reasons = append(reasons, ReasonOceanViewMatch)
	}
	if listing.BeachDistanceM <= beachfrontReasonLimit {
		reasons = append(reasons, ReasonBeachfront)
	}
	if ParseGardenSize(query.GardenSize) == ParseGardenSize(listing.GardenSize) {
		reasons = append(reasons, ReasonGardenMatch)
	}
	if ParseWifiQuality(query.WifiQuality) == ParseWifiQuality(listing.WifiQuality) {
		reasons = append(reasons, ReasonWifiMatch)
	}
	if priceScore > priceNearScoreCutoff {
		reasons = append(reasons, ReasonPriceNear)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}

	return reasons
}

func listingFeatures(l model.VillaListing) model.VillaFeatures {
	return model.VillaFeatures{
		Bedrooms:       l.Bedrooms,
		Bathrooms:      l.Bathrooms,
		BeachDistanceM: l.BeachDistanceM,
		Pool:           l.Pool,
		OceanView:      l.OceanView,
		GardenSize:     l.GardenSize,
		ACRooms:        l.ACRooms,
		WifiQuality:    l.WifiQuality,
	}
}

// MedianPrice returns the median nightly price of the given villas, or nil when empty
func MedianPrice(listings []model.VillaListing) *float64 {
	if len(listings) == 0 {
		return nil
	}
	prices := make([]float64, len(listings))
	for i, l := range listings {
		prices[i] = l.NightlyPrice
	}
	sort.Float64s(prices)

	mid := len(prices) / 2
	median := prices[mid]
	if len(prices)%2 == 0 {
		median = (prices[mid-1] + prices[mid]) / 2
	}
	return &median
}
