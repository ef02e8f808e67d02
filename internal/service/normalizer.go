package service

import (
	"strings"

	"villa-predictor/internal/model"
)

// Feature vector layout. The order matches the order the price model was fit on.
const (
	FeatureBedrooms = iota
	FeatureBathrooms
	FeatureBeachDistance
	FeaturePool
	FeatureOceanView
	FeatureGardenTier
	FeatureACRooms
	FeatureWifiTier

	FeatureCount
)

// FeatureNames lists the feature vector columns in order
var FeatureNames = [FeatureCount]string{
	"bedrooms",
	"bathrooms",
	"beach_distance_m",
	"pool",
	"ocean_view",
	"garden_size",
	"ac_rooms",
	"wifi_quality",
}

// FeatureVector is the numeric encoding of a villa description
type FeatureVector []float64

// Tier is an ordinal code for a three-level qualitative attribute
type Tier int

const (
	TierLow    Tier = 1
	TierMedium Tier = 2
	TierHigh   Tier = 3
)

// ParseGardenSize maps a garden size label to its tier. Unknown labels are Medium.
func ParseGardenSize(s string) Tier {
	switch strings.ToLower(s) {
	case "small":
		return TierLow
	case "medium":
		return TierMedium
	case "large":
		return TierHigh
	default:
		return TierMedium
	}
}

// ParseWifiQuality maps a Wi-Fi quality label to its tier. Unknown labels are Good.
func ParseWifiQuality(s string) Tier {
	switch strings.ToLower(s) {
	case "average":
		return TierLow
	case "good":
		return TierMedium
	case "excellent":
		return TierHigh
	default:
		return TierMedium
	}
}

// ParseYesNo returns 1 for a case-insensitive "yes" and 0 for anything else
func ParseYesNo(s string) float64 {
	if strings.ToLower(s) == "yes" {
		return 1
	}
	return 0
}

// Normalize converts a villa description into its feature vector
func Normalize(v model.VillaFeatures) FeatureVector {
	return FeatureVector{
		FeatureBedrooms:      float64(v.Bedrooms),
		FeatureBathrooms:     float64(v.Bathrooms),
		FeatureBeachDistance: float64(v.BeachDistanceM),
		FeaturePool:          ParseYesNo(v.Pool),
		FeatureOceanView:     ParseYesNo(v.OceanView),
		FeatureGardenTier:    float64(ParseGardenSize(v.GardenSize)),
		FeatureACRooms:       float64(v.ACRooms),
		FeatureWifiTier:      float64(ParseWifiQuality(v.WifiQuality)),
	}
}

// Float32 converts the vector for storage in a pgvector column
func (f FeatureVector) Float32() []float32 {
	out := make([]float32, len(f))
	for i, v := range f {
		out[i] = float32(v)
	}
	return out
}
