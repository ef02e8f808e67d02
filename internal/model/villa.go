package model

// VillaRequest represents a villa description submitted for a price prediction.
// Pointer fields let binding tell a missing field from a zero value.
type VillaRequest struct {
	Bedrooms       *int    `json:"bedrooms" binding:"required,min=0"`
	Bathrooms      *int    `json:"bathrooms" binding:"required,min=0"`
	BeachDistanceM *int    `json:"beach_distance_m" binding:"required,min=0"`
	Pool           *string `json:"pool" binding:"required"`        // "Yes" or "No"
	OceanView      *string `json:"ocean_view" binding:"required"`  // "Yes" or "No"
	GardenSize     *string `json:"garden_size" binding:"required"` // "Small", "Medium", "Large"
	ACRooms        *int    `json:"ac_rooms" binding:"required,min=0"`
	WifiQuality    *string `json:"wifi_quality" binding:"required"` // "Average", "Good", "Excellent"
}

// VillaFeatures is the display-form echo of a villa description
type VillaFeatures struct {
	Bedrooms       int    `json:"bedrooms"`
	Bathrooms      int    `json:"bathrooms"`
	BeachDistanceM int    `json:"beach_distance_m"`
	Pool           string `json:"pool"`
	OceanView      string `json:"ocean_view"`
	GardenSize     string `json:"garden_size"`
	ACRooms        int    `json:"ac_rooms"`
	WifiQuality    string `json:"wifi_quality"`
}

// Features dereferences a bound request into its display form.
// Callers must only use it after binding succeeded.
func (r *VillaRequest) Features() VillaFeatures {
	return VillaFeatures{
		Bedrooms:       derefInt(r.Bedrooms),
		Bathrooms:      derefInt(r.Bathrooms),
		BeachDistanceM: derefInt(r.BeachDistanceM),
		Pool:           derefString(r.Pool),
		OceanView:      derefString(r.OceanView),
		GardenSize:     derefString(r.GardenSize),
		ACRooms:        derefInt(r.ACRooms),
		WifiQuality:    derefString(r.WifiQuality),
	}
}

// PredictionResponse represents a predicted nightly price
type PredictionResponse struct {
	PredictedPrice   float64       `json:"predicted_price"`
	Currency         string        `json:"currency"`
	Period           string        `json:"period"`
	PredictionMethod string        `json:"prediction_method"`
	VillaFeatures    VillaFeatures `json:"villa_features"`
}

// StatusResponse is returned by the root endpoint
type StatusResponse struct {
	Message     string `json:"message"`
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
