package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
)

// VillaListing represents a reference villa with a known nightly price
type VillaListing struct {
	ID             int64           `json:"id" db:"id"`
	ListingID      string          `json:"listing_id" db:"listing_id"`
	Title          *string         `json:"title,omitempty" db:"title"`
	Location       *string         `json:"location,omitempty" db:"location"`
	URL            *string         `json:"url,omitempty" db:"url"`
	NightlyPrice   float64         `json:"nightly_price" db:"nightly_price"`
	Bedrooms       int             `json:"bedrooms" db:"bedrooms"`
	Bathrooms      int             `json:"bathrooms" db:"bathrooms"`
	BeachDistanceM int             `json:"beach_distance_m" db:"beach_distance_m"`
	Pool           string          `json:"pool" db:"pool"`
	OceanView      string          `json:"ocean_view" db:"ocean_view"`
	GardenSize     string          `json:"garden_size" db:"garden_size"`
	ACRooms        int             `json:"ac_rooms" db:"ac_rooms"`
	WifiQuality    string          `json:"wifi_quality" db:"wifi_quality"`
	Amenities      JSONArray       `json:"amenities,omitempty" db:"amenities"`
	Features       pgvector.Vector `json:"-" db:"features"`
	Distance       *float64        `json:"distance,omitempty" db:"distance"` // L2 distance to the query villa
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// ComparableResult represents a reference villa ranked against a query villa
type ComparableResult struct {
	VillaListing
	Score          float64  `json:"score"`
	MatchedReasons []string `json:"matched_reasons"`
}

// ComparablesResponse represents the comparable villas for a description
type ComparablesResponse struct {
	Estimate    PredictionResponse `json:"estimate"`
	Comparables []ComparableResult `json:"comparables"`
	Total       int                `json:"total"`
	MedianPrice *float64           `json:"median_price,omitempty"`
	Took        int64              `json:"took_ms"` // Response time in milliseconds

	EstimateFellBack bool `json:"-"` // the model failed and the estimate is rule-based
}

// ListingInput represents a reference villa submitted for import
type ListingInput struct {
	ListingID    string       `json:"listing_id" binding:"required"`
	Title        *string      `json:"title,omitempty"`
	Location     *string      `json:"location,omitempty"`
	URL          *string      `json:"url,omitempty"`
	NightlyPrice float64      `json:"nightly_price" binding:"required,gt=0"`
	Amenities    []string     `json:"amenities,omitempty"`
	Villa        VillaRequest `json:"villa" binding:"required"`
}

// ListingBatchRequest represents a batch reference villa import
type ListingBatchRequest struct {
	Listings []ListingInput `json:"listings" binding:"required,min=1,dive"`
}

// ListingBatchResponse represents the response for a batch import
type ListingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot scan %T into JSONArray", value)
	}
}
