package service

import (
	"encoding/json"
	"math"

	"villa-predictor/internal/model"
)

// PricingService turns villa descriptions into priced responses
type PricingService struct {
	estimator *Estimator
	state     *EstimatorState
	currency  string
	period    string
}

// NewPricingService creates a new pricing service
func NewPricingService(state *EstimatorState, minPrice float64, currency, period string) *PricingService {
	return &PricingService{
		estimator: NewEstimator(state, minPrice),
		state:     state,
		currency:  currency,
		period:    period,
	}
}

// Predict normalizes a villa description and estimates its nightly price
func (s *PricingService) Predict(villa model.VillaFeatures) (*model.PredictionResponse, Estimate, error) {
	estimate, err := s.estimator.Estimate(Normalize(villa))
	if err != nil {
		return nil, Estimate{}, err
	}

	return &model.PredictionResponse{
		PredictedPrice:   roundPrice(estimate.Price),
		Currency:         s.currency,
		Period:           s.period,
		PredictionMethod: string(estimate.Method),
		VillaFeatures:    villa,
	}, estimate, nil
}

// ModelLoaded reports whether a trained model is available
func (s *PricingService) ModelLoaded() bool {
	return s.estimator.ModelLoaded()
}

// ModelInfo returns the model metadata blob verbatim
func (s *PricingService) ModelInfo() (json.RawMessage, error) {
	return s.state.Metadata()
}

// roundPrice rounds to cents
func roundPrice(price float64) float64 {
	return math.Round(price*100) / 100
}
