package service

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"villa-predictor/internal/metrics"
)

// Method identifies which estimation path produced a price
type Method string

const (
	MethodModel     Method = "ML Model"
	MethodRuleBased Method = "Rule-based"
)

// DefaultMinPrice is the nightly price floor in USD
const DefaultMinPrice = 20.0

// EstimatorState holds the artifacts loaded at process start.
// It is never mutated after LoadEstimatorState returns.
type EstimatorState struct {
	model    PriceModel
	metadata json.RawMessage
}

// NewEstimatorState builds a state from already loaded artifacts; either may be nil
func NewEstimatorState(model PriceModel, metadata json.RawMessage) *EstimatorState {
	return &EstimatorState{model: model, metadata: metadata}
}

// LoadEstimatorState loads the trained model and its metadata.
// Load failures are logged and leave the corresponding artifact unset.
func LoadEstimatorState(modelPath, infoPath string) *EstimatorState {
	state := &EstimatorState{}

	model, err := LoadPriceModel(modelPath)
	if err != nil {
		log.Printf("❌ Error loading model: %v", err)
		log.Println("⚠️  Running in rule-based mode")
	} else {
		state.model = model
		log.Printf("✅ AI model loaded successfully from %s", modelPath)
	}

	metadata, err := loadMetadata(infoPath)
	if err != nil {
		log.Printf("❌ Error loading model info: %v", err)
	} else {
		state.metadata = metadata
		log.Printf("✅ Model info loaded from %s", infoPath)
	}

	return state
}

func loadMetadata(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	if !json.Valid(data) {
		return nil, &ArtifactError{Path: path, Err: fmt.Errorf("invalid JSON")}
	}
	return json.RawMessage(data), nil
}

// ModelLoaded reports whether a trained model is available
func (s *EstimatorState) ModelLoaded() bool {
	return s != nil && s.model != nil
}

// Metadata returns the model metadata blob verbatim
func (s *EstimatorState) Metadata() (json.RawMessage, error) {
	if s == nil || s.metadata == nil {
		return nil, ErrMetadataUnavailable
	}
	return s.metadata, nil
}

// Estimate is the outcome of pricing one feature vector
type Estimate struct {
	Price  float64
	Method Method
	// FallbackErr is set when the model was tried and failed
	FallbackErr error
}

// FellBack reports whether the model failed and the rule-based formula was used instead
func (e Estimate) FellBack() bool {
	return e.FallbackErr != nil
}

// Estimator prices feature vectors, preferring the trained model
type Estimator struct {
	state    *EstimatorState
	minPrice float64
}

// NewEstimator creates a new estimator with the given price floor
func NewEstimator(state *EstimatorState, minPrice float64) *Estimator {
	if state == nil {
		state = &EstimatorState{}
	}
	if minPrice < 0 {
		minPrice = DefaultMinPrice
	}
	return &Estimator{
		state:    state,
		minPrice: minPrice,
	}
}

// ModelLoaded reports whether estimates can use the trained model
func (e *Estimator) ModelLoaded() bool {
	return e.state.ModelLoaded()
}

// Estimate prices a feature vector and clamps the result to the price floor
func (e *Estimator) Estimate(features FeatureVector) (Estimate, error) {
	start := time.Now()

	if err := ValidateFeatures(features); err != nil {
		metrics.ObserveEstimationError()
		return Estimate{}, &EstimationError{Err: err}
	}

	result := Estimate{Method: MethodRuleBased}

	if e.state.model != nil {
		price, err := predictSafely(e.state.model, features)
		if err == nil {
			result.Price = price
			result.Method = MethodModel
		} else {
			log.Printf("[WARN] %v, falling back to rule-based pricing", err)
			result.FallbackErr = err
		}
	}

	if result.Method == MethodRuleBased {
		result.Price = RuleBasedPrice(features)
	}

	result.Price = e.clamp(result.Price)

	metrics.ObserveEstimate(string(result.Method), result.FellBack(), time.Since(start))

	return result, nil
}

func (e *Estimator) clamp(price float64) float64 {
	return math.Max(price, e.minPrice)
}

// predictSafely is the single boundary around the opaque model call
func predictSafely(m PriceModel, features FeatureVector) (price float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ModelError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	price, err = m.Predict(features)
	if err != nil {
		return 0, &ModelError{Err: err}
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &ModelError{Err: fmt.Errorf("non-finite prediction %v", price)}
	}
	return price, nil
}

// ValidateFeatures checks the invariants Normalize guarantees
func ValidateFeatures(f FeatureVector) error {
	if len(f) != FeatureCount {
		return fmt.Errorf("%w: expected %d features, got %d", ErrInvalidFeatures, FeatureCount, len(f))
	}
	for i, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidFeatures, FeatureNames[i])
		}
	}
	for _, i := range []int{FeaturePool, FeatureOceanView} {
		if f[i] != 0 && f[i] != 1 {
			return fmt.Errorf("%w: %s must be 0 or 1, got %v", ErrInvalidFeatures, FeatureNames[i], f[i])
		}
	}
	for _, i := range []int{FeatureGardenTier, FeatureWifiTier} {
		if t := Tier(f[i]); float64(t) != f[i] || t < TierLow || t > TierHigh {
			return fmt.Errorf("%w: %s must be a tier 1-3, got %v", ErrInvalidFeatures, FeatureNames[i], f[i])
		}
	}
	return nil
}
