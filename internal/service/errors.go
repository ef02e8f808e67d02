package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFeatures marks a feature vector that breaks the normalizer's invariants
	ErrInvalidFeatures = errors.New("invalid feature vector")
	// ErrMetadataUnavailable is returned when the model metadata was never loaded
	ErrMetadataUnavailable = errors.New("model metadata not available")
)

// ArtifactError reports a model artifact or metadata file that could not be loaded
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("failed to load artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// ModelError reports a trained model failure during inference
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model inference failed: %v", e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// EstimationError reports an internal invariant violation while estimating a price
type EstimationError struct {
	Err error
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("estimation failed: %v", e.Err)
}

func (e *EstimationError) Unwrap() error { return e.Err }
