package service

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestParsePriceModel_Linear(t *testing.T) {
	data := `{
		"kind": "linear",
		"feature_names": ["bedrooms","bathrooms","beach_distance_m","pool","ocean_view","garden_size","ac_rooms","wifi_quality"],
		"intercept": 40,
		"coefficients": [30, 12, -0.02, 35, 55, 8, 9, 11]
	}`

	m, err := ParsePriceModel([]byte(data))
	if err != nil {
		t.Fatalf("ParsePriceModel() error = %v", err)
	}

	got, err := m.Predict(FeatureVector{2, 1, 100, 1, 0, 3, 2, 2})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	// 40 + 60 + 12 - 2 + 35 + 0 + 24 + 18 + 22
	want := 209.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Predict() = %.4f, want %.4f", got, want)
	}

	if _, err := m.Predict(FeatureVector{1, 2, 3}); err == nil {
		t.Error("Expected an arity error")
	}
}

func TestParsePriceModel_TreeEnsemble(t *testing.T) {
	// Tree 0 splits on bedrooms <= 2, tree 1 splits on beach distance <= 100
	data := `{
		"kind": "tree_ensemble",
		"aggregation": "mean",
		"trees": [
			{"nodes": [
				{"feature": 0, "threshold": 2, "left": 1, "right": 2},
				{"leaf": true, "value": 100},
				{"leaf": true, "value": 200}
			]},
			{"nodes": [
				{"feature": 2, "threshold": 100, "left": 1, "right": 2},
				{"leaf": true, "value": 300},
				{"leaf": true, "value": 150}
			]}
		]
	}`

	m, err := ParsePriceModel([]byte(data))
	if err != nil {
		t.Fatalf("ParsePriceModel() error = %v", err)
	}

	tests := []struct {
		name     string
		features FeatureVector
		want     float64
	}{
		{"small beachfront", FeatureVector{2, 1, 30, 0, 0, 2, 0, 2}, 200},
		{"large beachfront", FeatureVector{4, 3, 30, 1, 1, 3, 2, 3}, 250},
		{"large inland", FeatureVector{4, 3, 800, 1, 0, 3, 2, 3}, 175},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Predict(tt.features)
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Predict() = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestParsePriceModel_BoostedSum(t *testing.T) {
	data := `{
		"kind": "tree_ensemble",
		"aggregation": "sum",
		"base_score": 120,
		"trees": [
			{"nodes": [{"feature": 3, "threshold": 0.5, "left": 1, "right": 2}, {"leaf": true, "value": -10}, {"leaf": true, "value": 30}]},
			{"nodes": [{"leaf": true, "value": 5}]}
		]
	}`

	m, err := ParsePriceModel([]byte(data))
	if err != nil {
		t.Fatalf("ParsePriceModel() error = %v", err)
	}

	got, err := m.Predict(FeatureVector{2, 1, 30, 1, 1, 2, 1, 2})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if got != 155 {
		t.Errorf("Predict() = %.2f, want 155.00", got)
	}
}

func TestParsePriceModel_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"not json", `villa_price_model.pkl`, "unmarshal"},
		{"unknown kind", `{"kind":"svm"}`, "unknown model kind"},
		{"short coefficients", `{"kind":"linear","coefficients":[1,2,3]}`, "coefficients"},
		{"no trees", `{"kind":"tree_ensemble","trees":[]}`, "no trees"},
		{"empty tree", `{"kind":"tree_ensemble","trees":[{"nodes":[]}]}`, "no nodes"},
		{"bad aggregation", `{"kind":"tree_ensemble","aggregation":"median","trees":[{"nodes":[{"leaf":true,"value":1}]}]}`, "aggregation"},
		{
			"reordered features",
			`{"kind":"linear","feature_names":["bathrooms","bedrooms","beach_distance_m","pool","ocean_view","garden_size","ac_rooms","wifi_quality"],"coefficients":[1,1,1,1,1,1,1,1]}`,
			"feature 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePriceModel([]byte(tt.data))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTreeEnsemble_MalformedTreeFailsAtInference(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"child out of range", `{"kind":"tree_ensemble","trees":[{"nodes":[{"feature":0,"threshold":1,"left":5,"right":6}]}]}`},
		{"unknown split feature", `{"kind":"tree_ensemble","trees":[{"nodes":[{"feature":12,"threshold":1,"left":1,"right":1},{"leaf":true,"value":1}]}]}`},
		{"cycle", `{"kind":"tree_ensemble","trees":[{"nodes":[{"feature":0,"threshold":1,"left":0,"right":0}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParsePriceModel([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParsePriceModel() error = %v", err)
			}
			if _, err := m.Predict(referenceFeatures()); err == nil {
				t.Error("Expected an inference error")
			}

			// The estimator recovers with the rule-based price
			result, err := NewEstimator(NewEstimatorState(m, nil), DefaultMinPrice).Estimate(referenceFeatures())
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}
			if result.Method != MethodRuleBased || result.Price != 355 {
				t.Errorf("Expected rule-based 355, got %s %.2f", result.Method, result.Price)
			}
		})
	}
}

func TestLoadPriceModel_ArtifactError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := LoadPriceModel(path)
	var artifactErr *ArtifactError
	if !errors.As(err, &artifactErr) {
		t.Fatalf("Expected *ArtifactError, got %v", err)
	}
	if artifactErr.Path != path {
		t.Errorf("Expected path %q, got %q", path, artifactErr.Path)
	}
}
