package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// PriceModel is a trained regressor that prices a feature vector
type PriceModel interface {
	Predict(features FeatureVector) (float64, error)
}

// Supported artifact kinds
const (
	ModelKindLinear       = "linear"
	ModelKindTreeEnsemble = "tree_ensemble"
)

// Tree ensemble aggregations
const (
	AggregateMean = "mean" // random forest
	AggregateSum  = "sum"  // gradient boosting, added to base_score
)

// maxTreeDepth bounds a single tree walk so a malformed node graph cannot loop
const maxTreeDepth = 64

// modelArtifact is the on-disk JSON form of a trained model
type modelArtifact struct {
	Kind         string      `json:"kind"`
	FeatureNames []string    `json:"feature_names,omitempty"`
	Intercept    float64     `json:"intercept"`
	Coefficients []float64   `json:"coefficients,omitempty"`
	Aggregation  string      `json:"aggregation,omitempty"`
	BaseScore    float64     `json:"base_score,omitempty"`
	Trees        []treeModel `json:"trees,omitempty"`
}

// LinearModel is a linear regression over the feature vector
type LinearModel struct {
	Intercept    float64
	Coefficients []float64
}

// Predict returns intercept + coefficients·features
func (m *LinearModel) Predict(features FeatureVector) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.Coefficients), len(features))
	}

	score := m.Intercept
	for i, coef := range m.Coefficients {
		score += coef * features[i]
	}
	return score, nil
}

// treeNode is one node of a flattened regression tree.
// Leaves carry a value; split nodes send features[Feature] <= Threshold to Left.
type treeNode struct {
	Leaf      bool    `json:"leaf,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
}

type treeModel struct {
	Nodes []treeNode `json:"nodes"`
}

func (t *treeModel) predict(features FeatureVector) (float64, error) {
	idx := 0
	for depth := 0; depth < maxTreeDepth; depth++ {
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("node index %d out of range", idx)
		}
		node := t.Nodes[idx]
		if node.Leaf {
			return node.Value, nil
		}
		if node.Feature < 0 || node.Feature >= len(features) {
			return 0, fmt.Errorf("split on unknown feature %d", node.Feature)
		}
		if features[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return 0, fmt.Errorf("tree deeper than %d levels", maxTreeDepth)
}

// TreeEnsembleModel is a set of regression trees
type TreeEnsembleModel struct {
	Trees       []treeModel
	Aggregation string
	BaseScore   float64
	NumFeatures int
}

// Predict walks every tree and aggregates the leaf values
func (m *TreeEnsembleModel) Predict(features FeatureVector) (float64, error) {
	if len(features) != m.NumFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", m.NumFeatures, len(features))
	}

	var sum float64
	for i := range m.Trees {
		v, err := m.Trees[i].predict(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}

	if m.Aggregation == AggregateSum {
		return m.BaseScore + sum, nil
	}
	return sum / float64(len(m.Trees)), nil
}

// LoadPriceModel reads a trained model artifact from a JSON file
func LoadPriceModel(path string) (PriceModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}

	m, err := ParsePriceModel(data)
	if err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	return m, nil
}

// ParsePriceModel decodes and validates a trained model artifact
func ParsePriceModel(data []byte) (PriceModel, error) {
	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model: %w", err)
	}

	if err := checkFeatureNames(artifact.FeatureNames); err != nil {
		return nil, err
	}

	switch artifact.Kind {
	case ModelKindLinear:
		if len(artifact.Coefficients) != FeatureCount {
			return nil, fmt.Errorf("linear model has %d coefficients, want %d", len(artifact.Coefficients), FeatureCount)
		}
		for i, c := range artifact.Coefficients {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, fmt.Errorf("coefficient %d is not finite", i)
			}
		}
		return &LinearModel{
			Intercept:    artifact.Intercept,
			Coefficients: artifact.Coefficients,
		}, nil

	case ModelKindTreeEnsemble:
		if len(artifact.Trees) == 0 {
			return nil, errors.New("tree ensemble has no trees")
		}
		for i, tree := range artifact.Trees {
			if len(tree.Nodes) == 0 {
				return nil, fmt.Errorf("tree %d has no nodes", i)
			}
		}
		aggregation := artifact.Aggregation
		switch aggregation {
		case "":
			aggregation = AggregateMean
		case AggregateMean, AggregateSum:
		default:
			return nil, fmt.Errorf("unknown aggregation %q", aggregation)
		}
		return &TreeEnsembleModel{
			Trees:       artifact.Trees,
			Aggregation: aggregation,
			BaseScore:   artifact.BaseScore,
			NumFeatures: FeatureCount,
		}, nil

	default:
		return nil, fmt.Errorf("unknown model kind %q", artifact.Kind)
	}
}

// checkFeatureNames rejects artifacts fit on a different column order
func checkFeatureNames(names []string) error {
	if len(names) == 0 {
		return nil
	}
	if len(names) != FeatureCount {
		return fmt.Errorf("model was fit on %d features, want %d", len(names), FeatureCount)
	}
	for i, name := range names {
		if name != FeatureNames[i] {
			return fmt.Errorf("feature %d is %q, want %q", i, name, FeatureNames[i])
		}
	}
	return nil
}
