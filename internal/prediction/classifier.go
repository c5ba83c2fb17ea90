package prediction

import (
	"errors"
	"fmt"
	"math"
)

// Classifier estimates the positive-class probability of one feature row.
type Classifier interface {
	PredictProba(features []float64) (float64, error)
	NumFeatures() int
}

// Scaler standardizes features the way the training pipeline did.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *Scaler) validate(width int) error {
	if s == nil {
		return nil
	}
	if len(s.Mean) != width || len(s.Scale) != width {
		return fmt.Errorf("scaler expects %d features, has mean=%d scale=%d", width, len(s.Mean), len(s.Scale))
	}
	for i, scale := range s.Scale {
		// Zero variance features are left unscaled during training.
		if scale == 0 {
			s.Scale[i] = 1
		}
	}
	return nil
}

func (s *Scaler) transform(features []float64) []float64 {
	if s == nil {
		return features
	}
	out := make([]float64, len(features))
	for i, x := range features {
		out[i] = (x - s.Mean[i]) / s.Scale[i]
	}
	return out
}

type LogisticRegression struct {
	Scaler       *Scaler   `json:"scaler,omitempty"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func (m *LogisticRegression) NumFeatures() int {
	return len(m.Coefficients)
}

func (m *LogisticRegression) validate() error {
	if len(m.Coefficients) == 0 {
		return errors.New("logistic regression has no coefficients")
	}
	return m.Scaler.validate(len(m.Coefficients))
}

func (m *LogisticRegression) PredictProba(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.Coefficients), len(features))
	}

	z := m.Intercept
	for i, x := range m.Scaler.transform(features) {
		z += m.Coefficients[i] * x
	}

	return 1 / (1 + math.Exp(-z)), nil
}

// TreeNode is one node of a decision tree. Leaves have Left == -1 and carry
// the positive-class probability of the samples that reached them.
type TreeNode struct {
	Feature     int     `json:"feature"`
	Threshold   float64 `json:"threshold"`
	Left        int     `json:"left"`
	Right       int     `json:"right"`
	Probability float64 `json:"probability"`
}

type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

func (t DecisionTree) validate(width int) error {
	if len(t.Nodes) == 0 {
		return errors.New("tree has no nodes")
	}
	for i, node := range t.Nodes {
		if node.Left == -1 {
			if node.Probability < 0 || node.Probability > 1 {
				return fmt.Errorf("leaf %d probability %v outside [0,1]", i, node.Probability)
			}
			continue
		}
		if node.Feature < 0 || node.Feature >= width {
			return fmt.Errorf("node %d splits on feature %d of %d", i, node.Feature, width)
		}
		// Children always come after their parent, which also rules out cycles.
		if node.Left <= i || node.Right <= i || node.Left >= len(t.Nodes) || node.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has invalid children %d/%d", i, node.Left, node.Right)
		}
	}
	return nil
}

func (t DecisionTree) predict(features []float64) float64 {
	i := 0
	for {
		node := t.Nodes[i]
		if node.Left == -1 {
			return node.Probability
		}
		if features[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// RandomForest averages the leaf probabilities of its trees.
type RandomForest struct {
	Scaler   *Scaler        `json:"scaler,omitempty"`
	Features int            `json:"features"`
	Trees    []DecisionTree `json:"trees"`
}

func (m *RandomForest) NumFeatures() int {
	return m.Features
}

func (m *RandomForest) validate() error {
	if m.Features <= 0 {
		return errors.New("random forest has no features")
	}
	if len(m.Trees) == 0 {
		return errors.New("random forest has no trees")
	}
	for i, tree := range m.Trees {
		if err := tree.validate(m.Features); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return m.Scaler.validate(m.Features)
}

func (m *RandomForest) PredictProba(features []float64) (float64, error) {
	if len(features) != m.Features {
		return 0, fmt.Errorf("expected %d features, got %d", m.Features, len(features))
	}

	scaled := m.Scaler.transform(features)
	var sum float64
	for _, tree := range m.Trees {
		sum += tree.predict(scaled)
	}

	return sum / float64(len(m.Trees)), nil
}
