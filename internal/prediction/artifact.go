package prediction

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

const (
	// DecisionThreshold labels a probability as high risk for display. The
	// raw probability is what gets stored.
	DecisionThreshold = 0.5

	modelTypeLogistic = "logistic_regression"
	modelTypeForest   = "random_forest"
)

var ErrArtifactUnavailable = errors.New("risk model artifact unavailable")

type RiskLevel string

const (
	RiskLow  RiskLevel = "low"
	RiskHigh RiskLevel = "high"
)

func LevelOf(probability float64) RiskLevel {
	if probability >= DecisionThreshold {
		return RiskHigh
	}
	return RiskLow
}

// Artifact pairs a trained classifier with the ordered column names it was
// trained on. It is immutable once built.
type Artifact struct {
	classifier Classifier
	columns    []string
}

func NewArtifact(classifier Classifier, columns []string) (*Artifact, error) {
	if classifier == nil {
		return nil, errors.New("classifier is nil")
	}
	if len(columns) == 0 {
		return nil, errors.New("column list is empty")
	}

	seen := make(map[string]struct{}, len(columns))
	for _, column := range columns {
		if _, dup := seen[column]; dup {
			return nil, fmt.Errorf("duplicate column %q", column)
		}
		seen[column] = struct{}{}
	}

	if classifier.NumFeatures() != len(columns) {
		return nil, fmt.Errorf(
			"classifier expects %d features but %d columns were provided",
			classifier.NumFeatures(), len(columns),
		)
	}

	return &Artifact{classifier: classifier, columns: append([]string(nil), columns...)}, nil
}

// LoadArtifact reads the classifier and column files written by the training
// job. A missing file yields ErrArtifactUnavailable.
func LoadArtifact(modelPath, columnsPath string) (*Artifact, error) {
	for _, path := range []string{modelPath, columnsPath} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrArtifactUnavailable, path, err)
		}
	}

	classifier, err := loadClassifier(modelPath)
	if err != nil {
		return nil, err
	}

	columns, err := loadColumns(columnsPath)
	if err != nil {
		return nil, err
	}

	return NewArtifact(classifier, columns)
}

type modelFile struct {
	Type string `json:"type"`
}

func loadClassifier(path string) (Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var header modelFile
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}

	switch header.Type {
	case modelTypeLogistic:
		var m LogisticRegression
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode logistic regression: %w", err)
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		return &m, nil
	case modelTypeForest:
		var m RandomForest
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode random forest: %w", err)
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		return &m, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", header.Type)
	}
}

func loadColumns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var columns []string
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("decode columns %s: %w", path, err)
	}
	return columns, nil
}

// Columns returns a copy of the trained column order.
func (a *Artifact) Columns() []string {
	return append([]string(nil), a.columns...)
}

// Align lays submission out in this artifact's column order.
func (a *Artifact) Align(submission map[string]string) Vector {
	return Align(submission, a.columns)
}

// Score aligns submission and returns the positive-class probability.
func (a *Artifact) Score(submission map[string]string) (Vector, float64, error) {
	vector := a.Align(submission)

	for i, value := range vector.Values {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return vector, 0, fmt.Errorf("%w: %s", ErrNonFiniteFeature, vector.Columns[i])
		}
	}

	probability, err := a.classifier.PredictProba(vector.Values)
	if err != nil {
		return vector, 0, fmt.Errorf("predict: %w", err)
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return vector, 0, fmt.Errorf("classifier returned probability %v outside [0,1]", probability)
	}

	return vector, probability, nil
}

var ErrNonFiniteFeature = errors.New("feature value is not a finite number")
