package score

import (
	"encoding/json"
	"fmt"
	"os"
)

// Model scores paths with a linear model over file features. Weights come
// from an externally trained predictor exported as JSON.
type Model struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// LoadModel reads model weights from path. Scoring is meaningless without
// the weights, so callers treat a load failure as fatal before scanning
// begins.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	if len(m.Weights) != featureCount {
		return nil, fmt.Errorf("model %s: expected %d weights, got %d",
			path, featureCount, len(m.Weights))
	}
	return &m, nil
}

func (m *Model) Score(path, root string) float64 {
	features := fileFeatures(path, root)
	score := m.Bias
	for i, w := range m.Weights {
		score += w * features[i]
	}
	return score
}
