package classifier

import (
	"qualitymap-backend/internal/iso9126"
)

// Prediction is the classification outcome for a single requirement sentence.
type Prediction struct {
	Category      iso9126.Category   `json:"category"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// ModelInfo describes the loaded model, surfaced on the health endpoint.
type ModelInfo struct {
	Name     string  `json:"name"`
	Accuracy float64 `json:"accuracy"`
	Classes  int     `json:"classes"`
	Features int     `json:"features"`
}

// Classifier assigns ISO/IEC 9126 categories to requirement sentences.
type Classifier interface {
	Classify(text string) Prediction
	ClassifyBatch(texts []string) []Prediction
	Info() ModelInfo
}
