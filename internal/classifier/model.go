package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"qualitymap-backend/internal/iso9126"
)

// artifact is the serialized form of a trained TF-IDF + logistic regression model.
type artifact struct {
	ModelName  string         `json:"model_name"`
	Accuracy   float64        `json:"accuracy"`
	Classes    []string       `json:"classes"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Coef       [][]float64    `json:"coef"`
	Intercept  []float64      `json:"intercept"`
}

// Model is a linear classifier over TF-IDF sentence vectors.
type Model struct {
	name       string
	accuracy   float64
	classes    []iso9126.Category
	vocabulary map[string]int
	idf        []float64
	coef       [][]float64
	intercept  []float64
}

// Load reads a model artifact from disk and validates its shape.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}

	var art artifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}

	if len(art.Classes) == 0 {
		return nil, fmt.Errorf("model %s: no classes", path)
	}
	features := len(art.Vocabulary)
	if features == 0 {
		return nil, fmt.Errorf("model %s: empty vocabulary", path)
	}
	if len(art.IDF) != features {
		return nil, fmt.Errorf("model %s: idf length %d != vocabulary size %d", path, len(art.IDF), features)
	}
	if len(art.Coef) != len(art.Classes) {
		return nil, fmt.Errorf("model %s: coef rows %d != classes %d", path, len(art.Coef), len(art.Classes))
	}
	for i, row := range art.Coef {
		if len(row) != features {
			return nil, fmt.Errorf("model %s: coef row %d length %d != vocabulary size %d", path, i, len(row), features)
		}
	}
	if len(art.Intercept) != len(art.Classes) {
		return nil, fmt.Errorf("model %s: intercept length %d != classes %d", path, len(art.Intercept), len(art.Classes))
	}
	for _, idx := range art.Vocabulary {
		if idx < 0 || idx >= features {
			return nil, fmt.Errorf("model %s: vocabulary index %d out of range", path, idx)
		}
	}

	classes := make([]iso9126.Category, len(art.Classes))
	for i, c := range art.Classes {
		classes[i] = iso9126.Parse(c)
	}

	name := art.ModelName
	if name == "" {
		name = "tfidf-logreg"
	}

	return &Model{
		name:       name,
		accuracy:   art.Accuracy,
		classes:    classes,
		vocabulary: art.Vocabulary,
		idf:        art.IDF,
		coef:       art.Coef,
		intercept:  art.Intercept,
	}, nil
}

// Info returns model metadata.
func (m *Model) Info() ModelInfo {
	return ModelInfo{
		Name:     m.name,
		Accuracy: m.accuracy,
		Classes:  len(m.classes),
		Features: len(m.vocabulary),
	}
}

// Classify predicts the category of a single sentence.
// Blank input yields the Unknown category with zero confidence.
func (m *Model) Classify(text string) Prediction {
	if strings.TrimSpace(text) == "" {
		return Prediction{Category: iso9126.Unknown, Confidence: 0, Probabilities: map[string]float64{}}
	}

	vec := m.vectorize(text)
	scores := make([]float64, len(m.classes))
	for i := range m.classes {
		score := m.intercept[i]
		for idx, val := range vec {
			score += m.coef[i][idx] * val
		}
		scores[i] = score
	}

	probs := softmax(scores)

	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}

	probabilities := make(map[string]float64, len(m.classes))
	for i, c := range m.classes {
		probabilities[string(c)] = round2(probs[i] * 100)
	}

	return Prediction{
		Category:      m.classes[best],
		Confidence:    round2(probs[best] * 100),
		Probabilities: probabilities,
	}
}

// ClassifyBatch predicts categories for a slice of sentences.
func (m *Model) ClassifyBatch(texts []string) []Prediction {
	out := make([]Prediction, len(texts))
	for i, t := range texts {
		out[i] = m.Classify(t)
	}
	return out
}

// vectorize builds a sparse l2-normalized TF-IDF vector keyed by feature index.
func (m *Model) vectorize(text string) map[int]float64 {
	counts := map[int]float64{}
	for _, token := range Tokenize(text) {
		if idx, ok := m.vocabulary[token]; ok {
			counts[idx]++
		}
	}

	var norm float64
	for idx := range counts {
		counts[idx] *= m.idf[idx]
		norm += counts[idx] * counts[idx]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range counts {
			counts[idx] /= norm
		}
	}
	return counts
}

// Tokenize lowercases and splits on non-alphanumeric runs, dropping short tokens.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ Classifier = (*Model)(nil)
