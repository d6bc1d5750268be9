package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for domain-detection enhancement.
type Client interface {
	DetectDomain(ctx context.Context, input DomainInput) (json.RawMessage, error)
}

// DomainInput captures the inputs for LLM domain detection.
type DomainInput struct {
	TextPreview    string
	CategoryCounts map[string]int
}

// DomainResult is the expected JSON shape returned by providers.
type DomainResult struct {
	Domain             string   `json:"domain"`
	Confidence         float64  `json:"confidence"`
	CriticalCategories []string `json:"critical_categories"`
	Reasoning          string   `json:"reasoning"`
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// DetectDomain returns ErrNotImplemented.
func (PlaceholderClient) DetectDomain(ctx context.Context, input DomainInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
