package analysis

import (
	"context"
	"encoding/json"
	"time"

	"qualitymap-backend/internal/iso9126"
	"qualitymap-backend/internal/llm"
	"qualitymap-backend/internal/shared/telemetry"
)

// Enhancer optionally refines keyword-based domain detection with an LLM.
// Any provider failure falls back to the baseline result; enhancement never
// surfaces an error to the caller.
type Enhancer struct {
	LLM     llm.Client
	Timeout time.Duration
}

// EnhanceDomain returns the LLM's domain assessment when it is usable,
// otherwise the baseline unchanged.
func (e *Enhancer) EnhanceDomain(ctx context.Context, rawText string, classified []ClassifiedRequirement, baseline DomainInfo) DomainInfo {
	if e == nil || e.LLM == nil {
		return baseline
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	counts := map[string]int{}
	for _, r := range classified {
		counts[string(r.Category)]++
	}

	raw, err := e.LLM.DetectDomain(ctx, llm.DomainInput{
		TextPreview:    rawText,
		CategoryCounts: counts,
	})
	if err != nil {
		telemetry.Debug("llm domain enhancement skipped", map[string]any{"error": err.Error()})
		return baseline
	}

	var result llm.DomainResult
	if err := json.Unmarshal(raw, &result); err != nil {
		telemetry.Debug("llm domain enhancement skipped", map[string]any{"error": err.Error()})
		return baseline
	}
	if result.Domain == "" {
		return baseline
	}

	confidence := result.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	critical := map[string]string{}
	for _, name := range result.CriticalCategories {
		if cat := iso9126.Parse(name); cat != iso9126.Unknown {
			critical[string(cat)] = "critical"
		}
	}

	return DomainInfo{
		Domain:             result.Domain,
		Confidence:         confidence,
		CriticalCategories: critical,
		Reasoning:          result.Reasoning,
	}
}
