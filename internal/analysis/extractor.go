package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"qualitymap-backend/internal/shared/telemetry"
)

// Strong signal phrases: presence marks a candidate as a requirement outright.
var strongKeywords = []string{
	"shall", "must", "should", "will", "shall not", "must not",
	"should not", "is required", "are required", "needs to", "need to",
}

// Weak signal verbs: the sentence may still be a requirement.
var weakKeywords = []string{
	"require", "provides", "supports", "enables", "allows",
	"ensures", "guarantees", "handles", "processes", "validates",
	"verifies", "maintains", "manages", "implements", "performs",
}

// Candidate length bounds in characters.
const (
	MinCandidateLength = 20
	MaxCandidateLength = 500
)

// MinAlphaRatio rejects mostly-numeric or mostly-symbol candidates.
const MinAlphaRatio = 0.4

var (
	bulletMarkerRe    = regexp.MustCompile(`(?m)^[ \t]*[-•*][ \t]+`)
	numberMarkerRe    = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`)
	letterMarkerRe    = regexp.MustCompile(`(?m)^[ \t]*[a-zA-Z][.)][ \t]+`)
	sentenceBreakRe   = regexp.MustCompile(`([.!?])\s+`)
	innerWhitespaceRe = regexp.MustCompile(`\s+`)
)

// ExtractRequirements parses plain text into requirement candidates.
// Extraction is a pure function of the text: identical input yields
// identical output.
func ExtractRequirements(text string) ExtractionResult {
	if strings.TrimSpace(text) == "" {
		return ExtractionResult{Requirements: []Candidate{}}
	}

	candidates := splitIntoCandidates(text)

	requirements := make([]Candidate, 0, len(candidates))
	var stats ExtractionStats

	for idx, candidate := range candidates {
		cand, ok := evaluateCandidate(candidate, idx)
		if !ok {
			stats.FilteredOut++
			continue
		}
		switch cand.KeywordStrength {
		case StrengthStrong:
			stats.StrongKeywordMatches++
		case StrengthWeak:
			stats.WeakKeywordMatches++
		}
		requirements = append(requirements, cand)
	}

	telemetry.Debug("requirement extraction complete", map[string]any{
		"found":      len(requirements),
		"candidates": len(candidates),
		"strong":     stats.StrongKeywordMatches,
		"weak":       stats.WeakKeywordMatches,
		"filtered":   stats.FilteredOut,
	})

	return ExtractionResult{
		Requirements:    requirements,
		TotalFound:      len(requirements),
		TotalCandidates: len(candidates),
		Stats:           stats,
	}
}

// RequirementTexts returns just the candidate sentences, classifier-ready.
func RequirementTexts(res ExtractionResult) []string {
	out := make([]string, len(res.Requirements))
	for i, r := range res.Requirements {
		out[i] = r.Text
	}
	return out
}

// splitIntoCandidates normalizes list markers into line breaks, then splits
// on sentence-terminating punctuation or newlines. Deduplicates by exact
// string equality, first occurrence wins.
func splitIntoCandidates(text string) []string {
	text = bulletMarkerRe.ReplaceAllString(text, "\n")
	text = numberMarkerRe.ReplaceAllString(text, "\n")
	text = letterMarkerRe.ReplaceAllString(text, "\n")

	text = sentenceBreakRe.ReplaceAllString(text, "$1\n")
	rawParts := strings.Split(text, "\n")

	candidates := make([]string, 0, len(rawParts))
	seen := make(map[string]struct{}, len(rawParts))
	for _, part := range rawParts {
		part = strings.TrimSpace(part)
		part = innerWhitespaceRe.ReplaceAllString(part, " ")
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		candidates = append(candidates, part)
	}
	return candidates
}

// evaluateCandidate applies the length, alpha-ratio, and keyword filters.
func evaluateCandidate(text string, index int) (Candidate, bool) {
	runes := []rune(text)
	if len(runes) < MinCandidateLength || len(runes) > MaxCandidateLength {
		return Candidate{}, false
	}

	letters := 0
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if float64(letters)/float64(len(runes)) < MinAlphaRatio {
		return Candidate{}, false
	}

	lower := strings.ToLower(text)

	if matched := matchKeywords(lower, strongKeywords); len(matched) > 0 {
		return Candidate{
			Text:            text,
			SourceIndex:     index,
			KeywordStrength: StrengthStrong,
			MatchedKeywords: matched,
		}, true
	}

	if matched := matchKeywords(lower, weakKeywords); len(matched) > 0 {
		return Candidate{
			Text:            text,
			SourceIndex:     index,
			KeywordStrength: StrengthWeak,
			MatchedKeywords: matched,
		}, true
	}

	return Candidate{}, false
}

func matchKeywords(lower string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}
