package analysis

import (
	"time"

	"qualitymap-backend/internal/iso9126"
)

// Keyword strength values for extracted candidates.
const (
	StrengthStrong = "strong"
	StrengthWeak   = "weak"
)

// Candidate is a requirement-candidate sentence retained by the extractor.
type Candidate struct {
	Text            string   `json:"text"`
	SourceIndex     int      `json:"sourceIndex"`
	KeywordStrength string   `json:"keywordStrength"`
	MatchedKeywords []string `json:"matchedKeywords"`
}

// ExtractionStats aggregates extractor counters.
type ExtractionStats struct {
	StrongKeywordMatches int `json:"strongKeywordMatches"`
	WeakKeywordMatches   int `json:"weakKeywordMatches"`
	FilteredOut          int `json:"filteredOut"`
}

// ExtractionResult is the extractor output for one document.
type ExtractionResult struct {
	Requirements    []Candidate     `json:"requirements"`
	TotalFound      int             `json:"totalFound"`
	TotalCandidates int             `json:"totalCandidates"`
	Stats           ExtractionStats `json:"extractionStats"`
}

// ClassifiedRequirement is a candidate merged with its classifier output.
type ClassifiedRequirement struct {
	Text            string             `json:"text"`
	Category        iso9126.Category   `json:"category"`
	Confidence      float64            `json:"confidence"`
	Probabilities   map[string]float64 `json:"probabilities,omitempty"`
	KeywordStrength string             `json:"keywordStrength"`
	SourceIndex     int                `json:"sourceIndex"`
}

// CategoryScore summarizes one category's presence in the requirement set.
type CategoryScore struct {
	Count          int     `json:"count"`
	Percentage     float64 `json:"percentage"`
	MeetsMinimum   bool    `json:"meetsMinimum"`
	Weight         float64 `json:"weight"`
	MinRecommended int     `json:"minRecommended"`
}

// DomainInfo is the detected application domain with category criticality tags.
type DomainInfo struct {
	Domain             string            `json:"domain"`
	Confidence         float64           `json:"confidence"`
	CriticalCategories map[string]string `json:"criticalCategories"`
	Reasoning          string            `json:"reasoning,omitempty"`
}

// Recommendation is an actionable improvement suggestion.
type Recommendation struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// GapEntry marks a category that is missing or under its recommended minimum.
type GapEntry struct {
	Category    string `json:"category"`
	GapType     string `json:"gapType"`
	Count       int    `json:"count"`
	MinRequired int    `json:"minRequired"`
	Shortage    int    `json:"shortage"`
}

// Risk is the risk label derived from the overall score.
type Risk struct {
	Level  string `json:"level"`
	Colour string `json:"colour"`
}

// Analysis is the persisted snapshot of one SRS analysis run.
type Analysis struct {
	ID                string
	DocumentID        string
	TotalRequirements int
	OverallScore      float64
	RiskLevel         string
	Domain            DomainInfo
	CategoryScores    map[string]CategoryScore
	CategoriesPresent []string
	CategoriesMissing []string
	Recommendations   []Recommendation
	GapAnalysis       []GapEntry
	CreatedAt         time.Time
}
