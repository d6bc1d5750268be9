package qualityplan

import "time"

// CategoryCoverage records the evidence found for one quality category.
type CategoryCoverage struct {
	Covered             bool     `json:"covered"`
	EvidenceSnippets    []string `json:"evidenceSnippets"`
	EvidenceCount       int      `json:"evidenceCount"`
	InSRS               bool     `json:"inSrs"`
	SRSRequirementCount int      `json:"srsRequirementCount"`
	Weight              float64  `json:"weight"`
	Importance          string   `json:"importance"`
}

// Suggestion is an improvement suggestion for the quality plan.
type Suggestion struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	Type     string `json:"type"`
	Message  string `json:"message"`
}

// PlanReport is the computed comparison of a quality plan against an SRS
// analysis snapshot.
type PlanReport struct {
	CategoryCoverage  map[string]CategoryCoverage `json:"categoryCoverage"`
	OverallCoverage   float64                     `json:"overallCoverage"`
	AchievableQuality float64                     `json:"achievableQuality"`
	PlanStrength      string                      `json:"planStrength"`
	Suggestions       []Suggestion                `json:"suggestions"`
	Summary           string                      `json:"summary"`
}

// QualityPlan is the persisted snapshot of one plan comparison.
type QualityPlan struct {
	ID         string
	AnalysisID string
	DocumentID string
	Report     PlanReport
	CreatedAt  time.Time
}

// SRSSnapshot is the slice of a prior SRS analysis the matcher compares
// against.
type SRSSnapshot struct {
	AnalysisID        string
	DocumentID        string
	CategoryCounts    map[string]int
	CategoriesPresent []string
	CategoriesMissing []string
}
