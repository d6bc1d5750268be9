package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"qualitymap-backend/internal/iso9126"
	"qualitymap-backend/internal/shared/telemetry"
)

// Risk thresholds for the overall score, checked top-down.
var riskLevels = []struct {
	Threshold float64
	Level     string
	Colour    string
}{
	{80, "Low", "green"},
	{60, "Medium", "orange"},
	{40, "High", "red"},
	{0, "Critical", "darkred"},
}

var priorityRank = map[string]int{
	"critical": 0,
	"high":     1,
	"medium":   2,
	"low":      3,
	"info":     4,
}

// CalculateCategoryScores counts requirements per category and derives
// per-category coverage stats. All 7 categories are always present in the
// result; Unknown predictions are excluded from the table.
func CalculateCategoryScores(classified []ClassifiedRequirement) map[string]CategoryScore {
	scores := make(map[string]CategoryScore, 7)
	for _, cat := range iso9126.Categories() {
		scores[string(cat)] = CategoryScore{
			Weight:         cat.Weight(),
			MinRecommended: cat.MinRecommended(),
		}
	}
	if len(classified) == 0 {
		return scores
	}

	total := len(classified)
	counts := map[string]int{}
	for _, r := range classified {
		counts[string(r.Category)]++
	}

	for _, cat := range iso9126.Categories() {
		name := string(cat)
		count := counts[name]
		scores[name] = CategoryScore{
			Count:          count,
			Percentage:     round2(float64(count) / float64(total) * 100),
			MeetsMinimum:   count >= cat.MinRecommended(),
			Weight:         cat.Weight(),
			MinRecommended: cat.MinRecommended(),
		}
	}
	return scores
}

// CalculateOverallScore blends category coverage (40 points), distribution
// balance (30 points), and average classifier confidence (30 points).
func CalculateOverallScore(scores map[string]CategoryScore, classified []ClassifiedRequirement) float64 {
	if len(classified) == 0 {
		return 0
	}

	categories := iso9126.Categories()

	present := 0
	counts := make([]float64, 0, len(categories))
	for _, cat := range categories {
		count := scores[string(cat)].Count
		counts = append(counts, float64(count))
		if count > 0 {
			present++
		}
	}
	coverageScore := float64(present) / float64(len(categories)) * 40

	var presentCounts []float64
	for _, c := range counts {
		if c > 0 {
			presentCounts = append(presentCounts, c)
		}
	}
	balanceScore := 0.0
	if len(presentCounts) > 1 {
		mean := 0.0
		for _, c := range presentCounts {
			mean += c
		}
		mean /= float64(len(presentCounts))
		variance := 0.0
		for _, c := range presentCounts {
			variance += (c - mean) * (c - mean)
		}
		variance /= float64(len(presentCounts))
		normStd := math.Sqrt(variance) / (mean + 1)
		balanceScore = math.Max(0, 30*(1-math.Min(normStd, 1)))
	}

	var confidenceSum float64
	for _, r := range classified {
		confidenceSum += r.Confidence
	}
	confidenceScore := confidenceSum / float64(len(classified)) / 100 * 30

	overall := round2(coverageScore + balanceScore + confidenceScore)
	telemetry.Debug("overall score computed", map[string]any{
		"overall":    overall,
		"coverage":   coverageScore,
		"balance":    balanceScore,
		"confidence": confidenceScore,
	})
	return math.Min(overall, 100)
}

// RiskForScore maps an overall score to a risk label and colour.
func RiskForScore(overall float64) Risk {
	for _, rl := range riskLevels {
		if overall >= rl.Threshold {
			return Risk{Level: rl.Level, Colour: rl.Colour}
		}
	}
	return Risk{Level: "Critical", Colour: "darkred"}
}

// GenerateGapAnalysis lists categories that are missing entirely or under
// their recommended minimum.
func GenerateGapAnalysis(scores map[string]CategoryScore) []GapEntry {
	gaps := []GapEntry{}
	for _, cat := range iso9126.Categories() {
		entry := scores[string(cat)]
		switch {
		case entry.Count == 0:
			gaps = append(gaps, GapEntry{
				Category:    string(cat),
				GapType:     "missing",
				Count:       0,
				MinRequired: entry.MinRecommended,
				Shortage:    entry.MinRecommended,
			})
		case entry.Count < entry.MinRecommended:
			gaps = append(gaps, GapEntry{
				Category:    string(cat),
				GapType:     "insufficient",
				Count:       entry.Count,
				MinRequired: entry.MinRecommended,
				Shortage:    entry.MinRecommended - entry.Count,
			})
		}
	}
	return gaps
}

// GenerateRecommendations produces prioritized category-level suggestions.
// When domain info is supplied, categories the domain marks as critical or
// high importance get escalated priorities and domain-aware messaging.
func GenerateRecommendations(scores map[string]CategoryScore, overall float64, domain *DomainInfo) []Recommendation {
	recs := []Recommendation{}

	domainName := ""
	domainTags := map[string]string{}
	if domain != nil && domain.Domain != "" && domain.Domain != GeneralDomain {
		domainName = domain.Domain
		domainTags = domain.CriticalCategories
	}

	for _, cat := range iso9126.Categories() {
		name := string(cat)
		entry := scores[name]
		tag := domainTags[name]

		switch {
		case entry.Count == 0:
			priority := "high"
			if tag == "critical" {
				priority = "critical"
			}
			msg := fmt.Sprintf(
				"No %s requirements found. Add at least %d requirement(s) covering %s aspects.",
				name, entry.MinRecommended, strings.ToLower(name),
			)
			if domainName != "" && tag != "" {
				msg += fmt.Sprintf(" %s is %s for %s systems.", name, tag, domainName)
			}
			recs = append(recs, Recommendation{Category: name, Priority: priority, Message: msg})

		case entry.Count < entry.MinRecommended:
			priority := "medium"
			if tag == "critical" || tag == "high" {
				priority = "high"
			}
			msg := fmt.Sprintf(
				"%s has only %d requirement(s) - minimum recommended is %d. Consider adding more coverage.",
				name, entry.Count, entry.MinRecommended,
			)
			if domainName != "" && tag != "" {
				msg += fmt.Sprintf(" %s is particularly important for %s systems.", name, domainName)
			}
			recs = append(recs, Recommendation{Category: name, Priority: priority, Message: msg})
		}
	}

	if overall < 60 {
		risk := RiskForScore(overall)
		recs = append([]Recommendation{{
			Category: "General",
			Priority: "critical",
			Message: fmt.Sprintf(
				"Overall quality score is %.1f%% (%s risk). Focus on increasing coverage across missing categories before proceeding.",
				overall, risk.Level,
			),
		}}, recs...)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return rankOf(recs[i].Priority) < rankOf(recs[j].Priority)
	})

	telemetry.Debug("recommendations generated", map[string]any{"count": len(recs)})
	return recs
}

// BuildReport assembles the full scoring snapshot for one analysis run.
func BuildReport(classified []ClassifiedRequirement, domain *DomainInfo) Analysis {
	scores := CalculateCategoryScores(classified)
	overall := CalculateOverallScore(scores, classified)
	risk := RiskForScore(overall)
	recs := GenerateRecommendations(scores, overall, domain)
	gaps := GenerateGapAnalysis(scores)

	present := []string{}
	missing := []string{}
	for _, cat := range iso9126.Categories() {
		if scores[string(cat)].Count > 0 {
			present = append(present, string(cat))
		} else {
			missing = append(missing, string(cat))
		}
	}

	out := Analysis{
		TotalRequirements: len(classified),
		OverallScore:      overall,
		RiskLevel:         risk.Level,
		CategoryScores:    scores,
		CategoriesPresent: present,
		CategoriesMissing: missing,
		Recommendations:   recs,
		GapAnalysis:       gaps,
	}
	if domain != nil {
		out.Domain = *domain
	}
	return out
}

func rankOf(priority string) int {
	if rank, ok := priorityRank[priority]; ok {
		return rank
	}
	return 99
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
