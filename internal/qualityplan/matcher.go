package qualityplan

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"qualitymap-backend/internal/iso9126"
	"qualitymap-backend/internal/shared/telemetry"
)

// Evidence phrases per category: a quality plan mentioning one of these is
// taken as addressing that category.
var categoryEvidenceKeywords = map[string][]string{
	"Functionality": {
		"functional test", "feature test", "unit test", "integration test",
		"functional requirement", "feature validation", "acceptance test",
		"test case", "test scenario", "functional verification",
		"use case test", "requirement verification", "system test",
		"functional coverage", "feature coverage", "regression test",
	},
	"Security": {
		"security test", "penetration test", "vulnerability", "authentication",
		"authorization", "encryption", "access control", "security audit",
		"security review", "threat model", "security scan", "owasp",
		"sql injection", "xss", "csrf", "security compliance", "firewall",
		"intrusion detection", "data protection", "privacy", "secure coding",
	},
	"Reliability": {
		"reliability test", "stress test", "load test", "failover",
		"recovery test", "fault tolerance", "availability", "uptime",
		"mean time between failure", "mtbf", "backup", "disaster recovery",
		"error handling", "exception handling", "retry", "redundancy",
		"high availability", "reliability metric", "failure rate",
	},
	"Efficiency": {
		"performance test", "load test", "response time", "throughput",
		"latency", "benchmark", "performance metric", "resource usage",
		"memory usage", "cpu usage", "optimization", "scalability",
		"capacity planning", "performance baseline", "stress test",
		"performance requirement", "sla", "service level",
	},
	"Usability": {
		"usability test", "user experience", "ux", "ui test",
		"user acceptance", "accessibility", "user interface",
		"user feedback", "user survey", "heuristic evaluation",
		"navigation test", "readability", "user training",
		"user documentation", "help documentation", "ease of use",
		"wcag", "508 compliance", "a11y",
	},
	"Maintainability": {
		"code review", "code quality", "static analysis", "code coverage",
		"documentation", "coding standard", "refactoring", "technical debt",
		"modularity", "maintainability index", "sonarqube", "lint",
		"code complexity", "cyclomatic complexity", "design review",
		"architecture review", "api documentation",
	},
	"Portability": {
		"portability test", "cross-platform", "cross-browser",
		"compatibility test", "migration", "platform support",
		"browser compatibility", "operating system", "docker",
		"containerization", "deployment", "environment", "configuration",
		"installation test", "platform independent", "mobile compatible",
	},
}

// Evidence dedup bucket width and snippet context radius, in characters.
const (
	evidenceBucketWidth  = 80
	snippetContextRadius = 60
	maxSnippetsPerCat    = 5
)

// AnalyzePlan compares a quality-plan document's text against an SRS
// analysis snapshot. Empty plan text yields a well-formed zero-coverage
// report rather than an error.
func AnalyzePlan(planText string, srs SRSSnapshot) PlanReport {
	if strings.TrimSpace(planText) == "" {
		return emptyReport("Quality plan document is empty or unreadable.")
	}

	planLower := strings.ToLower(planText)
	categories := iso9126.Categories()

	coverage := make(map[string]CategoryCoverage, len(categories))
	presentSet := make(map[string]bool, len(srs.CategoriesPresent))
	for _, cat := range srs.CategoriesPresent {
		presentSet[cat] = true
	}

	coveredCount := 0
	coveredWeight := 0.0

	for _, cat := range categories {
		name := string(cat)
		weight := cat.Weight()
		evidence := findEvidence(planLower, planText, categoryEvidenceKeywords[name])
		covered := len(evidence) > 0
		if covered {
			coveredCount++
			coveredWeight += weight
		}

		snippets := evidence
		if len(snippets) > maxSnippetsPerCat {
			snippets = snippets[:maxSnippetsPerCat]
		}

		coverage[name] = CategoryCoverage{
			Covered:             covered,
			EvidenceSnippets:    snippets,
			EvidenceCount:       len(evidence),
			InSRS:               presentSet[name],
			SRSRequirementCount: srs.CategoryCounts[name],
			Weight:              weight,
			Importance:          iso9126.ImportanceLabel(weight),
		}
	}

	// Coverage is the weighted share of SRS-present categories the plan covers.
	overallCoverage := 0.0
	if len(srs.CategoriesPresent) > 0 {
		coveredSRSWeight := 0.0
		totalSRSWeight := 0.0
		for _, name := range srs.CategoriesPresent {
			w := iso9126.Parse(name).Weight()
			totalSRSWeight += w
			if coverage[name].Covered {
				coveredSRSWeight += w
			}
		}
		if totalSRSWeight > 0 {
			overallCoverage = round2(coveredSRSWeight / totalSRSWeight * 100)
		}
	}

	// Achievable quality: weighted sum of everything covered, plus a
	// proactive bonus for covering categories the SRS missed.
	baseQuality := coveredWeight * 100
	proactiveBonus := 0.0
	for _, name := range srs.CategoriesMissing {
		if coverage[name].Covered {
			proactiveBonus += iso9126.Parse(name).Weight() * 20
		}
	}
	achievable := math.Min(round2(baseQuality+proactiveBonus), 100)

	strength := "Weak"
	switch {
	case overallCoverage >= 80:
		strength = "Strong"
	case overallCoverage >= 50:
		strength = "Moderate"
	}

	suggestions := generateSuggestions(coverage, srs.CategoriesPresent, srs.CategoriesMissing, overallCoverage)
	summary := generateSummary(coveredCount, len(categories), len(srs.CategoriesPresent), overallCoverage, achievable, strength)

	telemetry.Info("quality plan analyzed", map[string]any{
		"coverage":   overallCoverage,
		"achievable": achievable,
		"strength":   strength,
		"covered":    coveredCount,
	})

	return PlanReport{
		CategoryCoverage:  coverage,
		OverallCoverage:   overallCoverage,
		AchievableQuality: achievable,
		PlanStrength:      strength,
		Suggestions:       suggestions,
		Summary:           summary,
	}
}

// findEvidence locates keyword occurrences and extracts surrounding context
// snippets. Nearby hits collapse into one snippet via fixed-width position
// buckets shared across a category's keywords.
func findEvidence(textLower, originalText string, keywords []string) []string {
	var evidence []string
	seenBuckets := map[int]struct{}{}

	// ToLower can change a rune's encoded width (U+023A is two bytes, its
	// lowercase U+2C65 is three), so offsets into textLower only index the
	// original safely when the byte lengths agree.
	source := originalText
	if len(source) != len(textLower) {
		source = textLower
	}

	for _, keyword := range keywords {
		from := 0
		for {
			idx := strings.Index(textLower[from:], keyword)
			if idx < 0 {
				break
			}
			start := from + idx
			from = start + 1

			bucket := start / evidenceBucketWidth
			if _, seen := seenBuckets[bucket]; seen {
				continue
			}
			seenBuckets[bucket] = struct{}{}

			snippetStart := start - snippetContextRadius
			if snippetStart < 0 {
				snippetStart = 0
			}
			snippetEnd := start + len(keyword) + snippetContextRadius
			if snippetEnd > len(source) {
				snippetEnd = len(source)
			}

			snippet := strings.TrimSpace(source[snippetStart:snippetEnd])
			snippet = trimPartialWords(snippet)
			if snippet != "" {
				evidence = append(evidence, "..."+snippet+"...")
			}
		}
	}
	return evidence
}

// trimPartialWords drops the likely-truncated first and last tokens.
func trimPartialWords(snippet string) string {
	if i := strings.IndexAny(snippet, " \t\n"); i >= 0 {
		snippet = strings.TrimLeft(snippet[i:], " \t\n")
	}
	if i := strings.LastIndexAny(snippet, " \t\n"); i >= 0 {
		snippet = strings.TrimRight(snippet[:i], " \t\n")
	}
	return snippet
}

func generateSuggestions(coverage map[string]CategoryCoverage, srsPresent, srsMissing []string, overallCoverage float64) []Suggestion {
	suggestions := []Suggestion{}

	for _, cat := range srsPresent {
		data := coverage[cat]
		if data.Covered {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Category: cat,
			Priority: "high",
			Type:     "uncovered",
			Message: fmt.Sprintf(
				"Your SRS has %d %s requirement(s), but your Quality Plan does not address %s testing/validation. Add %s testing activities to your plan.",
				data.SRSRequirementCount, cat, cat, strings.ToLower(cat),
			),
		})
	}

	for _, cat := range srsMissing {
		if coverage[cat].Covered {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Category: cat,
			Priority: "medium",
			Type:     "both_missing",
			Message: fmt.Sprintf(
				"%s is missing from both your SRS and Quality Plan. Consider adding %s requirements to your SRS and corresponding test activities to your plan.",
				cat, strings.ToLower(cat),
			),
		})
	}

	for _, cat := range srsMissing {
		if !coverage[cat].Covered {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Category: cat,
			Priority: "info",
			Type:     "proactive",
			Message: fmt.Sprintf(
				"Good: Your Quality Plan covers %s even though the SRS doesn't mention it explicitly. Consider adding %s requirements to your SRS to formalize this.",
				cat, strings.ToLower(cat),
			),
		})
	}

	if overallCoverage < 50 {
		suggestions = append([]Suggestion{{
			Category: "General",
			Priority: "critical",
			Type:     "low_coverage",
			Message: fmt.Sprintf(
				"Quality plan coverage is only %.0f%%. The plan does not adequately address the quality factors identified in your SRS. Major revision recommended.",
				overallCoverage,
			),
		}}, suggestions...)
	}

	order := map[string]int{"critical": 0, "high": 1, "medium": 2, "info": 3}
	sort.SliceStable(suggestions, func(i, j int) bool {
		ri, ok := order[suggestions[i].Priority]
		if !ok {
			ri = 99
		}
		rj, ok := order[suggestions[j].Priority]
		if !ok {
			rj = 99
		}
		return ri < rj
	})
	return suggestions
}

func generateSummary(covered, total, srsPresentCount int, coverage, achievable float64, strength string) string {
	var lines []string

	lines = append(lines, fmt.Sprintf(
		"Your Quality Plan covers %d out of %d ISO/IEC 9126 quality categories.",
		covered, total,
	))

	if srsPresentCount > 0 {
		lines = append(lines, fmt.Sprintf(
			"Your SRS identified requirements in %d categories. The plan covers %.0f%% of these categories (weighted by importance).",
			srsPresentCount, coverage,
		))
	}

	switch strength {
	case "Strong":
		lines = append(lines, fmt.Sprintf(
			"If this plan is fully executed, the achievable quality score is %.0f%%. This is a strong quality plan that addresses most identified quality factors.",
			achievable,
		))
	case "Moderate":
		lines = append(lines, fmt.Sprintf(
			"If this plan is fully executed, the achievable quality score is %.0f%%. The plan has room for improvement - some quality factors are not addressed.",
			achievable,
		))
	default:
		lines = append(lines, fmt.Sprintf(
			"If this plan is fully executed, the achievable quality score would only be %.0f%%. Significant gaps exist. Review the suggestions below to strengthen your plan.",
			achievable,
		))
	}

	return strings.Join(lines, " ")
}

func emptyReport(reason string) PlanReport {
	coverage := make(map[string]CategoryCoverage, 7)
	for _, cat := range iso9126.Categories() {
		weight := cat.Weight()
		coverage[string(cat)] = CategoryCoverage{
			EvidenceSnippets: []string{},
			Weight:           weight,
			Importance:       iso9126.ImportanceLabel(weight),
		}
	}
	return PlanReport{
		CategoryCoverage:  coverage,
		OverallCoverage:   0,
		AchievableQuality: 0,
		PlanStrength:      "Weak",
		Suggestions: []Suggestion{{
			Category: "General",
			Priority: "critical",
			Type:     "error",
			Message:  reason,
		}},
		Summary: reason,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
