package analysis

import (
	"strings"
	"testing"

	"qualitymap-backend/internal/iso9126"
)

func classifiedSet(counts map[iso9126.Category]int, confidence float64) []ClassifiedRequirement {
	var out []ClassifiedRequirement
	for cat, n := range counts {
		for i := 0; i < n; i++ {
			out = append(out, ClassifiedRequirement{
				Text:       "requirement",
				Category:   cat,
				Confidence: confidence,
			})
		}
	}
	return out
}

func TestCalculateCategoryScoresEmptyInput(t *testing.T) {
	scores := CalculateCategoryScores(nil)
	if len(scores) != 7 {
		t.Fatalf("got %d categories, want 7", len(scores))
	}
	for name, entry := range scores {
		if entry.Count != 0 || entry.Percentage != 0 || entry.MeetsMinimum {
			t.Fatalf("%s: %+v, want zero entry", name, entry)
		}
		if entry.Weight <= 0 || entry.MinRecommended < 1 {
			t.Fatalf("%s: weight/min not populated: %+v", name, entry)
		}
	}
}

func TestCalculateCategoryScoresCountsAndPercentages(t *testing.T) {
	classified := classifiedSet(map[iso9126.Category]int{
		iso9126.Functionality: 6,
		iso9126.Security:      2,
	}, 90)

	scores := CalculateCategoryScores(classified)

	fn := scores["Functionality"]
	if fn.Count != 6 || !fn.MeetsMinimum {
		t.Fatalf("Functionality: %+v", fn)
	}
	if fn.Percentage != 75.0 {
		t.Fatalf("Functionality percentage = %v, want 75", fn.Percentage)
	}

	sec := scores["Security"]
	if sec.Count != 2 || sec.MeetsMinimum {
		t.Fatalf("Security: %+v (minimum is 3)", sec)
	}
}

func TestGapAnalysisAllMissingOnEmptyInput(t *testing.T) {
	gaps := GenerateGapAnalysis(CalculateCategoryScores(nil))
	if len(gaps) != 7 {
		t.Fatalf("got %d gaps, want 7", len(gaps))
	}
	for _, g := range gaps {
		if g.GapType != "missing" {
			t.Fatalf("%s gap type = %s, want missing", g.Category, g.GapType)
		}
		if g.Shortage != g.MinRequired {
			t.Fatalf("%s shortage = %d, want %d", g.Category, g.Shortage, g.MinRequired)
		}
	}
}

func TestGapAnalysisEmptyWhenAllMinimumsMet(t *testing.T) {
	classified := classifiedSet(map[iso9126.Category]int{
		iso9126.Functionality:   5,
		iso9126.Security:        3,
		iso9126.Reliability:     3,
		iso9126.Efficiency:      2,
		iso9126.Usability:       2,
		iso9126.Maintainability: 1,
		iso9126.Portability:     1,
	}, 85)

	gaps := GenerateGapAnalysis(CalculateCategoryScores(classified))
	if len(gaps) != 0 {
		t.Fatalf("got %d gaps, want 0: %+v", len(gaps), gaps)
	}
}

func TestGapAnalysisInsufficient(t *testing.T) {
	classified := classifiedSet(map[iso9126.Category]int{
		iso9126.Functionality: 2,
	}, 80)

	gaps := GenerateGapAnalysis(CalculateCategoryScores(classified))
	var fn *GapEntry
	for i := range gaps {
		if gaps[i].Category == "Functionality" {
			fn = &gaps[i]
		}
	}
	if fn == nil {
		t.Fatal("no Functionality gap entry")
	}
	if fn.GapType != "insufficient" || fn.Count != 2 || fn.Shortage != 3 {
		t.Fatalf("Functionality gap: %+v", *fn)
	}
}

func TestOverallScoreZeroForEmptyInput(t *testing.T) {
	if got := CalculateOverallScore(CalculateCategoryScores(nil), nil); got != 0 {
		t.Fatalf("overall = %v, want 0", got)
	}
}

func TestOverallScoreRangeAndRisk(t *testing.T) {
	classified := classifiedSet(map[iso9126.Category]int{
		iso9126.Functionality:   5,
		iso9126.Security:        3,
		iso9126.Reliability:     3,
		iso9126.Efficiency:      2,
		iso9126.Usability:       2,
		iso9126.Maintainability: 1,
		iso9126.Portability:     1,
	}, 90)

	scores := CalculateCategoryScores(classified)
	overall := CalculateOverallScore(scores, classified)
	if overall <= 0 || overall > 100 {
		t.Fatalf("overall = %v, want (0,100]", overall)
	}
	// Full category coverage alone is worth 40 points.
	if overall < 40 {
		t.Fatalf("overall = %v, want >= 40 with all categories present", overall)
	}
}

func TestRiskForScore(t *testing.T) {
	cases := []struct {
		score  float64
		level  string
		colour string
	}{
		{95, "Low", "green"},
		{80, "Low", "green"},
		{79.9, "Medium", "orange"},
		{60, "Medium", "orange"},
		{45, "High", "red"},
		{10, "Critical", "darkred"},
		{0, "Critical", "darkred"},
	}
	for _, tc := range cases {
		got := RiskForScore(tc.score)
		if got.Level != tc.level || got.Colour != tc.colour {
			t.Fatalf("score %v: got %+v, want %s/%s", tc.score, got, tc.level, tc.colour)
		}
	}
}

func TestRecommendationsDomainAwarePriorities(t *testing.T) {
	// Banking marks Security critical; no Security requirements at all.
	classified := classifiedSet(map[iso9126.Category]int{
		iso9126.Functionality: 5,
	}, 85)
	scores := CalculateCategoryScores(classified)
	domain := &DomainInfo{
		Domain:     "Banking / Finance",
		Confidence: 0.8,
		CriticalCategories: map[string]string{
			"Security": "critical", "Reliability": "critical",
			"Functionality": "high", "Efficiency": "high",
		},
	}

	recs := GenerateRecommendations(scores, 75, domain)

	var security *Recommendation
	for i := range recs {
		if recs[i].Category == "Security" {
			security = &recs[i]
		}
	}
	if security == nil {
		t.Fatal("no Security recommendation")
	}
	if security.Priority != "critical" {
		t.Fatalf("Security priority = %s, want critical", security.Priority)
	}
	if !strings.Contains(security.Message, "Banking / Finance") {
		t.Fatalf("Security message does not reference the domain: %q", security.Message)
	}

	// Priorities must be non-increasing in rank.
	for i := 1; i < len(recs); i++ {
		if rankOf(recs[i].Priority) < rankOf(recs[i-1].Priority) {
			t.Fatalf("recommendations out of priority order: %+v", recs)
		}
	}
}

func TestRecommendationsGeneralEntryOnLowScore(t *testing.T) {
	classified := classifiedSet(map[iso9126.Category]int{iso9126.Functionality: 1}, 30)
	scores := CalculateCategoryScores(classified)

	recs := GenerateRecommendations(scores, 25, nil)
	if len(recs) == 0 {
		t.Fatal("expected recommendations")
	}
	if recs[0].Category != "General" || recs[0].Priority != "critical" {
		t.Fatalf("first recommendation = %+v, want General/critical", recs[0])
	}
}

func TestBuildReportPartitionsCategories(t *testing.T) {
	classified := classifiedSet(map[iso9126.Category]int{
		iso9126.Functionality: 5,
		iso9126.Security:      3,
	}, 88)

	report := BuildReport(classified, nil)

	if report.TotalRequirements != 8 {
		t.Fatalf("total = %d, want 8", report.TotalRequirements)
	}
	if len(report.CategoriesPresent) != 2 || len(report.CategoriesMissing) != 5 {
		t.Fatalf("present=%v missing=%v", report.CategoriesPresent, report.CategoriesMissing)
	}
	if report.RiskLevel == "" {
		t.Fatal("risk level not set")
	}
	if len(report.GapAnalysis) != 5 {
		t.Fatalf("gaps = %d, want 5 (missing categories only)", len(report.GapAnalysis))
	}
}
