package qualityplan

import (
	"strings"
	"testing"
)

func srsWithPresent(counts map[string]int) SRSSnapshot {
	all := []string{"Functionality", "Security", "Reliability", "Efficiency", "Usability", "Maintainability", "Portability"}
	var present, missing []string
	for _, cat := range all {
		if counts[cat] > 0 {
			present = append(present, cat)
		} else {
			missing = append(missing, cat)
		}
	}
	return SRSSnapshot{
		AnalysisID:        "a1",
		CategoryCounts:    counts,
		CategoriesPresent: present,
		CategoriesMissing: missing,
	}
}

func TestAnalyzePlanFindsEvidence(t *testing.T) {
	plan := "Our QA strategy includes penetration testing of all public endpoints " +
		"and unit tests for every module before release."
	srs := srsWithPresent(map[string]int{"Functionality": 5, "Security": 3})

	report := AnalyzePlan(plan, srs)

	sec := report.CategoryCoverage["Security"]
	if !sec.Covered {
		t.Fatal("Security not covered despite penetration-testing evidence")
	}
	if sec.EvidenceCount < 1 {
		t.Fatalf("Security evidence count = %d, want >= 1", sec.EvidenceCount)
	}
	if !sec.InSRS || sec.SRSRequirementCount != 3 {
		t.Fatalf("Security SRS linkage wrong: %+v", sec)
	}

	fn := report.CategoryCoverage["Functionality"]
	if !fn.Covered {
		t.Fatal("Functionality not covered despite unit-test evidence")
	}

	if report.OverallCoverage <= 0 {
		t.Fatalf("overall coverage = %v, want > 0", report.OverallCoverage)
	}
	// Both SRS-present categories covered: weighted coverage is 100%.
	if report.OverallCoverage != 100 {
		t.Fatalf("overall coverage = %v, want 100", report.OverallCoverage)
	}
	if report.PlanStrength != "Strong" {
		t.Fatalf("plan strength = %s, want Strong", report.PlanStrength)
	}
}

func TestAnalyzePlanEmptyText(t *testing.T) {
	srs := srsWithPresent(map[string]int{"Functionality": 5})

	for _, text := range []string{"", "   \n\t "} {
		report := AnalyzePlan(text, srs)
		if report.OverallCoverage != 0 || report.AchievableQuality != 0 {
			t.Fatalf("empty plan: coverage=%v achievable=%v, want 0/0", report.OverallCoverage, report.AchievableQuality)
		}
		if report.PlanStrength != "Weak" {
			t.Fatalf("empty plan strength = %s, want Weak", report.PlanStrength)
		}
		if len(report.Suggestions) != 1 || report.Suggestions[0].Category != "General" {
			t.Fatalf("empty plan suggestions = %+v, want single General entry", report.Suggestions)
		}
		if len(report.CategoryCoverage) != 7 {
			t.Fatalf("empty plan coverage has %d categories, want 7", len(report.CategoryCoverage))
		}
		for name, cov := range report.CategoryCoverage {
			if cov.Covered || cov.EvidenceCount != 0 {
				t.Fatalf("%s marked covered in empty plan", name)
			}
		}
	}
}

func TestAnalyzePlanUncoveredSRSCategory(t *testing.T) {
	// Plan addresses functionality only; SRS also has Security requirements.
	plan := "We will run an acceptance test for every user story and track each test case in the backlog."
	srs := srsWithPresent(map[string]int{"Functionality": 5, "Security": 3})

	report := AnalyzePlan(plan, srs)

	if report.CategoryCoverage["Security"].Covered {
		t.Fatal("Security unexpectedly covered")
	}
	// Functionality weight 0.30 of present weight 0.50.
	if report.OverallCoverage != 60 {
		t.Fatalf("overall coverage = %v, want 60", report.OverallCoverage)
	}

	var uncovered *Suggestion
	for i := range report.Suggestions {
		if report.Suggestions[i].Type == "uncovered" && report.Suggestions[i].Category == "Security" {
			uncovered = &report.Suggestions[i]
		}
	}
	if uncovered == nil {
		t.Fatalf("no uncovered suggestion for Security: %+v", report.Suggestions)
	}
	if uncovered.Priority != "high" {
		t.Fatalf("uncovered suggestion priority = %s, want high", uncovered.Priority)
	}
	if !strings.Contains(uncovered.Message, "3 Security requirement(s)") {
		t.Fatalf("uncovered message does not name the SRS count: %q", uncovered.Message)
	}
}

func TestAnalyzePlanProactiveBonus(t *testing.T) {
	// SRS only has Functionality; plan also covers Security (missing from SRS).
	plan := "Unit tests cover all features. A penetration test is scheduled each quarter."
	srs := srsWithPresent(map[string]int{"Functionality": 5})

	report := AnalyzePlan(plan, srs)

	if report.OverallCoverage != 100 {
		t.Fatalf("overall coverage = %v, want 100 (only SRS-present category covered)", report.OverallCoverage)
	}
	// Achievable: (0.30+0.20)*100 + 0.20*20 bonus = 54.
	if report.AchievableQuality != 54 {
		t.Fatalf("achievable = %v, want 54", report.AchievableQuality)
	}

	var proactive *Suggestion
	for i := range report.Suggestions {
		if report.Suggestions[i].Type == "proactive" {
			proactive = &report.Suggestions[i]
		}
	}
	if proactive == nil || proactive.Category != "Security" || proactive.Priority != "info" {
		t.Fatalf("expected info-priority proactive suggestion for Security, got %+v", proactive)
	}
}

func TestAnalyzePlanLowCoverageGeneralSuggestion(t *testing.T) {
	// Plan covers nothing the SRS needs.
	plan := "This document describes the project timeline and the team roster for the spring semester."
	srs := srsWithPresent(map[string]int{"Functionality": 5, "Security": 3})

	report := AnalyzePlan(plan, srs)

	if report.OverallCoverage >= 50 {
		t.Fatalf("overall coverage = %v, want < 50", report.OverallCoverage)
	}
	if len(report.Suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
	first := report.Suggestions[0]
	if first.Category != "General" || first.Priority != "critical" || first.Type != "low_coverage" {
		t.Fatalf("first suggestion = %+v, want General/critical/low_coverage", first)
	}
}

func TestFindEvidenceSnippetFormat(t *testing.T) {
	text := "Before each release the team runs a full regression test suite against the staging environment to catch breakage early."
	evidence := findEvidence(strings.ToLower(text), text, []string{"regression test"})

	if len(evidence) != 1 {
		t.Fatalf("evidence = %v, want exactly one snippet", evidence)
	}
	snippet := evidence[0]
	if !strings.HasPrefix(snippet, "...") || !strings.HasSuffix(snippet, "...") {
		t.Fatalf("snippet not ellipsis-bounded: %q", snippet)
	}
	if !strings.Contains(snippet, "regression test") {
		t.Fatalf("snippet does not contain the keyword: %q", snippet)
	}
}

func TestFindEvidenceBucketsNearbyMatches(t *testing.T) {
	// Two related phrases within the same 80-char bucket collapse to one snippet.
	text := "security test and penetration test run weekly"
	evidence := findEvidence(strings.ToLower(text), text, []string{"security test", "penetration test"})
	if len(evidence) != 1 {
		t.Fatalf("evidence = %v, want 1 snippet for nearby matches", evidence)
	}
}

func TestFindEvidenceWidthChangingRunes(t *testing.T) {
	// U+023A lowercases to U+2C65, which is one byte longer in UTF-8, so
	// match offsets in the lowered text overshoot the original.
	text := strings.Repeat("Ⱥ", 100) + " unit test suite for this module"
	evidence := findEvidence(strings.ToLower(text), text, []string{"unit test"})

	if len(evidence) != 1 {
		t.Fatalf("evidence = %v, want one snippet", evidence)
	}
	if !strings.Contains(evidence[0], "unit test") {
		t.Fatalf("snippet missing keyword: %q", evidence[0])
	}
}

func TestAnalyzePlanWidthChangingRunes(t *testing.T) {
	plan := strings.Repeat("Ⱥ", 100) + " unit test coverage tracked for every module"
	srs := srsWithPresent(map[string]int{"Functionality": 5})

	report := AnalyzePlan(plan, srs)

	if !report.CategoryCoverage["Functionality"].Covered {
		t.Fatal("Functionality not covered despite unit-test evidence")
	}
	if report.OverallCoverage != 100 {
		t.Fatalf("overall coverage = %v, want 100", report.OverallCoverage)
	}
}

func TestAnalyzePlanCapsSnippetsAtFive(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		sb.WriteString("The team performs a unit test on this module. ")
		sb.WriteString(strings.Repeat("filler words here to push the next match into a new bucket. ", 2))
	}
	srs := srsWithPresent(map[string]int{"Functionality": 5})

	report := AnalyzePlan(sb.String(), srs)
	fn := report.CategoryCoverage["Functionality"]
	if fn.EvidenceCount <= 5 {
		t.Fatalf("evidence count = %d, want > 5 for this fixture", fn.EvidenceCount)
	}
	if len(fn.EvidenceSnippets) != 5 {
		t.Fatalf("snippets = %d, want capped at 5", len(fn.EvidenceSnippets))
	}
}
