package qualityplan

import (
	"fmt"
	"strings"
)

// SRSWarning flags an uploaded plan that reads like a requirements
// specification instead of a quality plan.
type SRSWarning struct {
	IsLikelySRS        bool   `json:"isLikelySrs"`
	Warning            string `json:"warning,omitempty"`
	SRSIndicatorsFound int    `json:"srsIndicatorsFound"`
	QPIndicatorsFound  int    `json:"qpIndicatorsFound"`
}

var srsIndicators = []string{
	" shall ", " must ", " should ", " will ",
	"the system shall", "the software shall", "the application shall",
	"requirement", "srs", "software requirements specification",
	"functional requirement", "non-functional requirement",
	"use case", "user story", "acceptance criteria",
}

var planIndicators = []string{
	"quality plan", "test plan", "test strategy", "test case",
	"quality assurance", "qa plan", "testing approach",
	"test coverage", "defect management", "quality metric",
	"review process", "inspection", "audit", "quality objective",
	"quality standard", "iso 9126", "quality attribute",
}

// DetectSRSLookalike checks whether the document reads like an SRS rather
// than a quality plan. Requirement-style indicators must clearly outnumber
// plan indicators before the warning fires.
func DetectSRSLookalike(text string) SRSWarning {
	lower := strings.ToLower(text)

	srsCount := 0
	for _, kw := range srsIndicators {
		if strings.Contains(lower, kw) {
			srsCount++
		}
	}
	qpCount := 0
	for _, kw := range planIndicators {
		if strings.Contains(lower, kw) {
			qpCount++
		}
	}

	w := SRSWarning{
		SRSIndicatorsFound: srsCount,
		QPIndicatorsFound:  qpCount,
	}
	if srsCount > 5 && srsCount > qpCount*2 {
		w.IsLikelySRS = true
		w.Warning = fmt.Sprintf(
			"Warning: This document appears to be an SRS (Software Requirements Specification) rather than a Quality Plan. Found %d requirement-style indicators vs %d quality plan indicators. Please upload an actual Quality Plan document that describes testing strategies, quality metrics, and review processes.",
			srsCount, qpCount,
		)
	}
	return w
}
