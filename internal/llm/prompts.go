package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const previewLimit = 2000

// BuildDomainPrompt renders the domain-detection prompt for one document.
func BuildDomainPrompt(input DomainInput) string {
	preview := input.TextPreview
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}

	counts := make(map[string]int, len(input.CategoryCounts))
	for k, v := range input.CategoryCounts {
		counts[k] = v
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var dist strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&dist, "  %s: %d\n", k, counts[k])
	}

	raw, _ := json.Marshal(map[string]any{
		"domain":              "Domain Name",
		"confidence":          0.85,
		"critical_categories": []string{"Functionality", "Security"},
		"reasoning":           "Brief explanation (1-2 sentences)",
	})

	return fmt.Sprintf(`You are analyzing a Software Requirements Specification (SRS) document.

Document preview (first %d chars):
%s

Requirements category distribution:
%s
Your task:
1. Identify the MOST LIKELY application domain.
2. Rate your confidence between 0.0 and 1.0.
3. Identify which ISO/IEC 9126 categories (Functionality, Security, Reliability, Usability, Efficiency, Maintainability, Portability) are CRITICAL for this domain.
4. Provide brief reasoning.

Respond with JSON in exactly this shape:
%s`, previewLimit, preview, dist.String(), string(raw))
}
