package analysis

import "testing"

func TestDetectDomainBanking(t *testing.T) {
	texts := []string{
		"The system shall record every bank transaction.",
		"The system shall check the credit rating before approving a loan.",
		"Customers must be able to repay a loan from their account balance.",
	}
	info := DetectDomain(texts, "")

	if info.Domain != "Banking / Finance" {
		t.Fatalf("domain = %q, want Banking / Finance", info.Domain)
	}
	if info.Confidence <= 0 {
		t.Fatalf("confidence = %v, want > 0", info.Confidence)
	}
	if info.CriticalCategories["Security"] != "critical" {
		t.Fatalf("Security tag = %q, want critical", info.CriticalCategories["Security"])
	}
}

func TestDetectDomainNoHitsReturnsGeneral(t *testing.T) {
	info := DetectDomain([]string{"The system shall do something unspecified."}, "")
	if info.Domain != GeneralDomain {
		t.Fatalf("domain = %q, want General", info.Domain)
	}
	if info.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0", info.Confidence)
	}
	if len(info.CriticalCategories) != 0 {
		t.Fatalf("critical categories = %v, want empty", info.CriticalCategories)
	}
}

func TestDetectDomainEmptyInput(t *testing.T) {
	info := DetectDomain(nil, "")
	if info.Domain != GeneralDomain || info.Confidence != 0 {
		t.Fatalf("got %+v, want General with zero confidence", info)
	}
}

func TestDetectDomainKeywordCountedOnce(t *testing.T) {
	// One keyword repeated many times still counts as a single hit, so a
	// domain with two distinct hits wins over one with a single repeated hit.
	text := "patient patient patient patient patient warehouse barcode"
	info := DetectDomain(nil, text)
	if info.Domain != "Inventory / Warehouse" {
		t.Fatalf("domain = %q, want Inventory / Warehouse", info.Domain)
	}
}

func TestDetectDomainConfidenceSaturates(t *testing.T) {
	// Mentioning well over 40% of the healthcare list pins confidence at 1.0.
	text := "patient doctor hospital medical record diagnosis prescription clinic appointment nurse treatment"
	info := DetectDomain(nil, text)
	if info.Domain != "Healthcare" {
		t.Fatalf("domain = %q, want Healthcare", info.Domain)
	}
	if info.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", info.Confidence)
	}
}
