package analysis

import (
	"math"
	"strings"
)

// domainProfile couples a domain label with its indicator keywords and the
// quality categories that matter most for systems in that domain.
type domainProfile struct {
	Name     string
	Keywords []string
	Critical map[string]string
}

// GeneralDomain is returned when no catalog domain matches.
const GeneralDomain = "General"

// ConfidenceSaturation: hitting this fraction of a domain's keyword list
// saturates confidence at 1.0.
const ConfidenceSaturation = 0.4

// Catalog order matters: ties go to the earlier entry.
var domainCatalog = []domainProfile{
	{
		Name: "Banking / Finance",
		Keywords: []string{
			"bank", "account balance", "transaction", "credit", "debit",
			"loan", "payment", "interest rate", "atm", "currency",
			"fraud", "teller", "ledger", "fund transfer", "overdraft",
		},
		Critical: map[string]string{
			"Security": "critical", "Reliability": "critical",
			"Functionality": "high", "Efficiency": "high",
		},
	},
	{
		Name: "Healthcare",
		Keywords: []string{
			"patient", "doctor", "hospital", "medical record", "diagnosis",
			"prescription", "clinic", "appointment", "hipaa", "nurse",
			"treatment", "pharmacy", "lab result", "vital sign",
		},
		Critical: map[string]string{
			"Security": "critical", "Reliability": "critical",
			"Usability": "high", "Functionality": "high",
		},
	},
	{
		Name: "E-commerce",
		Keywords: []string{
			"shopping cart", "checkout", "product catalog", "order",
			"customer", "payment gateway", "shipping", "discount",
			"wishlist", "seller", "refund", "product review", "coupon",
		},
		Critical: map[string]string{
			"Functionality": "critical", "Security": "critical",
			"Efficiency": "high", "Usability": "high",
		},
	},
	{
		Name: "Education / LMS",
		Keywords: []string{
			"student", "course", "instructor", "assignment", "grade",
			"enrollment", "quiz", "lecture", "curriculum", "exam",
			"classroom", "semester", "transcript", "syllabus",
		},
		Critical: map[string]string{
			"Usability": "critical", "Functionality": "high", "Reliability": "high",
		},
	},
	{
		Name: "Library Management",
		Keywords: []string{
			"library", "book", "borrow", "librarian", "isbn",
			"due date", "fine", "catalogue", "circulation", "periodical",
			"shelf", "overdue", "member card",
		},
		Critical: map[string]string{
			"Functionality": "critical", "Usability": "high", "Maintainability": "high",
		},
	},
	{
		Name: "Government / Public Sector",
		Keywords: []string{
			"citizen", "government", "permit", "license", "tax",
			"municipal", "public record", "civic", "ministry",
			"registration office", "national id", "census",
		},
		Critical: map[string]string{
			"Security": "critical", "Usability": "high",
			"Reliability": "high", "Maintainability": "high",
		},
	},
	{
		Name: "IoT / Embedded",
		Keywords: []string{
			"sensor", "actuator", "firmware", "embedded", "mqtt",
			"telemetry", "microcontroller", "edge device", "gateway device",
			"real-time monitoring", "device provisioning", "ota update",
		},
		Critical: map[string]string{
			"Reliability": "critical", "Efficiency": "critical",
			"Security": "high", "Portability": "high",
		},
	},
	{
		Name: "Telecom / Networking",
		Keywords: []string{
			"subscriber", "call record", "bandwidth", "network element",
			"sim", "roaming", "billing cycle", "base station",
			"spectrum", "telephony", "packet", "signal strength",
		},
		Critical: map[string]string{
			"Reliability": "critical", "Efficiency": "critical", "Security": "high",
		},
	},
	{
		Name: "Hotel / Hospitality",
		Keywords: []string{
			"guest", "room booking", "check-in", "check-out",
			"housekeeping", "concierge", "room service", "occupancy",
			"front desk", "amenity", "room rate",
		},
		Critical: map[string]string{
			"Usability": "critical", "Functionality": "high", "Reliability": "high",
		},
	},
	{
		Name: "Restaurant / Food Service",
		Keywords: []string{
			"menu", "kitchen", "table reservation", "waiter", "recipe",
			"ingredient", "chef", "food delivery", "dine-in", "takeaway",
			"cuisine", "dish",
		},
		Critical: map[string]string{
			"Functionality": "critical", "Usability": "high", "Efficiency": "high",
		},
	},
	{
		Name: "HR / Payroll",
		Keywords: []string{
			"employee", "payroll", "salary", "leave request", "attendance",
			"recruitment", "onboarding", "performance review", "timesheet",
			"benefits", "job posting", "appraisal",
		},
		Critical: map[string]string{
			"Security": "critical", "Functionality": "high", "Reliability": "high",
		},
	},
	{
		Name: "Inventory / Warehouse",
		Keywords: []string{
			"warehouse", "stock level", "sku", "barcode", "shipment",
			"pallet", "reorder", "supplier", "goods receipt", "picking",
			"stocktake", "bin location",
		},
		Critical: map[string]string{
			"Functionality": "critical", "Reliability": "high", "Efficiency": "high",
		},
	},
	{
		Name: "Transportation / Logistics",
		Keywords: []string{
			"vehicle", "route", "fleet", "driver", "shipment tracking",
			"dispatch", "freight", "cargo", "delivery schedule",
			"gps tracking", "waybill", "consignment",
		},
		Critical: map[string]string{
			"Reliability": "critical", "Efficiency": "high", "Functionality": "high",
		},
	},
	{
		Name: "Insurance",
		Keywords: []string{
			"policy", "claim", "premium", "insured", "underwriting",
			"coverage", "beneficiary", "actuarial", "policyholder",
			"risk assessment", "deductible", "payout",
		},
		Critical: map[string]string{
			"Security": "critical", "Functionality": "high", "Reliability": "high",
		},
	},
}

// DetectDomain infers the application domain from the requirement texts plus
// optional raw document text. Each keyword counts once regardless of how
// often it repeats. Ties resolve to the first catalog entry reaching the
// maximum hit count.
func DetectDomain(requirementTexts []string, rawText string) DomainInfo {
	var sb strings.Builder
	for _, t := range requirementTexts {
		sb.WriteString(t)
		sb.WriteByte(' ')
	}
	sb.WriteString(rawText)
	blob := strings.ToLower(sb.String())

	bestIdx := -1
	bestHits := 0
	for i, profile := range domainCatalog {
		hits := 0
		for _, kw := range profile.Keywords {
			if strings.Contains(blob, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return DomainInfo{
			Domain:             GeneralDomain,
			Confidence:         0,
			CriticalCategories: map[string]string{},
		}
	}

	profile := domainCatalog[bestIdx]
	confidence := float64(bestHits) / (float64(len(profile.Keywords)) * ConfidenceSaturation)
	confidence = math.Round(math.Min(confidence, 1.0)*100) / 100

	critical := make(map[string]string, len(profile.Critical))
	for cat, tag := range profile.Critical {
		critical[cat] = tag
	}

	return DomainInfo{
		Domain:             profile.Name,
		Confidence:         confidence,
		CriticalCategories: critical,
	}
}
