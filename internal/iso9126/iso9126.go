package iso9126

// Category is one of the seven ISO/IEC 9126 software quality characteristics.
// The set is closed; classifier output that does not map to it is Unknown.
type Category string

const (
	Functionality   Category = "Functionality"
	Security        Category = "Security"
	Reliability     Category = "Reliability"
	Efficiency      Category = "Efficiency"
	Usability       Category = "Usability"
	Maintainability Category = "Maintainability"
	Portability     Category = "Portability"

	// Unknown is the sentinel for unclassifiable input (blank text, or a
	// model label outside the fixed set).
	Unknown Category = "Unknown"
)

// categories fixes iteration order everywhere a "for each category" loop runs.
var categories = []Category{
	Functionality,
	Security,
	Reliability,
	Efficiency,
	Usability,
	Maintainability,
	Portability,
}

// weights must sum to 1.0.
var weights = map[Category]float64{
	Functionality:   0.30,
	Security:        0.20,
	Reliability:     0.15,
	Efficiency:      0.15,
	Usability:       0.10,
	Maintainability: 0.05,
	Portability:     0.05,
}

// minRecommended is the minimum requirement count per category before a gap
// is reported.
var minRecommended = map[Category]int{
	Functionality:   5,
	Security:        3,
	Reliability:     3,
	Efficiency:      2,
	Usability:       2,
	Maintainability: 1,
	Portability:     1,
}

// Categories returns the seven categories in their canonical order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the seven categories (Unknown excluded).
func (c Category) Valid() bool {
	_, ok := weights[c]
	return ok
}

// Weight returns the category's share of overall quality (0 for Unknown).
func (c Category) Weight() float64 {
	return weights[c]
}

// MinRecommended returns the minimum recommended requirement count.
func (c Category) MinRecommended() int {
	if min, ok := minRecommended[c]; ok {
		return min
	}
	return 1
}

// Parse maps a free-form label to a Category, falling back to Unknown.
func Parse(s string) Category {
	c := Category(s)
	if c.Valid() {
		return c
	}
	return Unknown
}

// ImportanceLabel buckets a category weight into a human-readable tier.
func ImportanceLabel(weight float64) string {
	switch {
	case weight >= 0.20:
		return "Critical"
	case weight >= 0.10:
		return "Important"
	default:
		return "Supplementary"
	}
}
