package labels

import (
	"regexp"
	"strings"
)

// qualityCanon maps lowercased variants onto the nine top-level
// ISO/IEC 25010 product quality characteristics
var qualityCanon = map[string]string{
	"functional suitability": "Functional Suitability",
	"performance efficiency": "Performance Efficiency",
	"compatibility":          "Compatibility",
	"interaction capability": "Interaction Capability",
	"reliability":            "Reliability",
	"security":               "Security",
	"maintainability":        "Maintainability",
	"flexibility":            "Flexibility",
	"safety":                 "Safety",
}

var qualitySplitRe = regexp.MustCompile(`[;,]`)

// ParseQualityLabels splits a multi-label cell on commas and semicolons,
// trimming whitespace and dropping empty parts
func ParseQualityLabels(cell string) []string {
	var out []string
	for _, p := range qualitySplitRe.Split(cell, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeQualityLabels maps labels onto the canonical ISO 25010
// characteristics; unknown labels are kept as-is for later inspection.
// Duplicates are removed preserving first-seen order
func NormalizeQualityLabels(raw []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, lab := range raw {
		key := strings.ToLower(strings.TrimSpace(lab))
		canon, ok := qualityCanon[key]
		if !ok {
			canon = strings.TrimSpace(lab)
		}
		if canon != "" && !seen[canon] {
			seen[canon] = true
			out = append(out, canon)
		}
	}
	return out
}
