package labels

import (
	"regexp"
	"strings"

	"edgeminer/internal/core/textnorm"
)

// ISOCanon is the canonical order of the three ISO/IEC/IEEE 30141
// capability classes used by the study
var ISOCanon = []string{
	"Interface Capability",
	"Data Capabilities",
	"Supporting Capabilities",
}

// LayerCanon is the canonical order of operating layers
var LayerCanon = []string{"Device", "Edge", "Fog", "Cloud", "Cross-cutting"}

// NormalizeISO maps a raw ISO mapping cell into one of the three canonical
// classes. ok is false when the value could not be mapped
func NormalizeISO(raw string) (label string, ok bool) {
	s := textnorm.Basic(raw)
	if s == "" {
		return "", false
	}
	low := strings.ToLower(s)

	switch {
	case strings.Contains(low, "interface"):
		return "Interface Capability", true
	case strings.Contains(low, "data"):
		return "Data Capabilities", true
	case strings.Contains(low, "support"):
		return "Supporting Capabilities", true
	}

	for _, canon := range ISOCanon {
		if low == strings.ToLower(canon) {
			return canon, true
		}
	}
	return "", false
}

// layerPatterns match individual layer mentions, including the Portuguese
// terms that leaked into the raw coding sheet
var layerPatterns = map[string][]*regexp.Regexp{
	"Device": {
		regexp.MustCompile(`\bdevice\b`),
		regexp.MustCompile(`\bdispositivo\b`),
		regexp.MustCompile(`\bendpoint\b`),
		regexp.MustCompile(`\bmcu\b`),
		regexp.MustCompile(`\bmicrontrol`),
	},
	"Edge": {
		regexp.MustCompile(`\bedge\b`),
		regexp.MustCompile(`\bborda\b`),
		regexp.MustCompile(`\blocal\b`),
	},
	"Fog": {
		regexp.MustCompile(`\bfog\b`),
	},
	"Cloud": {
		regexp.MustCompile(`\bcloud\b`),
		regexp.MustCompile(`\bnuvem\b`),
		regexp.MustCompile(`\bdatacenter\b`),
		regexp.MustCompile(`\bhpc\b`),
	},
	"Cross-cutting": {
		regexp.MustCompile(`\bcross[-\s]?cutting\b`),
		regexp.MustCompile(`\btransversal\b`),
		regexp.MustCompile(`\bend-to-end\b`),
		regexp.MustCompile(`\bfull stack\b`),
		regexp.MustCompile(`\bcontinuum\b`),
	},
}

// layerCombos expands compound expressions before the per-layer patterns run
var layerCombos = map[string][]string{
	"device/edge":           {"Device", "Edge"},
	"edge/device":           {"Device", "Edge"},
	"edge/fog":              {"Edge", "Fog"},
	"fog/edge":              {"Edge", "Fog"},
	"fog/cloud":             {"Fog", "Cloud"},
	"cloud/fog":             {"Fog", "Cloud"},
	"edge/fog/cloud":        {"Edge", "Fog", "Cloud"},
	"device/edge/fog":       {"Device", "Edge", "Fog"},
	"device/edge/fog/cloud": {"Device", "Edge", "Fog", "Cloud"},
}

var (
	layerToRe    = regexp.MustCompile(`(?i)\bto\b`)
	layerSepRe   = regexp.MustCompile(`[;,|]+`)
	layerSlashRe = regexp.MustCompile(`\s*/\s*`)
	layerWordRe  = regexp.MustCompile(`\blayer\b`)
)

// SplitLayers normalizes and splits a raw layer cell into canonical layers.
// Compound expressions such as "Edge/Fog" or "Fog/Cloud ↔ Edge" explode into
// multiple layers, ordered by LayerCanon. Returns nil when nothing matched
func SplitLayers(raw string) []string {
	s := textnorm.Basic(raw)
	if s == "" {
		return nil
	}

	s = strings.ReplaceAll(s, "↔", "/")
	s = strings.ReplaceAll(s, `\`, "/")
	s = layerToRe.ReplaceAllString(s, "/")
	s = layerSepRe.ReplaceAllString(s, "/")
	s = layerSlashRe.ReplaceAllString(s, "/")
	low := strings.ToLower(s)

	found := map[string]bool{}

	for combo, layers := range layerCombos {
		if strings.Contains(low, combo) {
			for _, l := range layers {
				found[l] = true
			}
		}
	}

	for layer, pats := range layerPatterns {
		for _, pat := range pats {
			if pat.MatchString(low) {
				found[layer] = true
				break
			}
		}
	}

	// fallback: "layer" with no specific match reads as Edge
	if len(found) == 0 && layerWordRe.MatchString(low) {
		found["Edge"] = true
	}

	if len(found) == 0 {
		return nil
	}

	var ordered []string
	for _, l := range LayerCanon {
		if found[l] {
			ordered = append(ordered, l)
		}
	}
	return ordered
}
