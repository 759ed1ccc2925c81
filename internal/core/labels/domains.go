// Package labels holds the canonical label dictionaries and regex rules
// used to normalize free-text study annotations (domains, ISO 30141
// capability classes and layers, architectural layers, ISO 25010 quality
// attributes)
package labels

import (
	"regexp"
	"strings"

	"edgeminer/internal/core/textnorm"
)

// domainCanon maps cleaned (accent-free, casefolded) tokens to their
// canonical domain label. Keys collect the synonyms and typos observed
// while coding the dataset
var domainCanon = map[string]string{
	// IIoT and industry
	"iiot":                     "IIoT",
	"industrial iot":           "IIoT",
	"industrial edge computing": "IIoT",
	"smart manufacturing":      "IIoT",
	"industry 4.0":             "Industry 4.0",

	"smart environment":  "Smart Environment",
	"smart environments": "Smart Environment",

	"computer vision": "Computer Vision",
	"vision":          "Computer Vision",
	"speech":          "Speech",
	"audio analisys":  "Audio Analysis", // common typo
	"audio analysis":  "Audio Analysis",
	"chatbot":         "Chatbot",

	"orchestration": "Orchestration",

	"federated learning": "Federated Learning",

	"efficient ai":  "Efficient AI",
	"efficiente ai": "Efficient AI", // common typo
	"aiot":          "IoT",
	"iot":           "IoT",

	"autonomous systems": "Autonomous Systems",
	"autonomous system":  "Autonomous Systems",
	"robotic":            "Robotics",
	"robotics":           "Robotics",

	// Healthcare
	"healthcare":  "Healthcare",
	"medical iot": "Healthcare",

	// Mobile
	"mobile iot": "Mobile IoT",

	// Streaming / real-time (several variations)
	"real time data processing": "Data Streaming & Real-Time",
	"real-time data processing": "Data Streaming & Real-Time",
	"real-time data streaming":  "Data Streaming & Real-Time",
	"real time data streaming":  "Data Streaming & Real-Time",
	"data streaming processing": "Data Streaming & Real-Time",
	"data streaming":            "Data Streaming & Real-Time",

	// Model-Driven
	"model-driven engineering (mde)": "MDE",

	"others": "Others",
}

// domainRegexRules run before the map to catch broad real-time and
// streaming phrasings
var domainRegexRules = []struct {
	pat   *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)\b(real[-\s]?time|rt)\b`), "Data Streaming & Real-Time"},
	{regexp.MustCompile(`(?i)\bstream(ing)?\b`), "Data Streaming & Real-Time"},
}

// NormalizeDomain maps a single raw domain token to its canonical form.
// Precedence: regex rules, canonical map, small heuristics, then a
// Title-Case fallback on the raw token
func NormalizeDomain(raw string) string {
	base := textnorm.Clean(raw)
	if base == "" {
		return ""
	}

	for _, r := range domainRegexRules {
		if r.pat.MatchString(base) {
			return r.label
		}
	}

	if canon, ok := domainCanon[base]; ok {
		return canon
	}

	switch base {
	case "autonomous":
		return "Autonomous Systems"
	case "industrial", "industrial edge", "industrial internet of things":
		return "IIoT"
	}

	return textnorm.Title(strings.TrimSpace(raw))
}

// SplitMulti splits a multi-valued cell by comma, preserving composite
// items and dropping empty tokens
func SplitMulti(cell string) []string {
	var out []string
	for _, p := range strings.Split(cell, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeDomains applies NormalizeDomain to each raw token, keeping
// non-empty results
func NormalizeDomains(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if label := NormalizeDomain(t); label != "" {
			out = append(out, label)
		}
	}
	return out
}
