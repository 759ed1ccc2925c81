// Package likert detects Likert-scale survey columns and aggregates their
// responses into count and percentage tables
package likert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"edgeminer/internal/core/dataset"
)

// Scale identifies which wording a question uses
type Scale string

// Supported scales
const (
	ScaleUseful Scale = "useful"
	ScaleAgree  Scale = "agree"
)

// UsefulnessOrder is the 5-point usefulness wording, worst to best
var UsefulnessOrder = []string{"Very not useful", "Not useful", "Neutral", "Useful", "Very useful"}

// AgreeOrder is the 5-point agreement wording, worst to best
var AgreeOrder = []string{"Strongly disagree", "Disagree", "Neutral", "Agree", "Strongly agree"}

// textAliases folds response spellings (EN and PT exports) onto the
// canonical level names
var textAliases = map[string]string{
	// agree 5-pt (EN/PT)
	"strongly disagree":          "Strongly disagree",
	"disagree":                   "Disagree",
	"neutral":                    "Neutral",
	"neither agree nor disagree": "Neutral",
	"agree":                      "Agree",
	"strongly agree":             "Strongly agree",
	"discordo totalmente":        "Strongly disagree",
	"discordo":                   "Disagree",
	"neutro":                     "Neutral",
	"nem concordo nem discordo":  "Neutral",
	"concordo":                   "Agree",
	"concordo totalmente":        "Strongly agree",

	// usefulness 5-pt (EN)
	"very not useful": "Very not useful",
	"not useful":      "Not useful",
	"useful":          "Useful",
	"very useful":     "Very useful",
}

var scoreSuffixRe = regexp.MustCompile(`\s*\(\d+\)\s*$`)

func cleanResponse(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return scoreSuffixRe.ReplaceAllString(s, "")
}

// NormalizeAgree maps a raw cell onto the agreement scale
func NormalizeAgree(raw string) (string, bool) {
	s := cleanResponse(raw)
	if s == "" {
		return "", false
	}
	lvl, ok := textAliases[s]
	if !ok {
		return "", false
	}
	for _, a := range AgreeOrder {
		if lvl == a {
			return lvl, true
		}
	}
	return "", false
}

// NormalizeUsefulness maps a raw cell onto the usefulness scale
func NormalizeUsefulness(raw string) (string, bool) {
	s := cleanResponse(raw)
	if s == "" {
		return "", false
	}
	if s == "verynotuseful" {
		s = "very not useful"
	}
	lvl, ok := textAliases[s]
	if !ok {
		return "", false
	}
	for _, u := range UsefulnessOrder {
		if lvl == u || lvl == "Neutral" {
			return lvl, true
		}
	}
	return "", false
}

// NumericTo5Pt collapses 1..5, 0..4 and 1..7 numeric responses onto the
// agreement wording
func NumericTo5Pt(raw string) (string, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", false
	}
	switch v {
	case 1:
		return "Strongly disagree", true
	case 2:
		return "Disagree", true
	case 3:
		return "Neutral", true
	case 4:
		return "Agree", true
	case 5:
		return "Strongly agree", true
	case 0:
		return "Strongly disagree", true
	case 6, 7:
		return "Strongly agree", true
	}
	return "", false
}

// Profile describes a detected Likert column
type Profile struct {
	Question string
	Scale    Scale
	Coverage float64
	Valid    int
	Levels   []string
	numeric  bool
}

// Order returns the level order for the profile's scale
func (p Profile) Order() []string {
	if p.Scale == ScaleUseful {
		return UsefulnessOrder
	}
	return AgreeOrder
}

// mapCell applies the mapping committed for the column during
// detection. A cell that only fits a different mapping is dropped, not
// re-read under it, so one column never mixes numeric and text scales
func (p Profile) mapCell(raw string) (string, bool) {
	switch {
	case p.Scale == ScaleUseful:
		return NormalizeUsefulness(raw)
	case p.numeric:
		return NumericTo5Pt(raw)
	default:
		return NormalizeAgree(raw)
	}
}

// minCoverage and minLevels gate column detection: at least half the
// non-empty cells must map and at least three distinct levels must occur
const (
	minCoverage = 0.50
	minLevels   = 3
)

// DetectColumns scans every column and profiles those that look like
// Likert questions under the requested scales. Profiles come back in
// column order
func DetectColumns(t *dataset.Table, scales []Scale) []Profile {
	wantUseful, wantAgree := false, false
	for _, s := range scales {
		switch s {
		case ScaleUseful:
			wantUseful = true
		case ScaleAgree:
			wantAgree = true
		}
	}

	var profiles []Profile
	for ci, col := range t.Columns {
		nonEmpty := 0
		useHits, agreeHits, numHits := 0, 0, 0
		useLevels := map[string]bool{}
		agreeLevels := map[string]bool{}
		numLevels := map[string]bool{}

		for _, row := range t.Rows {
			v := strings.TrimSpace(t.Value(row, ci))
			if v == "" {
				continue
			}
			nonEmpty++
			if wantUseful {
				if lvl, ok := NormalizeUsefulness(v); ok {
					useHits++
					useLevels[lvl] = true
				}
			}
			if wantAgree {
				if lvl, ok := NormalizeAgree(v); ok {
					agreeHits++
					agreeLevels[lvl] = true
				}
				if lvl, ok := NumericTo5Pt(v); ok {
					numHits++
					numLevels[lvl] = true
				}
			}
		}
		if nonEmpty == 0 {
			continue
		}

		// pick the mapping with the best coverage
		best, bestLevels, scale, numeric := useHits, useLevels, ScaleUseful, false
		if agreeHits > best {
			best, bestLevels, scale, numeric = agreeHits, agreeLevels, ScaleAgree, false
		}
		if numHits > best {
			best, bestLevels, scale, numeric = numHits, numLevels, ScaleAgree, true
		}

		coverage := float64(best) / float64(nonEmpty)
		if coverage < minCoverage || len(bestLevels) < minLevels {
			continue
		}

		p := Profile{
			Question: col,
			Scale:    scale,
			Coverage: coverage,
			Valid:    best,
			numeric:  numeric,
		}
		for _, lvl := range p.Order() {
			if bestLevels[lvl] {
				p.Levels = append(p.Levels, lvl)
			}
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// QuestionResult aggregates one question's responses
type QuestionResult struct {
	Profile Profile
	Counts  map[string]int
	Pcts    map[string]float64
}

// BuildTables tallies each profiled question. Percentages are over the
// question's mapped responses
func BuildTables(t *dataset.Table, profiles []Profile) []QuestionResult {
	results := make([]QuestionResult, 0, len(profiles))
	for _, p := range profiles {
		ci := t.Col(p.Question)
		counts := map[string]int{}
		total := 0
		for _, row := range t.Rows {
			v := t.Value(row, ci)
			if strings.TrimSpace(v) == "" {
				continue
			}
			if lvl, ok := p.mapCell(v); ok {
				counts[lvl]++
				total++
			}
		}

		pcts := map[string]float64{}
		for _, lvl := range p.Order() {
			if total > 0 {
				pcts[lvl] = float64(counts[lvl]) / float64(total) * 100.0
			}
		}
		results = append(results, QuestionResult{Profile: p, Counts: counts, Pcts: pcts})
	}
	return results
}

var guidelineRe = regexp.MustCompile(`(?i)\[\s*G\s*0*(\d+)`)

// IsGuideline reports whether a question label carries a [Gxx] marker
func IsGuideline(label string) bool { return guidelineRe.MatchString(label) }

// ShortenLabel reduces a question to its guideline id ("[G07]"); labels
// without a marker are truncated to 80 runes
func ShortenLabel(label string) string {
	if m := guidelineRe.FindStringSubmatch(label); m != nil {
		n, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("[G%02d]", n)
	}
	r := []rune(label)
	if len(r) > 80 {
		return string(r[:80]) + "…"
	}
	return label
}
