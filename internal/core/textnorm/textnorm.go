// Package textnorm provides the deterministic string cleaning shared by the
// label normalizers
// Pipeline order
// 1 Unicode NFKD decomposition
// 2 Strip combining marks (accents)
// 3 Collapse whitespace to single spaces and trim
// 4 Case folding (Clean only)
package textnorm

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains for accent stripping
var accentPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
		)
	},
}

// StripAccents removes diacritics, leaving base letters intact
func StripAccents(s string) string {
	if s == "" {
		return ""
	}
	tr := accentPool.Get().(transform.Transformer)
	out, _, _ := transform.String(tr, s)
	tr.Reset()
	accentPool.Put(tr)
	return out
}

// CollapseSpaces trims and folds runs of whitespace into single spaces
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Clean prepares a raw token for canonical-map lookup:
// accent strip, space collapse, unicode case fold
func Clean(s string) string {
	s = StripAccents(strings.TrimSpace(s))
	s = CollapseSpaces(s)
	return cases.Fold().String(s)
}

// edgePunct is trimmed off both ends by Basic, mirroring how the study
// cleaned capability and layer cells
const edgePunct = ",.;:|-_/ "

// Basic cleans a cell without case folding: trim, accent strip,
// space collapse, punctuation trim at the edges
func Basic(s string) string {
	s = strings.TrimSpace(s)
	s = CollapseSpaces(s)
	s = strings.Trim(s, edgePunct)
	return StripAccents(s)
}

var titleCaser = cases.Title(language.English)

// Title space-collapses the raw string and Title-Cases each word.
// Used as the fallback for labels no rule or map recognized
func Title(s string) string {
	return titleCaser.String(CollapseSpaces(s))
}
