// Package agreement computes inter-rater reliability for the manual
// classification rounds. Single-label columns use plain Cohen's kappa;
// multi-label columns are binarized per label and summarized by the
// macro mean
package agreement

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	perr "edgeminer/internal/platform/errors"
)

// None is the placeholder for missing single-label ratings so blanks
// still count as a category instead of silently shrinking n. It is not
// used on the multilabel path, where a blank cell is an empty label set
const None = "NONE"

// Fill trims ratings and replaces blanks with the None placeholder
func Fill(vals []string) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" {
			v = None
		}
		out[i] = v
	}
	return out
}

// Cohen computes Cohen's kappa over two equal-length rating slices.
// Blanks should be Fill-ed first. When expected agreement is 1 the
// statistic degenerates; perfect observed agreement then scores 1,
// anything else 0
func Cohen(a, b []string) (float64, error) {
	if len(a) != len(b) {
		return 0, perr.InvalidArgf("rater slices differ in length: %d vs %d", len(a), len(b))
	}
	n := len(a)
	if n == 0 {
		return 0, perr.InvalidArgf("no ratings")
	}

	rowTotals := map[string]int{}
	colTotals := map[string]int{}
	agree := 0
	for i := range a {
		rowTotals[a[i]]++
		colTotals[b[i]]++
		if a[i] == b[i] {
			agree++
		}
	}

	po := float64(agree) / float64(n)
	pe := 0.0
	for label, ra := range rowTotals {
		pe += float64(ra) * float64(colTotals[label]) / float64(n*n)
	}

	if 1-pe == 0 {
		if po == 1 {
			return 1, nil
		}
		return 0, nil
	}
	return (po - pe) / (1 - pe), nil
}

// SplitLabels breaks a multi-label cell into its label set. Blank cells
// yield an empty set, so they contribute all-zero binarized rows and
// never widen the label union
func SplitLabels(cell, sep string) []string {
	seen := map[string]bool{}
	var out []string
	for _, part := range strings.Split(cell, sep) {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}

// LabelKappa is one label's binarized kappa
type LabelKappa struct {
	Label string
	Kappa float64
}

// MultilabelMacro binarizes each label in the union of both raters'
// label sets, computes a per-label kappa over present/absent, and
// returns the macro (unweighted) mean. Blank cells carry no labels;
// both raters all-blank is an error since no label can be scored
func MultilabelMacro(a, b []string, sep string) ([]LabelKappa, float64, error) {
	if len(a) != len(b) {
		return nil, 0, perr.InvalidArgf("rater slices differ in length: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return nil, 0, perr.InvalidArgf("no ratings")
	}

	setsA := make([]map[string]bool, len(a))
	setsB := make([]map[string]bool, len(b))
	union := map[string]bool{}
	for i := range a {
		setsA[i] = map[string]bool{}
		for _, l := range SplitLabels(a[i], sep) {
			setsA[i][l] = true
			union[l] = true
		}
		setsB[i] = map[string]bool{}
		for _, l := range SplitLabels(b[i], sep) {
			setsB[i][l] = true
			union[l] = true
		}
	}

	if len(union) == 0 {
		return nil, 0, perr.InvalidArgf("no labels observed")
	}
	labels := make([]string, 0, len(union))
	for l := range union {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	perLabel := make([]LabelKappa, 0, len(labels))
	kappas := make([]float64, 0, len(labels))
	binA := make([]string, len(a))
	binB := make([]string, len(b))
	for _, label := range labels {
		for i := range a {
			binA[i], binB[i] = "0", "0"
			if setsA[i][label] {
				binA[i] = "1"
			}
			if setsB[i][label] {
				binB[i] = "1"
			}
		}
		k, err := Cohen(binA, binB)
		if err != nil {
			return nil, 0, err
		}
		perLabel = append(perLabel, LabelKappa{Label: label, Kappa: k})
		kappas = append(kappas, k)
	}
	return perLabel, stat.Mean(kappas, nil), nil
}
