// Package kappa runs the inter-rater reliability jobs: pairwise Cohen's
// kappa between rater columns and multi-label ISO 25010 kappa with a
// macro mean
package kappa

import (
	"regexp"
	"strconv"
	"strings"

	"edgeminer/internal/core/agreement"
	"edgeminer/internal/core/dataset"
	"edgeminer/internal/core/labels"
	perr "edgeminer/internal/platform/errors"
	"edgeminer/internal/platform/logger"
)

// Service runs agreement analyses
type Service struct {
	log logger.Logger
}

// New builds a Service
func New(log logger.Logger) *Service { return &Service{log: log} }

// Group names one rating target and the rater columns that coded it
type Group struct {
	Name   string
	Raters []string
}

// PairwiseOptions configures the pairwise run
type PairwiseOptions struct {
	Input  string
	Groups []Group
	Out    string
}

var raterNameRe = regexp.MustCompile(`\[([^\]]+)\]`)

// raterName shortens a column header to the bracketed rater tag when
// present ("iso_mapping_cap_1 - [Jander]" reads as "Jander")
func raterName(col string) string {
	if m := raterNameRe.FindStringSubmatch(col); m != nil {
		return m[1]
	}
	return col
}

// column pulls one column as a placeholder-filled rating slice
func column(t *dataset.Table, name string) ([]string, error) {
	ci := t.Col(name)
	if ci < 0 {
		return nil, perr.CSVErrf("rater column %q not found", name)
	}
	vals := make([]string, t.Len())
	for i, row := range t.Rows {
		vals[i] = t.Value(row, ci)
	}
	return agreement.Fill(vals), nil
}

// Pairwise computes Cohen's kappa for every rater pair in every group
// and writes one result row per pair
func (s *Service) Pairwise(opt PairwiseOptions) error {
	if len(opt.Groups) == 0 {
		return perr.InvalidArgf("no rater groups given")
	}
	t, err := dataset.ReadFile(opt.Input)
	if err != nil {
		return err
	}

	out := dataset.New("group", "pair", "kappa")
	for _, g := range opt.Groups {
		if len(g.Raters) < 2 {
			return perr.InvalidArgf("group %q needs at least two rater columns", g.Name)
		}
		cols := make([][]string, len(g.Raters))
		for i, r := range g.Raters {
			if cols[i], err = column(t, r); err != nil {
				return err
			}
		}
		for i := 0; i < len(g.Raters); i++ {
			for j := i + 1; j < len(g.Raters); j++ {
				k, err := agreement.Cohen(cols[i], cols[j])
				if err != nil {
					return err
				}
				pair := raterName(g.Raters[i]) + "_vs_" + raterName(g.Raters[j])
				out.Append([]string{g.Name, pair, strconv.FormatFloat(k, 'f', 6, 64)})
				s.log.Info().Str("group", g.Name).Str("pair", pair).Float64("kappa", k).Msg("pairwise kappa")
			}
		}
	}
	if err := out.WriteFile(opt.Out); err != nil {
		return err
	}
	s.log.Info().Str("file", opt.Out).Int("rows", out.Len()).Msg("kappa results written")
	return nil
}

// MultilabelOptions configures the ISO 25010 multi-label run
type MultilabelOptions struct {
	Input string

	// R1 and R2 are the two coder columns
	R1 string
	R2 string

	Out string

	// Normalized optionally saves the input with canonicalized label
	// columns appended, for transparency
	Normalized string
}

// Multilabel canonicalizes both coders' label cells onto the ISO 25010
// characteristics, binarizes over the observed label union, and writes
// per-label kappas plus the macro mean. Blank cells contribute no
// labels and stay out of the union
func (s *Service) Multilabel(opt MultilabelOptions) error {
	t, err := dataset.ReadFile(opt.Input)
	if err != nil {
		return err
	}
	c1, c2 := t.Col(opt.R1), t.Col(opt.R2)
	if c1 < 0 || c2 < 0 {
		return perr.CSVErrf("columns %q and %q must both exist in %s", opt.R1, opt.R2, opt.Input)
	}

	norm := func(cell string) string {
		ls := labels.NormalizeQualityLabels(labels.ParseQualityLabels(cell))
		return strings.Join(ls, ";")
	}
	a := make([]string, t.Len())
	b := make([]string, t.Len())
	for i, row := range t.Rows {
		a[i] = norm(t.Value(row, c1))
		b[i] = norm(t.Value(row, c2))
	}

	perLabel, macro, err := agreement.MultilabelMacro(a, b, ";")
	if err != nil {
		return err
	}

	out := dataset.New("label", "kappa")
	for _, lk := range perLabel {
		out.Append([]string{lk.Label, strconv.FormatFloat(lk.Kappa, 'f', 6, 64)})
		s.log.Info().Str("label", lk.Label).Float64("kappa", lk.Kappa).Msg("per-label kappa")
	}
	out.Append([]string{"MACRO", strconv.FormatFloat(macro, 'f', 6, 64)})
	s.log.Info().Float64("macro", macro).Msg("macro kappa")
	if err := out.WriteFile(opt.Out); err != nil {
		return err
	}

	if opt.Normalized != "" {
		nt := dataset.New(append(append([]string(nil), t.Columns...), "R1_normalized", "R2_normalized")...)
		for i, row := range t.Rows {
			nt.Append(append(append([]string(nil), row...), strings.ReplaceAll(a[i], ";", ", "), strings.ReplaceAll(b[i], ";", ", ")))
		}
		if err := nt.WriteFile(opt.Normalized); err != nil {
			return err
		}
	}
	return nil
}
