package analyze

import (
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot/vg"

	"edgeminer/internal/charts"
	"edgeminer/internal/core/dataset"
	"edgeminer/internal/core/likert"
	perr "edgeminer/internal/platform/errors"
)

// LikertOptions configures the survey-overview pipeline
type LikertOptions struct {
	Input     string
	TablesDir string
	FigsDir   string

	// Basename names the output files (counts, percentages, figure)
	Basename string

	// OnlyGuidelines keeps just the [Gxx] questions
	OnlyGuidelines bool

	// ShortenLabels reduces questions to their guideline id in the
	// figure and writes a label map table
	ShortenLabels bool
}

// Likert auto-detects the Likert columns, writes the counts and
// percentage tables, and draws the stacked overview chart
func (s *Service) Likert(opt LikertOptions) error {
	t, err := dataset.ReadFile(opt.Input)
	if err != nil {
		return err
	}

	profiles := likert.DetectColumns(t, []likert.Scale{likert.ScaleAgree, likert.ScaleUseful})
	if opt.OnlyGuidelines {
		var kept []likert.Profile
		for _, p := range profiles {
			if likert.IsGuideline(p.Question) {
				kept = append(kept, p)
			}
		}
		profiles = kept
	}
	if len(profiles) == 0 {
		return perr.CSVErrf("no likert columns detected in %s", opt.Input)
	}
	s.log.Info().Int("questions", len(profiles)).Msg("likert columns detected")

	results := likert.BuildTables(t, profiles)

	// union of level orders across the detected scales
	var levels []string
	seen := map[string]bool{}
	for _, r := range results {
		for _, lvl := range r.Profile.Order() {
			if !seen[lvl] {
				seen[lvl] = true
				levels = append(levels, lvl)
			}
		}
	}

	counts := dataset.New(append([]string{"question"}, levels...)...)
	pcts := dataset.New(append([]string{"question"}, levels...)...)
	questions := make([]string, len(results))
	chartCounts := make([][]float64, len(results))
	for i, r := range results {
		q := r.Profile.Question
		questions[i] = q

		crow := []string{q}
		prow := []string{q}
		chartCounts[i] = make([]float64, len(levels))
		for j, lvl := range levels {
			c := r.Counts[lvl]
			crow = append(crow, strconv.Itoa(c))
			prow = append(prow, pct(r.Pcts[lvl]))
			chartCounts[i][j] = float64(c)
		}
		counts.Append(crow)
		pcts.Append(prow)
	}

	if err := counts.WriteFile(tablePath(opt.TablesDir, opt.Basename+"_counts.csv")); err != nil {
		return err
	}
	if err := pcts.WriteFile(tablePath(opt.TablesDir, opt.Basename+"_percentages.csv")); err != nil {
		return err
	}

	chartLabels := questions
	if opt.ShortenLabels {
		chartLabels = make([]string, len(questions))
		labelMap := dataset.New("original", "short")
		for i, q := range questions {
			chartLabels[i] = likert.ShortenLabel(q)
			labelMap.Append([]string{q, chartLabels[i]})
		}
		if err := labelMap.WriteFile(tablePath(opt.TablesDir, opt.Basename+"_label_map.csv")); err != nil {
			return err
		}
	}

	pl, err := charts.StackedLikert("Survey Responses", chartLabels, levels, chartCounts)
	if err != nil {
		return err
	}
	h := vg.Length(len(questions)+3) * vg.Inch / 2
	return charts.SaveAll(pl, 9*vg.Inch, h, filepath.Join(opt.FigsDir, opt.Basename))
}
