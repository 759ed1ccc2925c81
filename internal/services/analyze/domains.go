package analyze

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/plot/vg"

	"edgeminer/internal/charts"
	"edgeminer/internal/core/dataset"
	"edgeminer/internal/core/labels"
	perr "edgeminer/internal/platform/errors"
)

// DomainsOptions configures the domain distribution pipeline
type DomainsOptions struct {
	Input string

	// Column holds the multi-valued domain cell
	Column string

	// IDColumn identifies a repo; when empty or missing a 1-based row
	// index is used
	IDColumn string

	TablesDir string
	FigsDir   string

	// TopN limits the chart (not the tables); 0 plots everything
	TopN int
}

// domainCount is one row of domains_counts.csv
type domainCount struct {
	domain     string
	count      int
	proportion float64
}

// Domains canonicalizes the domain column and writes the long table,
// the counts table, and the distribution chart
func (s *Service) Domains(opt DomainsOptions) error {
	t, err := dataset.ReadFile(opt.Input)
	if err != nil {
		return err
	}
	col := t.Col(opt.Column)
	if col < 0 {
		return perr.CSVErrf("column %q not found in %s", opt.Column, opt.Input)
	}

	idCol := -1
	idName := "repo_id"
	if opt.IDColumn != "" {
		if idCol = t.Col(opt.IDColumn); idCol >= 0 {
			idName = opt.IDColumn
		}
	}

	totalRepos := t.Len()
	s.log.Info().Int("rows", totalRepos).Str("column", opt.Column).Msg("normalizing domains")

	long := dataset.New(idName, "domain")
	counts := map[string]int{}
	for i, row := range t.Rows {
		id := strconv.Itoa(i + 1)
		if idCol >= 0 {
			id = t.Value(row, idCol)
		}
		norm := labels.NormalizeDomains(labels.SplitMulti(t.Value(row, col)))

		// one label per project even when coded twice
		uniq := map[string]bool{}
		var kept []string
		for _, d := range norm {
			if !uniq[d] {
				uniq[d] = true
				kept = append(kept, d)
			}
		}
		sort.Strings(kept)
		for _, d := range kept {
			long.Append([]string{id, d})
			counts[d]++
		}
	}

	longPath := tablePath(opt.TablesDir, "domains_normalized_long.csv")
	if err := long.WriteFile(longPath); err != nil {
		return err
	}
	s.log.Info().Str("file", longPath).Int("rows", long.Len()).Msg("long table written")

	if len(counts) == 0 {
		s.log.Warn().Msg("no domains after normalization, skipping counts and figure")
		return nil
	}

	ordered := make([]domainCount, 0, len(counts))
	for d, c := range counts {
		ordered = append(ordered, domainCount{domain: d, count: c, proportion: float64(c) / float64(totalRepos)})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].domain < ordered[j].domain
	})

	ct := dataset.New("domain", "count", "proportion", "percentage")
	for _, dc := range ordered {
		percentage := math.Round(dc.proportion*10000) / 100
		ct.Append([]string{dc.domain, strconv.Itoa(dc.count), ftoa(dc.proportion), ftoa(percentage)})
	}
	countsPath := tablePath(opt.TablesDir, "domains_counts.csv")
	if err := ct.WriteFile(countsPath); err != nil {
		return err
	}
	s.log.Info().Str("file", countsPath).Msg("counts table written")

	plotRows := ordered
	title := "Domains Distribution (Projects)"
	if opt.TopN > 0 && opt.TopN < len(plotRows) {
		plotRows = plotRows[:opt.TopN]
		title = fmt.Sprintf("Domains Distribution (Projects, Top %d)", opt.TopN)
	}
	names := make([]string, len(plotRows))
	values := make([]float64, len(plotRows))
	annots := make([]string, len(plotRows))
	for i, dc := range plotRows {
		names[i] = dc.domain
		values[i] = float64(dc.count)
		annots[i] = fmt.Sprintf("%d (%.2f%%)", dc.count, dc.proportion*100)
	}
	p, err := charts.HorizontalBars(title, names, values, annots)
	if err != nil {
		return err
	}
	base := filepath.Join(opt.FigsDir, "domains_distribution")
	if err := charts.SaveAll(p, 8*vg.Inch, vg.Length(len(plotRows)+2)*vg.Inch/2, base); err != nil {
		return err
	}
	s.log.Info().Str("figure", base).Msg("domain distribution figure written")
	return nil
}
