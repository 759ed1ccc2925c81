package analyze

import (
	"strconv"

	"edgeminer/internal/core/dataset"
)

// CoverageOptions configures the documentation-coverage pipeline
type CoverageOptions struct {
	Input string

	// Columns to audit; defaults to the architecture-documentation set
	Columns []string

	// TrueLike switches the criterion from non-empty to true-like
	TrueLike bool

	// Out is the output CSV path
	Out string
}

// Coverage writes the per-column coverage table
func (s *Service) Coverage(opt CoverageOptions) error {
	t, err := dataset.ReadFile(opt.Input)
	if err != nil {
		return err
	}
	cols := opt.Columns
	if len(cols) == 0 {
		cols = dataset.DocColumns
	}

	rows := dataset.Coverage(t, cols, opt.TrueLike)
	out := dataset.New("column", "count", "percent", "total_rows", "criterion")
	for _, r := range rows {
		out.Append([]string{
			r.Column,
			strconv.Itoa(r.Count),
			pct(r.Percent),
			strconv.Itoa(r.TotalRows),
			r.Criterion,
		})
	}
	if err := out.WriteFile(opt.Out); err != nil {
		return err
	}
	s.log.Info().Str("file", opt.Out).Int("columns", len(rows)).Msg("coverage table written")
	return nil
}
