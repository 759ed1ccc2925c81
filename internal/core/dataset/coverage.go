package dataset

import (
	"strconv"
	"strings"
)

// DocColumns are the architecture-documentation columns whose presence the
// study counts per repository
var DocColumns = []string{
	"arch_overview", "diagrams", "adrs", "context",
	"deployment", "quality_attrs", "interface", "evaluation",
}

// trueLike values accepted by the true-like criterion ("sim" because part
// of the sheet was coded in Portuguese)
var trueLike = map[string]bool{
	"true": true, "1": true, "yes": true, "y": true, "sim": true,
}

// CoverageRow is one line of the column-coverage table
type CoverageRow struct {
	Column    string
	Count     int
	Percent   float64
	TotalRows int
	Criterion string
}

// IsTrueLike reports whether a cell counts under the true-like criterion.
// Numeric cells count when non-zero
func IsTrueLike(val string) bool {
	s := strings.ToLower(strings.TrimSpace(val))
	if s == "" {
		return false
	}
	if trueLike[s] {
		return true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0
	}
	return false
}

// Coverage computes per-column counts and percentages over total rows.
// Missing columns count zero. When useTrueLike is false any non-empty cell
// counts
func Coverage(t *Table, columns []string, useTrueLike bool) []CoverageRow {
	total := t.Len()
	criterion := "non_null_non_empty"
	if useTrueLike {
		criterion = "true_like"
	}

	rows := make([]CoverageRow, 0, len(columns))
	for _, name := range columns {
		col := t.Col(name)
		count := 0
		if col >= 0 {
			for _, row := range t.Rows {
				v := t.Value(row, col)
				if useTrueLike {
					if IsTrueLike(v) {
						count++
					}
				} else if strings.TrimSpace(v) != "" {
					count++
				}
			}
		}
		pct := 0.0
		if total > 0 {
			pct = float64(count) / float64(total) * 100.0
		}
		rows = append(rows, CoverageRow{
			Column:    name,
			Count:     count,
			Percent:   pct,
			TotalRows: total,
			Criterion: criterion,
		})
	}
	return rows
}
