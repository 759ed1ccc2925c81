package dataset

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Concat merges tables into one, aligning columns by name. The output
// header is the union of input headers in first-seen order; missing cells
// stay empty
func Concat(tables ...*Table) *Table {
	var columns []string
	index := map[string]int{}
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := index[c]; !ok {
				index[c] = len(columns)
				columns = append(columns, c)
			}
		}
	}

	out := New(columns...)
	for _, t := range tables {
		cols := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			cols[i] = index[c]
		}
		for _, row := range t.Rows {
			merged := make([]string, len(columns))
			for i, v := range row {
				if i < len(cols) {
					merged[cols[i]] = v
				}
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}

// DedupSubset is the default identity subset for mined repository rows
var DedupSubset = []string{"name", "full_name", "URL"}

// Dedup removes duplicate rows keyed by the subset columns that exist in
// the table. When none exist it falls back to whole-row comparison and
// reports fellBack=true so callers can warn
func Dedup(t *Table, subset []string) (out *Table, fellBack bool) {
	var idx []int
	for _, name := range subset {
		if i := t.Col(name); i >= 0 {
			idx = append(idx, i)
		}
	}
	fellBack = len(idx) == 0

	out = New(t.Columns...)
	seen := map[string]bool{}
	for _, row := range t.Rows {
		var key string
		if fellBack {
			key = strings.Join(row, "\x1f")
		} else {
			parts := make([]string, len(idx))
			for i, c := range idx {
				parts[i] = t.Value(row, c)
			}
			key = strings.Join(parts, "\x1f")
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Rows = append(out.Rows, row)
	}
	return out, fellBack
}

// FilterEnglish keeps rows whose description column reads as English.
// Rows with empty or undetectable descriptions are dropped. ok is false
// when the column does not exist; the returned table is then empty but
// keeps the input header so the pipeline shape is preserved
func FilterEnglish(t *Table, descCol string) (out *Table, ok bool) {
	out = New(t.Columns...)
	col := t.Col(descCol)
	if col < 0 {
		return out, false
	}

	for _, row := range t.Rows {
		desc := strings.TrimSpace(t.Value(row, col))
		if desc == "" {
			continue
		}
		info := whatlanggo.Detect(desc)
		if info.Lang == whatlanggo.Eng {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, true
}

// ExclusionTerms flags repositories that are teaching material or tooling
// rather than study subjects
var ExclusionTerms = []string{
	"courses", "toy", "tutorial", "classes", "books", "book",
	"guidelines", "tools", "tool", "demos", "demo", "simulator",
	"simulators", "class", "course", "toys", "cutting-edge", "library",
	"cuttingedge", "cutting_edge", "cutting edge",
}

// FilterExclusion drops rows whose name, description, or search terms
// contain any exclusion term (case-insensitive substring match over the
// concatenated text)
func FilterExclusion(t *Table, terms []string) *Table {
	nameCol := t.Col("name")
	descCol := t.Col("desc.")
	termCol := t.Col("search_term")

	out := New(t.Columns...)
	for _, row := range t.Rows {
		haystack := strings.ToLower(strings.Join([]string{
			t.Value(row, nameCol),
			t.Value(row, descCol),
			t.Value(row, termCol),
		}, " "))

		excluded := false
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				excluded = true
				break
			}
		}
		if !excluded {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
