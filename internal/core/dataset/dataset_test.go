package dataset

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadWriteRoundTrip(t *testing.T) {
	in := "name,full_name,URL\nfoo,o/foo,https://x\nbar,o/bar,https://y\n"
	tb, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tb.Len() != 2 || len(tb.Columns) != 3 {
		t.Fatalf("got %d rows %d cols", tb.Len(), len(tb.Columns))
	}

	path := filepath.Join(t.TempDir(), "out", "roundtrip.csv")
	if err := tb.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(back, tb) {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, tb)
	}
}

func TestReadStripsBOMAndPadsShortRows(t *testing.T) {
	in := "\ufeffname,desc.\nonly-name\n"
	tb, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tb.Columns[0] != "name" {
		t.Fatalf("BOM not stripped: %q", tb.Columns[0])
	}
	if got := tb.Value(tb.Rows[0], tb.Col("desc.")); got != "" {
		t.Fatalf("short row not padded, got %q", got)
	}
}

func TestReadEmptyInputErrors(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConcatAlignsColumnsByName(t *testing.T) {
	a := New("name", "stars")
	a.Append([]string{"foo", "10"})
	b := New("stars", "lang")
	b.Append([]string{"5", "Go"})

	got := Concat(a, b)
	wantCols := []string{"name", "stars", "lang"}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Fatalf("columns = %v, want %v", got.Columns, wantCols)
	}
	if !reflect.DeepEqual(got.Rows[0], []string{"foo", "10", ""}) {
		t.Fatalf("row0 = %v", got.Rows[0])
	}
	if !reflect.DeepEqual(got.Rows[1], []string{"", "5", "Go"}) {
		t.Fatalf("row1 = %v", got.Rows[1])
	}
}

func TestDedupBySubset(t *testing.T) {
	tb := New("name", "full_name", "URL", "stars")
	tb.Append([]string{"foo", "o/foo", "u1", "10"})
	tb.Append([]string{"foo", "o/foo", "u1", "99"}) // dup on subset, differs elsewhere
	tb.Append([]string{"bar", "o/bar", "u2", "3"})

	out, fellBack := Dedup(tb, DedupSubset)
	if fellBack {
		t.Fatal("should not fall back when subset columns exist")
	}
	if out.Len() != 2 {
		t.Fatalf("got %d rows, want 2", out.Len())
	}
}

func TestDedupFallsBackToFullRow(t *testing.T) {
	tb := New("a", "b")
	tb.Append([]string{"1", "2"})
	tb.Append([]string{"1", "2"})
	tb.Append([]string{"1", "3"})

	out, fellBack := Dedup(tb, DedupSubset)
	if !fellBack {
		t.Fatal("expected fallback when no subset column exists")
	}
	if out.Len() != 2 {
		t.Fatalf("got %d rows, want 2", out.Len())
	}
}

func TestFilterEnglish(t *testing.T) {
	tb := New("name", "desc.")
	tb.Append([]string{"a", "A lightweight framework for running machine learning inference on edge devices"})
	tb.Append([]string{"b", "Um framework leve para processamento de dados na borda da rede em tempo real"})
	tb.Append([]string{"c", "   "})

	out, ok := FilterEnglish(tb, "desc.")
	if !ok {
		t.Fatal("column exists, ok should be true")
	}
	if out.Len() != 1 || out.Rows[0][0] != "a" {
		t.Fatalf("kept %d rows (%v), want just row a", out.Len(), out.Rows)
	}
}

func TestFilterEnglishMissingColumn(t *testing.T) {
	tb := New("name")
	tb.Append([]string{"a"})
	out, ok := FilterEnglish(tb, "desc.")
	if ok {
		t.Fatal("ok should be false when column missing")
	}
	if out.Len() != 0 || len(out.Columns) != 1 {
		t.Fatalf("want empty table with input header, got %+v", out)
	}
}

func TestFilterExclusion(t *testing.T) {
	tb := New("name", "desc.", "search_term")
	tb.Append([]string{"edge-runtime", "production inference engine", "edge ai"})
	tb.Append([]string{"ml-course", "university classes on ML", "edge ai"})
	tb.Append([]string{"demo-kit", "a demo for the workshop", "edge ai"})

	out := FilterExclusion(tb, ExclusionTerms)
	if out.Len() != 1 || out.Rows[0][0] != "edge-runtime" {
		t.Fatalf("kept %v, want only edge-runtime", out.Rows)
	}
}

func TestCoverage(t *testing.T) {
	tb := New("arch_overview", "diagrams")
	tb.Append([]string{"yes", ""})
	tb.Append([]string{"", "x"})
	tb.Append([]string{"no", "0"})

	rows := Coverage(tb, []string{"arch_overview", "diagrams", "adrs"}, false)
	if rows[0].Count != 2 || rows[1].Count != 2 || rows[2].Count != 0 {
		t.Fatalf("non-empty counts = %d,%d,%d", rows[0].Count, rows[1].Count, rows[2].Count)
	}
	if rows[2].Criterion != "non_null_non_empty" {
		t.Fatalf("criterion = %q", rows[2].Criterion)
	}

	rows = Coverage(tb, []string{"arch_overview", "diagrams"}, true)
	// true-like: "yes" counts, "no" doesn't, "x" doesn't, "0" is numeric zero
	if rows[0].Count != 1 || rows[1].Count != 0 {
		t.Fatalf("true-like counts = %d,%d", rows[0].Count, rows[1].Count)
	}
}

func TestIsTrueLike(t *testing.T) {
	for _, s := range []string{"true", "YES", "1", "sim", "2.5"} {
		if !IsTrueLike(s) {
			t.Fatalf("IsTrueLike(%q) = false", s)
		}
	}
	for _, s := range []string{"", "no", "0", "0.0", "maybe"} {
		if IsTrueLike(s) {
			t.Fatalf("IsTrueLike(%q) = true", s)
		}
	}
}
