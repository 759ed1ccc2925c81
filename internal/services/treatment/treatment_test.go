package treatment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"edgeminer/internal/core/dataset"
	"edgeminer/internal/platform/logger"
)

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFullPipeline(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "raw_a.csv",
		"name,full_name,URL,desc.,search_term\n"+
			"edge-infer,acme/edge-infer,u1,A production inference engine for machine learning on edge devices,edge ai\n"+
			"edge-infer,acme/edge-infer,u1,A production inference engine for machine learning on edge devices,edge ai\n")
	b := writeCSV(t, dir, "raw_b.csv",
		"name,full_name,URL,desc.,search_term\n"+
			"ml-course,acme/ml-course,u2,University classes and teaching material about machine learning systems,edge ai\n"+
			"borda-ml,acme/borda-ml,u3,Um framework de aprendizado de maquina para dispositivos de borda,edge ai\n")

	svc := New(*logger.Named("treatment-test"))
	res, err := svc.Run(Options{
		Inputs:     []string{a, b},
		OutDir:     filepath.Join(dir, "out"),
		DescColumn: "desc.",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Stages) != 4 {
		t.Fatalf("got %d stages", len(res.Stages))
	}

	wantRows := map[string]int{
		"CONCATENATED":   4,
		"NO-DUPLICATED":  3,
		"ENGLISH-DESC":   2, // Portuguese description dropped
		"EXCLUSION-TERM": 1, // course repo dropped
	}
	for _, st := range res.Stages {
		if st.Rows != wantRows[st.Name] {
			t.Errorf("stage %s rows = %d, want %d", st.Name, st.Rows, wantRows[st.Name])
		}
		if !strings.Contains(filepath.Base(st.Path), "["+st.Name+"]") {
			t.Errorf("stage %s path %q missing bracket prefix", st.Name, st.Path)
		}
		if _, err := os.Stat(st.Path); err != nil {
			t.Errorf("stage %s output missing: %v", st.Name, err)
		}
	}

	final, err := dataset.ReadFile(res.Stages[3].Path)
	if err != nil {
		t.Fatalf("read final: %v", err)
	}
	if final.Len() != 1 || final.Rows[0][0] != "edge-infer" {
		t.Fatalf("final rows = %v", final.Rows)
	}
}

func TestRunRejectsEmptyOptions(t *testing.T) {
	svc := New(*logger.Named("treatment-test"))
	if _, err := svc.Run(Options{}); err == nil {
		t.Fatal("expected validation error")
	}
}
