package analyze

import (
	"os"
	"path/filepath"
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

func newSvc() *Service { return New(*logger.Named("analyze-test")) }

func TestDomains(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "work.csv",
		"full_name,domain\n"+
			"a/r1,\"Computer Vision, IIoT\"\n"+
			"a/r2,real-time data processing\n"+
			"a/r3,iiot\n"+
			"a/r4,\n")

	svc := newSvc()
	err := svc.Domains(DomainsOptions{
		Input: input, Column: "domain", IDColumn: "full_name",
		TablesDir: filepath.Join(dir, "tables"), FigsDir: filepath.Join(dir, "figs"),
	})
	if err != nil {
		t.Fatalf("Domains: %v", err)
	}

	counts, err := dataset.ReadFile(filepath.Join(dir, "tables", "domains_counts.csv"))
	if err != nil {
		t.Fatalf("read counts: %v", err)
	}
	if counts.Len() != 3 {
		t.Fatalf("distinct domains = %d, want 3: %v", counts.Len(), counts.Rows)
	}
	// IIoT appears in two repos and sorts first on count
	if counts.Rows[0][0] != "IIoT" || counts.Rows[0][1] != "2" {
		t.Fatalf("top row = %v", counts.Rows[0])
	}
	// percentage over repos: 2/4 = 50
	if counts.Rows[0][3] != "50" {
		t.Fatalf("percentage = %q", counts.Rows[0][3])
	}

	long, err := dataset.ReadFile(filepath.Join(dir, "tables", "domains_normalized_long.csv"))
	if err != nil {
		t.Fatalf("read long: %v", err)
	}
	if long.Len() != 4 {
		t.Fatalf("long rows = %d, want 4", long.Len())
	}

	for _, f := range []string{"domains_distribution.png", "domains_distribution.pdf"} {
		if _, err := os.Stat(filepath.Join(dir, "figs", f)); err != nil {
			t.Errorf("missing figure %s: %v", f, err)
		}
	}
}

func TestDomainsMissingColumn(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "bad.csv", "name\nfoo\n")
	if err := newSvc().Domains(DomainsOptions{Input: input, Column: "domain", TablesDir: dir, FigsDir: dir}); err == nil {
		t.Fatal("expected error for missing domain column")
	}
}

func TestCapabilities(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "caps.csv",
		"id,repo_name,capability_1,iso_mapping_cap_1,capability_2,iso_mapping_cap_2,layer_caps\n"+
			"1,a/r1,stream ingest,Data Capabilities,device mgmt,Supporting capabilities,Edge/Fog\n"+
			"2,a/r2,ui,Interface capability,,,weird-layer-name\n"+
			"3,a/r3,telemetry,not-a-class,,,Cloud\n")

	svc := newSvc()
	tables := filepath.Join(dir, "tables")
	figs := filepath.Join(dir, "figs")
	if err := svc.Capabilities(CapabilitiesOptions{Input: input, TablesDir: tables, FigsDir: figs}); err != nil {
		t.Fatalf("Capabilities: %v", err)
	}

	long, err := dataset.ReadFile(filepath.Join(tables, "normalized_capabilities_long.csv"))
	if err != nil {
		t.Fatalf("read long: %v", err)
	}
	// repo 1 slots explode over Edge and Fog with weight 0.5 each; the
	// shared layer cell keeps slot 3 alive even with no capability
	wCol := long.Col("weight")
	lCol := long.Col("layer")
	half := 0
	for _, row := range long.Rows {
		if long.Value(row, wCol) == "0.5" {
			half++
			if l := long.Value(row, lCol); l != "Edge" && l != "Fog" {
				t.Errorf("half-weight row on layer %q", l)
			}
		}
	}
	if half != 6 {
		t.Fatalf("half-weight observations = %d, want 6", half)
	}

	unmISO, err := dataset.ReadFile(filepath.Join(tables, "unmapped_iso.csv"))
	if err != nil {
		t.Fatalf("read unmapped_iso: %v", err)
	}
	if unmISO.Len() != 1 || unmISO.Rows[0][3] != "not-a-class" {
		t.Fatalf("unmapped_iso = %v", unmISO.Rows)
	}

	unmLayers, err := dataset.ReadFile(filepath.Join(tables, "unmapped_layers.csv"))
	if err != nil {
		t.Fatalf("read unmapped_layers: %v", err)
	}
	// one entry per slot that saw the shared unmappable layer cell
	if unmLayers.Len() != 3 || unmLayers.Rows[0][3] != "weird-layer-name" {
		t.Fatalf("unmapped_layers = %v", unmLayers.Rows)
	}

	heat, err := dataset.ReadFile(filepath.Join(tables, "heatmap_iso_x_layer_counts.csv"))
	if err != nil {
		t.Fatalf("read heat counts: %v", err)
	}
	if heat.Len() != 3 || len(heat.Columns) != 6 {
		t.Fatalf("heat shape = %dx%d", heat.Len(), len(heat.Columns))
	}

	for _, f := range []string{"bar_iso.png", "bar_layers.png", "heatmap_iso_x_layer.png"} {
		if _, err := os.Stat(filepath.Join(figs, f)); err != nil {
			t.Errorf("missing figure %s: %v", f, err)
		}
	}
}

func TestLayers(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "sa.csv",
		"application_type,desc.\n"+
			"system,an end-to-end edge platform\n"+
			"framework,reference architecture aligned with iso 30141\n"+
			"framework,mqtt broker runtime for jetson\n"+
			"subsistema,componente de percepcao\n"+
			",\n")

	svc := newSvc()
	tables := filepath.Join(dir, "tables")
	if err := svc.Layers(LayersOptions{Input: input, TablesDir: tables, FigsDir: filepath.Join(dir, "figs")}); err != nil {
		t.Fatalf("Layers: %v", err)
	}

	ct, err := dataset.ReadFile(filepath.Join(tables, "distribution_arch_layers_counts.csv"))
	if err != nil {
		t.Fatalf("read counts: %v", err)
	}
	want := map[string]string{
		"Meta-Architecture":       "1",
		"Platform/Infrastructure": "1",
		"System":                  "1",
		"Subsystem":               "1",
	}
	for _, row := range ct.Rows {
		if want[row[0]] != row[1] {
			t.Errorf("layer %s count = %s, want %s", row[0], row[1], want[row[0]])
		}
	}
}

func TestCoverage(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "doc.csv",
		"arch_overview,diagrams\nyes,\nno,x\n")

	out := filepath.Join(dir, "tables", "column_coverage.csv")
	if err := newSvc().Coverage(CoverageOptions{Input: input, Out: out}); err != nil {
		t.Fatalf("Coverage: %v", err)
	}
	ct, err := dataset.ReadFile(out)
	if err != nil {
		t.Fatalf("read coverage: %v", err)
	}
	if ct.Len() != len(dataset.DocColumns) {
		t.Fatalf("rows = %d, want %d", ct.Len(), len(dataset.DocColumns))
	}
	if ct.Rows[0][0] != "arch_overview" || ct.Rows[0][1] != "2" {
		t.Fatalf("row0 = %v", ct.Rows[0])
	}
}

func TestLikertPipeline(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "survey.csv",
		"respondent,[G01] Use structured logging,[G02] Pin runtime versions,comment\n"+
			"r1,Agree,Strongly agree,fine\n"+
			"r2,Strongly agree,Agree,ok\n"+
			"r3,Disagree,Neutral,hmm\n"+
			"r4,Neutral,Disagree,meh\n")

	svc := newSvc()
	tables := filepath.Join(dir, "tables")
	figs := filepath.Join(dir, "figs")
	err := svc.Likert(LikertOptions{
		Input: input, TablesDir: tables, FigsDir: figs,
		Basename: "likert_overview", OnlyGuidelines: true, ShortenLabels: true,
	})
	if err != nil {
		t.Fatalf("Likert: %v", err)
	}

	counts, err := dataset.ReadFile(filepath.Join(tables, "likert_overview_counts.csv"))
	if err != nil {
		t.Fatalf("read counts: %v", err)
	}
	if counts.Len() != 2 {
		t.Fatalf("questions = %d, want 2", counts.Len())
	}
	if got := counts.Value(counts.Rows[0], counts.Col("Agree")); got != "1" {
		t.Fatalf("G01 Agree = %q", got)
	}

	lm, err := dataset.ReadFile(filepath.Join(tables, "likert_overview_label_map.csv"))
	if err != nil {
		t.Fatalf("read label map: %v", err)
	}
	if lm.Rows[0][1] != "[G01]" {
		t.Fatalf("short label = %q", lm.Rows[0][1])
	}

	if _, err := os.Stat(filepath.Join(figs, "likert_overview.png")); err != nil {
		t.Errorf("missing figure: %v", err)
	}
}

func TestLikertNoColumns(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "empty.csv", "a,b\nx,y\n")
	err := newSvc().Likert(LikertOptions{Input: input, TablesDir: dir, FigsDir: dir, Basename: "x"})
	if err == nil {
		t.Fatal("expected error when nothing is detected")
	}
}
