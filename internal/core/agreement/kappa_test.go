package agreement

import (
	"math"
	"testing"
)

func TestCohenPerfectAgreement(t *testing.T) {
	a := []string{"x", "y", "x", "z"}
	k, err := Cohen(a, a)
	if err != nil {
		t.Fatalf("Cohen: %v", err)
	}
	if k != 1 {
		t.Fatalf("kappa = %f, want 1", k)
	}
}

func TestCohenKnownValue(t *testing.T) {
	// balanced 2x2: po = 0.8, pe = 0.5 -> kappa 0.6
	a := []string{"y", "y", "y", "y", "y", "n", "n", "n", "n", "n"}
	b := []string{"y", "y", "y", "y", "n", "n", "n", "n", "n", "y"}
	k, err := Cohen(a, b)
	if err != nil {
		t.Fatalf("Cohen: %v", err)
	}
	if math.Abs(k-0.6) > 1e-9 {
		t.Fatalf("kappa = %f, want 0.6", k)
	}
}

func TestCohenDegenerateSingleCategory(t *testing.T) {
	a := []string{"x", "x", "x"}
	k, err := Cohen(a, a)
	if err != nil {
		t.Fatalf("Cohen: %v", err)
	}
	if k != 1 {
		t.Fatalf("kappa = %f, want 1 for unanimous raters", k)
	}
}

func TestCohenErrors(t *testing.T) {
	if _, err := Cohen([]string{"a"}, []string{"a", "b"}); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if _, err := Cohen(nil, nil); err == nil {
		t.Fatal("expected error on empty input")
	}
}

func TestFill(t *testing.T) {
	got := Fill([]string{" a ", "", "  "})
	want := []string{"a", None, None}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Fill = %v, want %v", got, want)
		}
	}
}

func TestSplitLabels(t *testing.T) {
	got := SplitLabels("Edge; Cloud ;Edge;", ";")
	if len(got) != 2 || got[0] != "Edge" || got[1] != "Cloud" {
		t.Fatalf("SplitLabels = %v", got)
	}
	if got := SplitLabels("   ", ";"); len(got) != 0 {
		t.Fatalf("blank cell = %v, want empty set", got)
	}
}

func TestMultilabelMacro(t *testing.T) {
	a := []string{"Edge;Cloud", "Edge", "Cloud", "Edge"}
	b := []string{"Edge;Cloud", "Edge", "Cloud", "Edge"}
	perLabel, macro, err := MultilabelMacro(a, b, ";")
	if err != nil {
		t.Fatalf("MultilabelMacro: %v", err)
	}
	if macro != 1 {
		t.Fatalf("macro = %f, want 1", macro)
	}
	if len(perLabel) != 2 {
		t.Fatalf("perLabel = %+v", perLabel)
	}
	// labels come back sorted
	if perLabel[0].Label != "Cloud" || perLabel[1].Label != "Edge" {
		t.Fatalf("label order = %+v", perLabel)
	}
}

func TestMultilabelMacroBlankCellsCarryNoLabels(t *testing.T) {
	a := []string{"Security;Reliability", ""}
	b := []string{"Security", "Reliability"}
	perLabel, macro, err := MultilabelMacro(a, b, ";")
	if err != nil {
		t.Fatalf("MultilabelMacro: %v", err)
	}
	// the union is the observed attributes only; the blank cell must not
	// introduce a placeholder label
	if len(perLabel) != 2 {
		t.Fatalf("perLabel = %+v, want 2 labels", perLabel)
	}
	for _, lk := range perLabel {
		if lk.Label == None {
			t.Fatalf("union contains %q: %+v", None, perLabel)
		}
	}
	// Security agrees perfectly (kappa 1), Reliability is inverted
	// (kappa -1), so the macro mean is 0
	if math.Abs(macro) > 1e-9 {
		t.Fatalf("macro = %f, want 0", macro)
	}
}

func TestMultilabelMacroAllBlank(t *testing.T) {
	if _, _, err := MultilabelMacro([]string{"", ""}, []string{"", ""}, ";"); err == nil {
		t.Fatal("expected error when no labels are observed")
	}
}

func TestMultilabelMacroDisagreement(t *testing.T) {
	a := []string{"Edge", "Cloud", "Edge", "Cloud"}
	b := []string{"Cloud", "Edge", "Cloud", "Edge"}
	_, macro, err := MultilabelMacro(a, b, ";")
	if err != nil {
		t.Fatalf("MultilabelMacro: %v", err)
	}
	if macro >= 0 {
		t.Fatalf("macro = %f, want negative for systematic disagreement", macro)
	}
}
