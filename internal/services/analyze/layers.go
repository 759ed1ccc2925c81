package analyze

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"

	"edgeminer/internal/charts"
	"edgeminer/internal/core/dataset"
	"edgeminer/internal/core/labels"
	perr "edgeminer/internal/platform/errors"
)

// LayersOptions configures the architectural-layer pipeline
type LayersOptions struct {
	Input     string
	TablesDir string
	FigsDir   string
}

// Layers maps application_type (with the description as a textual hint)
// onto the four architectural layers and writes the counts table plus
// the annotated distribution chart
func (s *Service) Layers(opt LayersOptions) error {
	t, err := dataset.ReadFile(opt.Input)
	if err != nil {
		return err
	}
	typeCol := t.Col("application_type")
	if typeCol < 0 {
		return perr.CSVErrf("column application_type not found in %s", opt.Input)
	}
	hintCol := t.Col("desc.")

	counts := map[string]int{}
	total := 0
	for _, row := range t.Rows {
		label := strings.TrimSpace(t.Value(row, typeCol))
		if label == "" {
			continue
		}
		layer := labels.MapArchLayer(label, t.Value(row, hintCol))
		counts[layer]++
		total++
	}
	s.log.Info().Int("labeled_rows", total).Msg("architectural layers mapped")

	ct := dataset.New("Layer", "Count", "Percent")
	names := make([]string, 0, len(labels.ArchLayerOrder))
	values := make([]float64, 0, len(labels.ArchLayerOrder))
	annots := make([]string, 0, len(labels.ArchLayerOrder))
	for _, layer := range labels.ArchLayerOrder {
		c := counts[layer]
		p := 0.0
		if total > 0 {
			p = math.Round(float64(c)/float64(total)*1000) / 10
		}
		ct.Append([]string{layer, strconv.Itoa(c), strconv.FormatFloat(p, 'f', 1, 64)})
		names = append(names, layer)
		values = append(values, float64(c))
		annots = append(annots, fmt.Sprintf("%d (%.1f%%)", c, p))
	}
	if err := ct.WriteFile(tablePath(opt.TablesDir, "distribution_arch_layers_counts.csv")); err != nil {
		return err
	}

	pl, err := charts.HorizontalBars("Distribution of Architectural Layers", names, values, annots)
	if err != nil {
		return err
	}
	return charts.SaveAll(pl, 8*vg.Inch, 4*vg.Inch, filepath.Join(opt.FigsDir, "distribution_arch_layers"))
}
