package analyze

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"

	"edgeminer/internal/charts"
	"edgeminer/internal/core/dataset"
	"edgeminer/internal/core/labels"
)

// CapabilitiesOptions configures the ISO 30141 capability pipeline
type CapabilitiesOptions struct {
	Input     string
	TablesDir string
	FigsDir   string
}

// capRecord is one exploded slot x layer observation
type capRecord struct {
	id, repo string
	slot     int
	cap      string
	isoRaw   string
	iso      string
	layerRaw string
	layer    string
	weight   float64
}

// firstCol returns the index of the first existing column among names
func firstCol(t *dataset.Table, names ...string) int {
	for _, n := range names {
		if i := t.Col(n); i >= 0 {
			return i
		}
	}
	return -1
}

// slotCol resolves the per-slot column, trying each prefix with _<n>
func slotCol(t *dataset.Table, n int, prefixes ...string) int {
	for _, p := range prefixes {
		if i := t.Col(fmt.Sprintf("%s_%d", p, n)); i >= 0 {
			return i
		}
	}
	return -1
}

// Capabilities explodes the three capability slots into weighted
// (class, layer) observations and writes the aggregate tables, the
// unmapped-value tables, two bar charts, and the class-by-layer heatmap
func (s *Service) Capabilities(opt CapabilitiesOptions) error {
	t, err := dataset.ReadFile(opt.Input)
	if err != nil {
		return err
	}

	idCol := firstCol(t, "id", "repo_id", "uid")
	repoCol := firstCol(t, "repo_name", "repo", "name")
	layerCol := firstCol(t, "layer_caps", "layers_cap", "layers_caps", "layer")

	var records []capRecord
	unmappedISO := dataset.New("id", "repo_name", "slot", "iso_raw")
	unmappedLayers := dataset.New("id", "repo_name", "slot", "layer_raw")
	seenUnmISO := map[string]bool{}
	seenUnmLayer := map[string]bool{}

	for _, row := range t.Rows {
		id := t.Value(row, idCol)
		repo := t.Value(row, repoCol)
		layerRaw := strings.TrimSpace(t.Value(row, layerCol))

		for n := 1; n <= 3; n++ {
			capV := strings.TrimSpace(t.Value(row, slotCol(t, n, "capability", "cap")))
			isoRaw := strings.TrimSpace(t.Value(row, slotCol(t, n, "iso_mapping_cap", "iso_map", "iso_mapping", "iso", "iso_ns")))
			if capV == "" && isoRaw == "" && layerRaw == "" {
				continue
			}

			iso, isoOK := labels.NormalizeISO(isoRaw)
			if !isoOK && isoRaw != "" {
				key := id + "\x1f" + strconv.Itoa(n) + "\x1f" + isoRaw
				if !seenUnmISO[key] {
					seenUnmISO[key] = true
					unmappedISO.Append([]string{id, repo, strconv.Itoa(n), isoRaw})
				}
			}

			lyrs := labels.SplitLayers(layerRaw)
			if lyrs == nil && layerRaw != "" {
				key := id + "\x1f" + strconv.Itoa(n) + "\x1f" + layerRaw
				if !seenUnmLayer[key] {
					seenUnmLayer[key] = true
					unmappedLayers.Append([]string{id, repo, strconv.Itoa(n), layerRaw})
				}
			}

			weight := 1.0
			if len(lyrs) > 0 {
				weight = 1.0 / float64(len(lyrs))
			} else {
				lyrs = []string{""}
			}
			for _, lyr := range lyrs {
				records = append(records, capRecord{
					id: id, repo: repo, slot: n, cap: capV,
					isoRaw: isoRaw, iso: iso,
					layerRaw: layerRaw, layer: lyr,
					weight: weight,
				})
			}
		}
	}
	s.log.Info().Int("observations", len(records)).Msg("capability slots exploded")

	long := dataset.New("id", "repo_name", "slot", "cap_specific", "iso_raw", "iso", "layer_raw", "layer", "weight")
	for _, r := range records {
		long.Append([]string{r.id, r.repo, strconv.Itoa(r.slot), r.cap, r.isoRaw, r.iso, r.layerRaw, r.layer, ftoa(r.weight)})
	}
	if err := long.WriteFile(tablePath(opt.TablesDir, "normalized_capabilities_long.csv")); err != nil {
		return err
	}
	if err := unmappedISO.WriteFile(tablePath(opt.TablesDir, "unmapped_iso.csv")); err != nil {
		return err
	}
	if err := unmappedLayers.WriteFile(tablePath(opt.TablesDir, "unmapped_layers.csv")); err != nil {
		return err
	}

	byISO := map[string]float64{}
	byLayer := map[string]float64{}
	heat := map[string]map[string]float64{}
	for _, r := range records {
		if r.iso != "" {
			byISO[r.iso] += r.weight
		}
		if r.layer != "" {
			byLayer[r.layer] += r.weight
		}
		if r.iso != "" && r.layer != "" {
			if heat[r.iso] == nil {
				heat[r.iso] = map[string]float64{}
			}
			heat[r.iso][r.layer] += r.weight
		}
	}

	if err := s.writeGroup(opt, "iso", "counts_iso.csv", labels.ISOCanon, byISO,
		"bar_iso", "Distribution of Capabilities by ISO/IEC/IEEE 30141 Class"); err != nil {
		return err
	}
	if err := s.writeGroup(opt, "layer", "counts_layers.csv", labels.LayerCanon, byLayer,
		"bar_layers", "Distribution of Capabilities by Layer"); err != nil {
		return err
	}
	return s.writeHeat(opt, heat)
}

// writeGroup emits one counts+percent table and its annotated bar chart
func (s *Service) writeGroup(opt CapabilitiesOptions, keyCol, fileName string, order []string, totals map[string]float64, figBase, title string) error {
	total := 0.0
	for _, v := range totals {
		total += v
	}

	ct := dataset.New(keyCol, "count", "percent")
	var names []string
	var values []float64
	var annots []string
	for _, k := range order {
		v, ok := totals[k]
		if !ok {
			continue
		}
		p := 0.0
		if total > 0 {
			p = v / total * 100
		}
		ct.Append([]string{k, ftoa(v), pct(p)})
		names = append(names, k)
		values = append(values, v)
		annots = append(annots, fmt.Sprintf("%.1f (%.1f%%)", v, p))
	}
	if err := ct.WriteFile(tablePath(opt.TablesDir, fileName)); err != nil {
		return err
	}

	pl, err := charts.HorizontalBars(title, names, values, annots)
	if err != nil {
		return err
	}
	base := filepath.Join(opt.FigsDir, figBase)
	if err := charts.SaveAll(pl, 8*vg.Inch, 4*vg.Inch, base); err != nil {
		return err
	}
	s.log.Info().Str("table", fileName).Str("figure", figBase).Msg("capability output written")
	return nil
}

// writeHeat emits the ISO x layer count and percent matrices plus the
// percentage heatmap figure
func (s *Service) writeHeat(opt CapabilitiesOptions, heat map[string]map[string]float64) error {
	total := 0.0
	for _, row := range heat {
		for _, v := range row {
			total += v
		}
	}

	countT := dataset.New(append([]string{"iso"}, labels.LayerCanon...)...)
	pctT := dataset.New(append([]string{"iso"}, labels.LayerCanon...)...)
	z := make([][]float64, len(labels.ISOCanon))
	for i, iso := range labels.ISOCanon {
		crow := []string{iso}
		prow := []string{iso}
		z[i] = make([]float64, len(labels.LayerCanon))
		for j, lyr := range labels.LayerCanon {
			v := heat[iso][lyr]
			p := 0.0
			if total > 0 {
				p = v / total * 100
			}
			z[i][j] = p
			crow = append(crow, ftoa(v))
			prow = append(prow, pct(p))
		}
		countT.Append(crow)
		pctT.Append(prow)
	}
	if err := countT.WriteFile(tablePath(opt.TablesDir, "heatmap_iso_x_layer_counts.csv")); err != nil {
		return err
	}
	if err := pctT.WriteFile(tablePath(opt.TablesDir, "heatmap_iso_x_layer_percent.csv")); err != nil {
		return err
	}

	pl, err := charts.Heatmap("Capabilities by ISO Class and Layer (%)", labels.LayerCanon, labels.ISOCanon, z)
	if err != nil {
		return err
	}
	return charts.SaveAll(pl, 8*vg.Inch, 4*vg.Inch, filepath.Join(opt.FigsDir, "heatmap_iso_x_layer"))
}
