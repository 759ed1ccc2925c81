// Package charts renders the study figures: horizontal distribution bars,
// stacked Likert bars, and the class-by-layer heatmap. Every figure is
// saved as both PNG and PDF next to its data table
package charts

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	perr "edgeminer/internal/platform/errors"
)

// study color ramp, dark to light, with greys for neutral segments
var (
	blueDark   = color.RGBA{R: 0x3b, G: 0x5b, B: 0x92, A: 0xff}
	blueMid    = color.RGBA{R: 0x6c, G: 0x8e, B: 0xbf, A: 0xff}
	blueSoft   = color.RGBA{R: 0x8a, G: 0xa8, B: 0xd6, A: 0xff}
	blueLight  = color.RGBA{R: 0xb7, G: 0xc7, B: 0xea, A: 0xff}
	greyDark   = color.RGBA{R: 0x77, G: 0x77, B: 0x77, A: 0xff}
	greyMid    = color.RGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff}
	greySoft   = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}
	greyLight  = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
)

// LikertColors maps a worst-to-best 5-point order onto the ramp
var LikertColors = []color.Color{greyDark, greyMid, greyLight, blueSoft, blueDark}

var barWidth = vg.Points(18)

// SaveAll writes the plot as base.png and base.pdf
func SaveAll(p *plot.Plot, w, h vg.Length, base string) error {
	for _, ext := range []string{".png", ".pdf"} {
		if err := p.Save(w, h, base+ext); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "save chart %s%s", base, ext)
		}
	}
	return nil
}

// HorizontalBars draws one horizontal bar per label, top-down in the
// given order, with an annotation string at the end of each bar
func HorizontalBars(title string, labels []string, values []float64, annotations []string) (*plot.Plot, error) {
	if len(labels) != len(values) {
		return nil, perr.InvalidArgf("labels and values differ in length: %d vs %d", len(labels), len(values))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Repositories"

	// reverse so the first label renders at the top
	n := len(labels)
	vals := make(plotter.Values, n)
	names := make([]string, n)
	for i := range labels {
		vals[n-1-i] = values[i]
		names[n-1-i] = labels[i]
	}

	bars, err := plotter.NewBarChart(vals, barWidth)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "bar chart")
	}
	bars.Horizontal = true
	bars.Color = blueMid
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(names...)

	if len(annotations) == len(labels) {
		xyl := plotter.XYLabels{}
		for i := range labels {
			xyl.XYs = append(xyl.XYs, plotter.XY{X: values[i], Y: float64(n - 1 - i)})
			xyl.Labels = append(xyl.Labels, " "+annotations[i])
		}
		lab, err := plotter.NewLabels(xyl)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "bar labels")
		}
		p.Add(lab)
	}
	return p, nil
}

// StackedLikert draws one stacked horizontal bar per question. counts is
// indexed [question][level] in the same order as questions and levels
func StackedLikert(title string, questions, levels []string, counts [][]float64) (*plot.Plot, error) {
	if len(counts) != len(questions) {
		return nil, perr.InvalidArgf("counts rows %d != questions %d", len(counts), len(questions))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Responses"
	p.Legend.Top = true
	p.Legend.Left = false

	nq := len(questions)
	names := make([]string, nq)
	for i, q := range questions {
		names[nq-1-i] = q
	}

	var prev *plotter.BarChart
	for li, level := range levels {
		vals := make(plotter.Values, nq)
		for qi := range questions {
			if li < len(counts[qi]) {
				vals[nq-1-qi] = counts[qi][li]
			}
		}
		bars, err := plotter.NewBarChart(vals, barWidth)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "stacked bars %q", level)
		}
		bars.Horizontal = true
		bars.LineStyle.Width = 0
		bars.Color = LikertColors[li%len(LikertColors)]
		if prev != nil {
			bars.StackOn(prev)
		}
		p.Add(bars)
		p.Legend.Add(level, bars)
		prev = bars
	}
	p.NominalY(names...)
	return p, nil
}

// heatGrid adapts a row-major matrix to plotter.GridXYZ
type heatGrid struct {
	cols, rows int
	z          [][]float64
}

func (g heatGrid) Dims() (int, int)   { return g.cols, g.rows }
func (g heatGrid) X(c int) float64    { return float64(c) }
func (g heatGrid) Y(r int) float64    { return float64(r) }
func (g heatGrid) Z(c, r int) float64 { return g.z[r][c] }

// ramp is a fixed-color palette for heatmap cells
type ramp []color.Color

func (r ramp) Colors() []color.Color { return r }

var heatRamp = ramp{greyLight, greySoft, blueLight, blueSoft, blueMid, blueDark}

// Heatmap draws a percentage matrix with nominal axes and a value
// annotation in every cell
func Heatmap(title string, xLabels, yLabels []string, z [][]float64) (*plot.Plot, error) {
	if len(z) != len(yLabels) {
		return nil, perr.InvalidArgf("matrix rows %d != y labels %d", len(z), len(yLabels))
	}
	for _, row := range z {
		if len(row) != len(xLabels) {
			return nil, perr.InvalidArgf("matrix row width %d != x labels %d", len(row), len(xLabels))
		}
	}

	p := plot.New()
	p.Title.Text = title

	hm := plotter.NewHeatMap(heatGrid{cols: len(xLabels), rows: len(yLabels), z: z}, heatRamp)
	p.Add(hm)
	p.NominalX(xLabels...)
	p.NominalY(yLabels...)

	xyl := plotter.XYLabels{}
	for r := range yLabels {
		for c := range xLabels {
			xyl.XYs = append(xyl.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			xyl.Labels = append(xyl.Labels, fmt.Sprintf("%.1f%%", z[r][c]))
		}
	}
	lab, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "heatmap labels")
	}
	p.Add(lab)
	return p, nil
}
