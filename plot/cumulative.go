// Package plot renders cumulative-difference graphs and reliability diagrams.
package plot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	width  = 6 * vg.Inch
	height = 4.5 * vg.Inch
)

// CumulativeConfig controls the rendering of a cumulative-difference graph.
type CumulativeConfig struct {
	// Title of the plot; the default states that the deviation is the
	// slope of the graph.
	Title string
	// XLabel of the lower axis; defaults to "score".
	XLabel string
	// MajorTicks is the number of score-labeled ticks on the lower axis.
	MajorTicks int
}

// Cumulative saves a plot of the cumulative differences cum against the
// cumulative weights a, with a vertical bar at the origin spanning plus and
// minus twice lenscale to indicate the scale of random fluctuations, and the
// lower axis ticks labeled with the score values at equispaced positions of
// the cumulative weight.
func Cumulative(cum, a, scores []float64, lenscale float64, cfg CumulativeConfig, filename string) error {
	if len(cum) == 0 || len(cum) != len(a) {
		return fmt.Errorf("cumulative sequence and abscissae must be non-empty and equal in length")
	}
	if cfg.Title == "" {
		cfg.Title = "deviation is the slope as a function of A(j)"
	}
	if cfg.XLabel == "" {
		cfg.XLabel = "score"
	}
	if cfg.MajorTicks < 2 {
		cfg.MajorTicks = 8
	}

	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = cfg.XLabel
	p.Y.Label.Text = "C(j)"

	// The graph starts at the origin.
	pts := make(plotter.XYs, 0, len(cum)+1)
	pts = append(pts, plotter.XY{X: 0, Y: 0})
	for i := range cum {
		pts = append(pts, plotter.XY{X: a[i], Y: cum[i]})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = color.Black
	p.Add(line)

	// A two-headed vertical bar at the origin marks +/- 2 lenscale.
	if lenscale > 0 && !math.IsInf(lenscale, 0) {
		bar, err := plotter.NewLine(plotter.XYs{
			{X: 0, Y: -2 * lenscale},
			{X: 0, Y: 2 * lenscale},
		})
		if err != nil {
			return err
		}
		bar.Color = color.Black
		bar.Width = vg.Points(2)
		p.Add(bar)

		heads, err := plotter.NewScatter(plotter.XYs{
			{X: 0, Y: -2 * lenscale},
			{X: 0, Y: 2 * lenscale},
		})
		if err != nil {
			return err
		}
		heads.GlyphStyle.Shape = draw.PyramidGlyph{}
		heads.GlyphStyle.Color = color.Black
		heads.GlyphStyle.Radius = vg.Points(3)
		p.Add(heads)
	}

	// Label major ticks with the scores at equispaced cumulative weights.
	if len(scores) == len(cum) {
		p.X.Tick.Marker = scoreTicks(a, scores, cfg.MajorTicks)
	}

	return p.Save(width, height, filename)
}

// scoreTicks places cfg.MajorTicks ticks at equispaced positions of the
// index, labeling each with the score found there.
func scoreTicks(a, scores []float64, majorticks int) plot.ConstantTicks {
	n := len(a)
	step := n / majorticks
	if step < 1 {
		step = 1
	}
	var ticks []plot.Tick
	for i := 0; i < n && len(ticks) < majorticks; i += step {
		ticks = append(ticks, plot.Tick{
			Value: a[i],
			Label: fmt.Sprintf("%.2f", scores[i]),
		})
	}
	return plot.ConstantTicks(ticks)
}
